package stats

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/capillary/algorithms/spline"
	"gonum.org/v1/gonum/floats"
)

// HistogramConfig describes the coarse pass of a two-pass mode histogram
type HistogramConfig struct {
	DomainMin  float64 `json:"domain_min" yaml:"domain_min"`   // inclusive lower bound of the coarse pass
	DomainMax  float64 `json:"domain_max" yaml:"domain_max"`   // exclusive upper bound of the coarse pass
	CoarseBins int     `json:"coarse_bins" yaml:"coarse_bins"` // number of coarse bins
	Window     float64 `json:"window" yaml:"window"`           // fine pass spans coarse mode +/- Window
}

// DefaultHistogramConfig returns the coarse domain used for ripple wavelengths in pixels
func DefaultHistogramConfig() HistogramConfig {
	return HistogramConfig{
		DomainMin:  80,
		DomainMax:  160,
		CoarseBins: 100,
		Window:     10,
	}
}

// Validate checks the configuration for usable values
func (c HistogramConfig) Validate() error {
	if !(c.DomainMax > c.DomainMin) {
		return fmt.Errorf("histogram domain [%g, %g) is empty", c.DomainMin, c.DomainMax)
	}
	if c.CoarseBins <= 0 {
		return fmt.Errorf("coarse bin count must be positive, got %d", c.CoarseBins)
	}
	if !(c.Window > 0) {
		return fmt.Errorf("fine window must be positive, got %g", c.Window)
	}
	return nil
}

// HistogramResult holds both passes of a mode histogram
type HistogramResult struct {
	Edges       []float64 `json:"edges"`        // left edge of each fine bin
	Counts      []float64 `json:"counts"`       // measurements per fine bin
	BinWidth    float64   `json:"bin_width"`    // fine bin width
	CoarseMode  float64   `json:"coarse_mode"`  // left edge of the fullest coarse bin
	CoarseCount int       `json:"coarse_count"` // measurements in that bin; 0 means nothing fell in the domain
	Mode        float64   `json:"mode"`         // centre of the fullest fine bin
	ModeCount   float64   `json:"mode_count"`
	RefinedMode float64   `json:"refined_mode"` // sub-bin mode from a spline fit of the counts
}

// ModeHistogram estimates the dominant value of a set of measurements with a
// coarse pass over a fixed domain followed by a fine pass around its mode.
type ModeHistogram struct {
	config HistogramConfig
}

// NewModeHistogram creates a mode histogram; nil selects DefaultHistogramConfig
func NewModeHistogram(config *HistogramConfig) (*ModeHistogram, error) {
	cfg := DefaultHistogramConfig()
	if config != nil {
		cfg = *config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ModeHistogram{config: cfg}, nil
}

// CoarseMode runs the coarse pass. Measurements outside the domain are
// ignored. It returns the left edge of the fullest bin (first on ties) and
// its count; when no measurement is in the domain the mode is 0.
func (h *ModeHistogram) CoarseMode(data []float64) (float64, int) {
	cfg := h.config
	// the upper edge is padded so DomainMax-epsilon never lands past the last bin
	delta := (cfg.DomainMax + 0.01 - cfg.DomainMin) / float64(cfg.CoarseBins)

	counts := make([]float64, cfg.CoarseBins)
	for _, v := range data {
		if v >= cfg.DomainMin && v < cfg.DomainMax {
			idx := int(math.Floor((v - cfg.DomainMin) / delta))
			if idx >= 0 && idx < len(counts) {
				counts[idx]++
			}
		}
	}

	best := floats.MaxIdx(counts)
	if counts[best] == 0 {
		return 0, 0
	}
	return float64(best)*delta + cfg.DomainMin, int(counts[best])
}

// Fill runs both passes and writes the fine histogram into edges and counts,
// which must have the same length. Counts are added to what counts already
// holds, so callers pass a zeroed buffer for a fresh histogram. Measurements
// whose fine bin falls outside the buffer are dropped. The coarse mode is
// returned.
func (h *ModeHistogram) Fill(data, edges, counts []float64) (float64, error) {
	bins := len(edges)
	if bins == 0 || len(counts) != bins {
		return 0, fmt.Errorf("fine histogram needs matching non-empty buffers, got %d edges and %d counts", len(edges), len(counts))
	}

	coarse, _ := h.CoarseMode(data)
	h.fill(data, coarse, edges, counts)
	return coarse, nil
}

func (h *ModeHistogram) fill(data []float64, coarse float64, edges, counts []float64) {
	bins := len(edges)
	lo := coarse - h.config.Window
	hi := coarse + h.config.Window
	delta := (hi - lo) / float64(bins)

	for _, v := range data {
		idx := math.Floor((v - lo) / delta)
		if idx >= 0 && idx < float64(bins) {
			counts[int(idx)]++
		}
	}

	for i := range edges {
		edges[i] = delta*float64(i) + lo
	}
}

// Estimate runs both passes with the requested number of fine bins
func (h *ModeHistogram) Estimate(data []float64, bins int) (*HistogramResult, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("fine bin count must be positive, got %d", bins)
	}

	coarse, coarseCount := h.CoarseMode(data)

	edges := make([]float64, bins)
	counts := make([]float64, bins)
	h.fill(data, coarse, edges, counts)

	width := 2 * h.config.Window / float64(bins)

	result := &HistogramResult{
		Edges:       edges,
		Counts:      counts,
		BinWidth:    width,
		CoarseMode:  coarse,
		CoarseCount: coarseCount,
	}

	best := floats.MaxIdx(counts)
	result.ModeCount = counts[best]
	if result.ModeCount == 0 {
		result.Mode = coarse
		result.RefinedMode = coarse
		return result, nil
	}

	result.Mode = edges[best] + width/2
	result.RefinedMode = result.Mode
	if pos, err := spline.RefinePeak(counts); err == nil {
		// counts are sampled at bin centres
		result.RefinedMode = edges[0] + (pos+0.5)*width
	}

	return result, nil
}

// FillHistogram runs the two-pass histogram with the default domain. See
// ModeHistogram.Fill for the buffer contract.
func FillHistogram(data, edges, counts []float64) error {
	h := &ModeHistogram{config: DefaultHistogramConfig()}
	_, err := h.Fill(data, edges, counts)
	return err
}
