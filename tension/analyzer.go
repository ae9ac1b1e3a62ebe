package tension

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/RyanBlaney/capillary/algorithms/spectral"
	"github.com/RyanBlaney/capillary/algorithms/stats"
	"github.com/RyanBlaney/capillary/logging"
	"github.com/RyanBlaney/capillary/tension/config"
)

var (
	ErrNoValidFrames   = errors.New("tension: no frame produced a wavelength")
	ErrInvalidDistance = errors.New("tension: camera distance must be positive")
)

// FrameResult is the outcome for a single intensity profile
type FrameResult struct {
	Index      int     `json:"index"`
	Wavelength float64 `json:"wavelength,omitempty"` // pixels
	Tension    float64 `json:"tension,omitempty"`    // mN/m
	Err        string  `json:"error,omitempty"`
}

// Result is the outcome of analyzing a group of frames
type Result struct {
	Resolution         float64                `json:"resolution"`          // pixels per meter
	DominantWavelength float64                `json:"dominant_wavelength"` // pixels
	Tension            float64                `json:"tension"`             // mN/m at the dominant wavelength
	FrameTension       stats.Summary          `json:"frame_tension"`       // spread over accepted frames
	Histogram          *stats.HistogramResult `json:"histogram"`
	Frames             []FrameResult          `json:"frames"`
	Rejected           int                    `json:"rejected"`
}

// Analyzer turns a group of intensity profiles taken across the ripples into
// a surface tension estimate
type Analyzer struct {
	config    *config.Config
	estimator *spectral.WavelengthEstimator
	histogram *stats.ModeHistogram
	logger    logging.Logger
}

// NewAnalyzer creates an analyzer; nil selects config.DefaultConfig
func NewAnalyzer(cfg *config.Config) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	estimator, err := spectral.NewWavelengthEstimator(cfg.Analysis.Window)
	if err != nil {
		return nil, err
	}

	histogram, err := stats.NewModeHistogram(&cfg.Histogram.HistogramConfig)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		config:    cfg,
		estimator: estimator,
		histogram: histogram,
		logger: logging.WithFields(logging.Fields{
			"component": "tension_analyzer",
		}),
	}, nil
}

// Analyze estimates one wavelength per frame, takes the dominant one from a
// two-pass histogram and converts it to surface tension. Frames that do not
// yield a wavelength are reported in Result.Frames and skipped.
func (a *Analyzer) Analyze(frames [][]float64, distanceMM float64) (*Result, error) {
	logger := a.logger.WithFields(logging.Fields{
		"function": "Analyze",
		"frames":   len(frames),
	})

	resolution, err := Resolution(distanceMM, a.config.Camera)
	if err != nil {
		logger.Error(err, "Invalid camera distance")
		return nil, err
	}

	frameResults := a.estimateFrames(frames)

	var wavelengths, tensions []float64
	rejected := 0
	for i := range frameResults {
		fr := &frameResults[i]
		if fr.Err != "" {
			rejected++
			logger.Warn("Frame rejected", logging.Fields{"index": fr.Index, "reason": fr.Err})
			continue
		}
		fr.Tension = WavelengthToTension(fr.Wavelength, resolution, a.config.Ripple)
		wavelengths = append(wavelengths, fr.Wavelength)
		tensions = append(tensions, fr.Tension)
	}

	if len(wavelengths) == 0 {
		err := fmt.Errorf("%w: %d frames rejected", ErrNoValidFrames, rejected)
		logger.Error(err, "Analysis failed")
		return nil, err
	}

	hist, err := a.histogram.Estimate(wavelengths, a.config.Histogram.Bins)
	if err != nil {
		return nil, err
	}

	dominant := hist.RefinedMode
	if hist.ModeCount == 0 {
		dominant = stats.Summarize(wavelengths).Mean
		logger.Warn("No wavelength inside the histogram window, using the mean", logging.Fields{
			"coarse_mode": hist.CoarseMode,
			"mean":        dominant,
		})
	}

	result := &Result{
		Resolution:         resolution,
		DominantWavelength: dominant,
		Tension:            WavelengthToTension(dominant, resolution, a.config.Ripple),
		FrameTension:       stats.Summarize(tensions),
		Histogram:          hist,
		Frames:             frameResults,
		Rejected:           rejected,
	}

	logger.Info("Surface tension estimated", logging.Fields{
		"dominant_wavelength": result.DominantWavelength,
		"tension":             result.Tension,
		"accepted":            len(wavelengths),
		"rejected":            rejected,
	})

	return result, nil
}

// estimateFrames runs the wavelength estimator over all frames on a worker
// pool. Results keep the frame order.
func (a *Analyzer) estimateFrames(frames [][]float64) []FrameResult {
	results := make([]FrameResult, len(frames))
	if len(frames) == 0 {
		return results
	}

	jobs := make(chan int, len(frames))
	var wg sync.WaitGroup

	for range a.workerCount(len(frames)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx].Index = idx
				est, err := a.estimator.Estimate(frames[idx])
				if err != nil {
					results[idx].Err = err.Error()
					continue
				}
				results[idx].Wavelength = est.Wavelength
			}
		}()
	}

	for idx := range frames {
		jobs <- idx
	}
	close(jobs)

	wg.Wait()
	return results
}

func (a *Analyzer) workerCount(numFrames int) int {
	workers := a.config.Analysis.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
		// small groups are not worth the goroutines
		if numFrames < 8 {
			workers = 1
		}
	}
	return max(1, min(workers, numFrames))
}
