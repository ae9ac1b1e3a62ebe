package spectral

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/capillary/algorithms/spline"
	"github.com/RyanBlaney/capillary/algorithms/windowing"
	"github.com/RyanBlaney/capillary/logging"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MinProfileLength is the shortest profile a wavelength is estimated from
const MinProfileLength = 8

var (
	ErrProfileTooShort = errors.New("spectral: profile too short")
	ErrNoPeriodicity   = errors.New("spectral: no periodic component")
)

// Estimate is the dominant spatial period of one intensity profile
type Estimate struct {
	Bin        float64 `json:"bin"`        // refined FFT bin of the spectral peak
	Wavelength float64 `json:"wavelength"` // period in samples (len(profile) / Bin)
	Magnitude  float64 `json:"magnitude"`  // spline height of the spectral peak
}

// WavelengthEstimator finds the dominant period of a profile from the peak of
// its magnitude spectrum, refined to a fraction of a bin with a natural
// cubic spline. It keeps no per-call state and is safe for concurrent use.
type WavelengthEstimator struct {
	fft    *FFT
	window windowing.Type
	logger logging.Logger
}

// NewWavelengthEstimator creates an estimator that tapers profiles with the
// given window type before the FFT
func NewWavelengthEstimator(window windowing.Type) (*WavelengthEstimator, error) {
	if !window.Valid() {
		return nil, fmt.Errorf("unknown window type %q", window)
	}

	return &WavelengthEstimator{
		fft:    NewFFT(),
		window: window,
		logger: logging.WithFields(logging.Fields{
			"component": "wavelength_estimator",
		}),
	}, nil
}

// Estimate returns the dominant period of profile in samples
func (e *WavelengthEstimator) Estimate(profile []float64) (Estimate, error) {
	n := len(profile)
	if n < MinProfileLength {
		return Estimate{}, fmt.Errorf("%w: %d samples, need %d", ErrProfileTooShort, n, MinProfileLength)
	}

	work := make([]float64, n)
	copy(work, profile)
	floats.AddConst(-stat.Mean(work, nil), work)

	win, err := windowing.New(e.window, n)
	if err != nil {
		return Estimate{}, err
	}
	if err := win.ApplyInPlace(work); err != nil {
		return Estimate{}, err
	}

	mag := e.fft.Magnitude(work)

	peak, err := spline.Refine(mag)
	if err != nil {
		if errors.Is(err, spline.ErrBoundaryPeak) {
			return Estimate{}, fmt.Errorf("%w: %v", ErrNoPeriodicity, err)
		}
		return Estimate{}, fmt.Errorf("refining spectral peak: %w", err)
	}
	if peak.Position <= 0 {
		return Estimate{}, fmt.Errorf("%w: peak at bin %g", ErrNoPeriodicity, peak.Position)
	}

	est := Estimate{
		Bin:        peak.Position,
		Wavelength: float64(n) / peak.Position,
		Magnitude:  peak.Height,
	}

	e.logger.Debug("Wavelength estimated", logging.Fields{
		"samples":     n,
		"coarse_bin":  peak.Coarse,
		"refined_bin": est.Bin,
		"wavelength":  est.Wavelength,
	})

	return est, nil
}
