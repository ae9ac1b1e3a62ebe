package spline

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/capillary/logging"
	"gonum.org/v1/gonum/floats"
)

// FailureSentinel is what PeakRefinement returns when refinement fails
const FailureSentinel = -1e8

// Peak is a refined peak on the fitted spline
type Peak struct {
	Position float64 `json:"position"` // sub-sample abscissa of the peak
	Height   float64 `json:"height"`   // spline value at Position
	Segment  int     `json:"segment"`  // right knot of the segment that was solved
	Coarse   int     `json:"coarse"`   // index of the largest raw sample
}

// LocatePeakSegment returns the right knot of the unit segment that holds the
// true peak. The largest sample (first one on ties) must be interior; the
// segment on the side of the larger neighbour is chosen, so the result is
// max when y[max-1] > y[max+1] and max+1 otherwise.
func LocatePeakSegment(y []float64) (int, error) {
	if err := validateSamples(y); err != nil {
		return 0, err
	}

	idx, _, err := locate(y)
	return idx, err
}

func locate(y []float64) (segment, coarse int, err error) {
	coarse = floats.MaxIdx(y)
	if coarse == 0 || coarse == len(y)-1 {
		return 0, coarse, fmt.Errorf("%w: index %d of %d", ErrBoundaryPeak, coarse, len(y))
	}

	if y[coarse-1] > y[coarse+1] {
		return coarse, coarse, nil
	}
	return coarse + 1, coarse, nil
}

// Refine fits a natural cubic spline through y and returns its peak next to
// the largest sample.
func Refine(y []float64) (Peak, error) {
	s, err := NewNaturalSpline(y)
	if err != nil {
		return Peak{}, err
	}

	return s.Peak()
}

// Peak finds the refined peak of an already fitted spline
func (s *NaturalSpline) Peak() (Peak, error) {
	segment, coarse, err := locate(s.y)
	if err != nil {
		return Peak{Coarse: coarse}, err
	}

	pos, err := s.StationaryPoint(segment)
	if err != nil {
		return Peak{Segment: segment, Coarse: coarse}, err
	}

	return Peak{
		Position: pos,
		Height:   s.Eval(pos),
		Segment:  segment,
		Coarse:   coarse,
	}, nil
}

// RefinePeak returns the sub-sample position of the peak of y
func RefinePeak(y []float64) (float64, error) {
	p, err := Refine(y)
	if err != nil {
		return 0, err
	}
	return p.Position, nil
}

// PeakRefinement is RefinePeak for callers that check a sentinel instead of
// an error. Failures are reported on the global logger and FailureSentinel
// is returned.
func PeakRefinement(y []float64) float64 {
	pos, err := RefinePeak(y)
	if err == nil {
		return pos
	}

	fields := logging.Fields{
		"component": "peak_refinement",
		"samples":   len(y),
	}
	switch {
	case errors.Is(err, ErrBoundaryPeak):
		logging.Warn("maximum at the first or the last sample", fields)
	case errors.Is(err, ErrNoRealRoot):
		logging.Warn("derivative equation has no real roots", fields)
	case errors.Is(err, ErrRootOutOfRange):
		logging.Warn("no root inside the peak segment", fields)
	default:
		logging.Error(err, "peak refinement rejected input", fields)
	}

	return FailureSentinel
}
