package spline

import (
	"fmt"
	"math"
)

const (
	// below this the derivative's quadratic term is ignored
	degenerateTolerance = 1e-6

	// accepted local roots: "+" root in (plusRootMin, plusRootMax),
	// "-" root in [minusRootMin, minusRootMax]
	plusRootMin  = -0.1
	plusRootMax  = 1.1
	minusRootMin = 0.0
	minusRootMax = 1.0
)

// NaturalSpline is a natural cubic spline through samples at integer abscissas
type NaturalSpline struct {
	y []float64
	m []float64
}

// NewNaturalSpline fits a natural cubic spline through y. The samples are
// copied, so the caller may reuse the slice.
func NewNaturalSpline(y []float64) (*NaturalSpline, error) {
	m, err := SecondDerivatives(y)
	if err != nil {
		return nil, err
	}

	samples := make([]float64, len(y))
	copy(samples, y)

	return &NaturalSpline{y: samples, m: m}, nil
}

// Len returns the number of knots
func (s *NaturalSpline) Len() int {
	return len(s.y)
}

// SecondDerivatives returns a copy of the second derivative at each knot
func (s *NaturalSpline) SecondDerivatives() []float64 {
	out := make([]float64, len(s.m))
	copy(out, s.m)
	return out
}

// segment returns the right knot of the unit segment holding x
func (s *NaturalSpline) segment(x float64) int {
	i := int(math.Ceil(x + 1e-4))
	return max(1, min(i, len(s.y)-1))
}

// Eval evaluates the spline at x. Outside [0, N-1] the end cubics are extrapolated.
func (s *NaturalSpline) Eval(x float64) float64 {
	i := s.segment(x)
	d0 := x - float64(i-1)
	d1 := float64(i) - x

	return s.m[i-1]*d1*d1*d1/6 +
		s.m[i]*d0*d0*d0/6 +
		(s.y[i-1]-s.m[i-1]/6)*d1 +
		(s.y[i]-s.m[i]/6)*d0
}

// Slope evaluates the first derivative of the spline at x
func (s *NaturalSpline) Slope(x float64) float64 {
	i := s.segment(x)
	d0 := x - float64(i-1)
	d1 := float64(i) - x

	return -s.m[i-1]*d1*d1/2 +
		s.m[i]*d0*d0/2 -
		(s.y[i-1] - s.m[i-1]/6) +
		(s.y[i] - s.m[i]/6)
}

// StationaryPoint returns the abscissa where the spline's derivative vanishes
// on the segment [idx-1, idx].
//
// With t = idx - x the derivative is a*t^2 + b*t + c. When a is negligible
// the linear solution (idx-1) - c/b is returned. Otherwise the "+" root is
// preferred if it lies in (-0.1, 1.1), then the "-" root if it lies in [0, 1],
// and the result is idx - t.
func (s *NaturalSpline) StationaryPoint(idx int) (float64, error) {
	if idx < 1 || idx >= len(s.y) {
		return 0, fmt.Errorf("%w: segment %d outside [1, %d]", ErrInvalidInput, idx, len(s.y)-1)
	}

	a, b, c := s.slopeCoefficients(idx)
	bias := float64(idx - 1)

	if math.Abs(a) < degenerateTolerance {
		if b == 0 {
			return 0, fmt.Errorf("%w: flat segment %d", ErrNoRealRoot, idx)
		}
		return bias - c/b, nil
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, fmt.Errorf("%w: discriminant %g on segment %d", ErrNoRealRoot, disc, idx)
	}

	sq := math.Sqrt(disc)
	plus := (-b + sq) / (2 * a)
	minus := (-b - sq) / (2 * a)

	switch {
	case plus > plusRootMin && plus < plusRootMax:
		return bias + 1 - plus, nil
	case minus >= minusRootMin && minus <= minusRootMax:
		return bias + 1 - minus, nil
	default:
		return 0, fmt.Errorf("%w: roots %g and %g on segment %d", ErrRootOutOfRange, plus, minus, idx)
	}
}

func (s *NaturalSpline) slopeCoefficients(idx int) (a, b, c float64) {
	mL, mR := s.m[idx-1], s.m[idx]
	a = (mR - mL) / 2
	b = -mR
	c = mR/2 + s.y[idx] - s.y[idx-1] - (mR-mL)/6
	return a, b, c
}
