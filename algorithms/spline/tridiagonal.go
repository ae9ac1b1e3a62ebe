package spline

import (
	"fmt"
	"math"
)

// Band is one row of a tridiagonal matrix: sub-diagonal, diagonal, super-diagonal.
type Band [3]float64

// SecondDerivatives returns the second derivative of the natural cubic spline
// through y at every sample. Abscissas are the sample indices, so the interior
// equations are
//
//	m[i-1] + 4*m[i] + m[i+1] = 6*(y[i+1] - 2*y[i] + y[i-1])
//
// and m[0] = m[N-1] = 0.
func SecondDerivatives(y []float64) ([]float64, error) {
	if err := validateSamples(y); err != nil {
		return nil, err
	}

	n := len(y)
	m := make([]float64, n)

	// rows 0 and n-1 stay zero; only the interior is solved
	band := make([]Band, n)
	rhs := make([]float64, n)
	for i := 1; i < n-1; i++ {
		band[i] = Band{1, 4, 1}
		rhs[i] = 6 * (y[i+1] - 2*y[i] + y[i-1])
	}

	if err := solveBand(band, rhs, m, 1, n-2); err != nil {
		return nil, err
	}

	return m, nil
}

// SolveTridiagonal solves the system given by band and rhs and returns x.
// band[0][0] and band[n-1][2] are ignored. Both arguments are used as
// scratch space and are overwritten.
func SolveTridiagonal(band []Band, rhs []float64) ([]float64, error) {
	if len(band) == 0 || len(band) != len(rhs) {
		return nil, fmt.Errorf("%w: %d rows for %d right-hand values", ErrInvalidInput, len(band), len(rhs))
	}

	x := make([]float64, len(rhs))
	if err := solveBand(band, rhs, x, 0, len(rhs)-1); err != nil {
		return nil, err
	}
	return x, nil
}

// solveBand runs Gaussian elimination restricted to rows lo..hi. Forward
// elimination clears the sub-diagonal, back substitution fills x from hi
// down to lo. Values of x outside lo..hi are treated as known (zero for the
// natural spline) and are not touched.
func solveBand(band []Band, rhs, x []float64, lo, hi int) error {
	for i := lo + 1; i <= hi; i++ {
		pivot := band[i-1][1]
		if pivot == 0 {
			return fmt.Errorf("%w: zero pivot at row %d", ErrInvalidInput, i-1)
		}
		factor := band[i][0] / pivot
		band[i][0] = 0
		band[i][1] -= band[i-1][2] * factor
		rhs[i] -= rhs[i-1] * factor
	}

	if band[hi][1] == 0 {
		return fmt.Errorf("%w: zero pivot at row %d", ErrInvalidInput, hi)
	}
	x[hi] = rhs[hi] / band[hi][1]
	for i := hi - 1; i >= lo; i-- {
		x[i] = (rhs[i] - band[i][2]*x[i+1]) / band[i][1]
	}

	return nil
}

func validateSamples(y []float64) error {
	if len(y) < 3 {
		return fmt.Errorf("%w: need at least 3 samples, got %d", ErrInvalidInput, len(y))
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite sample %v at index %d", ErrInvalidInput, v, i)
		}
	}
	return nil
}
