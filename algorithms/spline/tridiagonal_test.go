package spline_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/RyanBlaney/capillary/algorithms/spline"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSecondDerivatives_NaturalBoundary(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{3, 4, 5, 17, 256} {
		y := make([]float64, n)
		for i := range y {
			y[i] = rng.NormFloat64() * 10
		}

		m, err := spline.SecondDerivatives(y)
		require.NoError(t, err)
		require.Len(t, m, n)
		require.Equal(t, 0.0, m[0])
		require.Equal(t, 0.0, m[n-1])
	}
}

func TestSecondDerivatives_SatisfiesInteriorEquations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	n := 64
	y := make([]float64, n)
	for i := range y {
		y[i] = 100*math.Sin(float64(i)/5) + rng.Float64()
	}

	m, err := spline.SecondDerivatives(y)
	require.NoError(t, err)

	// interior system as a gonum tridiagonal matrix
	k := n - 2
	sub := make([]float64, k-1)
	diag := make([]float64, k)
	super := make([]float64, k-1)
	for i := range diag {
		diag[i] = 4
	}
	for i := range sub {
		sub[i] = 1
		super[i] = 1
	}
	a := mat.NewTridiag(k, sub, diag, super)

	var lhs mat.VecDense
	lhs.MulVec(a, mat.NewVecDense(k, m[1:n-1]))

	for i := 1; i < n-1; i++ {
		want := 6 * (y[i+1] - 2*y[i] + y[i-1])
		got := lhs.AtVec(i - 1)
		require.InDelta(t, want, got, 1e-9*math.Max(1, math.Abs(want)), "row %d", i)
	}
}

func TestSecondDerivatives_LinearDataIsFlat(t *testing.T) {
	m, err := spline.SecondDerivatives([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0, 0, 0}, m)
}

func TestSecondDerivatives_InvalidInput(t *testing.T) {
	cases := map[string][]float64{
		"empty": nil,
		"two":   {1, 2},
		"nan":   {1, math.NaN(), 2},
		"inf":   {1, 2, math.Inf(1)},
	}
	for name, y := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := spline.SecondDerivatives(y)
			require.ErrorIs(t, err, spline.ErrInvalidInput)
		})
	}
}

func TestSolveTridiagonal(t *testing.T) {
	// [2 1 0; 1 3 1; 0 1 2] x = [4 10 8] -> x = [1 2 3]
	band := []spline.Band{{0, 2, 1}, {1, 3, 1}, {1, 2, 0}}
	x, err := spline.SolveTridiagonal(band, []float64{4, 10, 8})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{1, 2, 3}, x, 1e-12)
}

func TestSolveTridiagonal_Errors(t *testing.T) {
	_, err := spline.SolveTridiagonal([]spline.Band{{0, 1, 0}}, []float64{1, 2})
	require.ErrorIs(t, err, spline.ErrInvalidInput)

	_, err = spline.SolveTridiagonal([]spline.Band{{0, 0, 1}, {1, 1, 0}}, []float64{1, 2})
	require.ErrorIs(t, err, spline.ErrInvalidInput)
}
