package windowing_test

import (
	"testing"

	"github.com/RyanBlaney/capillary/algorithms/windowing"
	"github.com/stretchr/testify/require"
)

func TestHann_Symmetric(t *testing.T) {
	h := windowing.NewHann(9, true)
	c := h.Coefficients()

	require.Len(t, c, 9)
	require.InDelta(t, 0.0, c[0], 1e-15)
	require.InDelta(t, 0.0, c[8], 1e-15)
	require.InDelta(t, 1.0, c[4], 1e-15)
	for i := range 4 {
		require.InDelta(t, c[i], c[8-i], 1e-15)
	}
}

func TestHann_ApplyInPlace(t *testing.T) {
	h := windowing.NewHann(5, true)
	signal := []float64{2, 2, 2, 2, 2}
	require.NoError(t, h.ApplyInPlace(signal))
	require.InDeltaSlice(t, []float64{0, 1, 2, 1, 0}, signal, 1e-12)

	require.Error(t, h.ApplyInPlace(make([]float64, 4)))
}

func TestNew(t *testing.T) {
	w, err := windowing.New(windowing.TypeHann, 16)
	require.NoError(t, err)
	require.Equal(t, 16, w.Size())

	w, err = windowing.New(windowing.TypeRectangular, 4)
	require.NoError(t, err)
	signal := []float64{1, 2, 3, 4}
	require.NoError(t, w.ApplyInPlace(signal))
	require.Equal(t, []float64{1, 2, 3, 4}, signal)

	_, err = windowing.New("kaiser", 16)
	require.Error(t, err)
	_, err = windowing.New(windowing.TypeHann, 0)
	require.Error(t, err)

	require.True(t, windowing.TypeHann.Valid())
	require.True(t, windowing.TypeBlackman.Valid())
	require.False(t, windowing.Type("kaiser").Valid())
}

func TestCosineWindows(t *testing.T) {
	hamming := windowing.NewHamming(9, true).Coefficients()
	require.InDelta(t, 0.08, hamming[0], 1e-12)
	require.InDelta(t, 0.08, hamming[8], 1e-12)
	require.InDelta(t, 1.0, hamming[4], 1e-12)

	blackman := windowing.NewBlackman(9, true).Coefficients()
	require.InDelta(t, 0.0, blackman[0], 1e-12)
	require.InDelta(t, 1.0, blackman[4], 1e-12)
	for i := range 4 {
		require.InDelta(t, blackman[i], blackman[8-i], 1e-12)
		require.Less(t, blackman[i], hamming[i])
	}

	// a periodic window does not reach the far end
	periodic := windowing.NewHamming(8, false).Coefficients()
	require.InDelta(t, 1.0, periodic[4], 1e-12)
	require.Greater(t, periodic[7], 0.08)

	for _, typ := range []windowing.Type{windowing.TypeHamming, windowing.TypeBlackman} {
		w, err := windowing.New(typ, 4)
		require.NoError(t, err)
		require.Error(t, w.ApplyInPlace(make([]float64, 5)))
	}
}
