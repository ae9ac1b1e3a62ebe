package spline_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/RyanBlaney/capillary/algorithms/spline"
	"github.com/RyanBlaney/capillary/logging"
	"github.com/stretchr/testify/require"
)

func TestLocatePeakSegment(t *testing.T) {
	cases := []struct {
		name string
		y    []float64
		want int
	}{
		{"left neighbour larger", []float64{1, 3, 7, 9, 6, 2}, 3},
		{"right neighbour larger", []float64{2, 6, 9, 7, 3, 1}, 3},
		{"equal neighbours", []float64{1, 3, 7, 9, 7, 3, 1}, 4},
		{"tie takes first maximum", []float64{0, 9, 9, 0}, 2},
		{"three samples", []float64{0, 1, 0}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := spline.LocatePeakSegment(tc.y)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestLocatePeakSegment_BoundaryPeak(t *testing.T) {
	for _, y := range [][]float64{{1, 2, 3, 4, 5}, {5, 4, 3}, {3, 1, 3}} {
		_, err := spline.LocatePeakSegment(y)
		require.ErrorIs(t, err, spline.ErrBoundaryPeak, "%v", y)
	}
}

func TestRefinePeak_Example(t *testing.T) {
	p, err := spline.Refine([]float64{1, 3, 7, 9, 6, 2})
	require.NoError(t, err)

	require.Equal(t, 3, p.Coarse)
	require.Equal(t, 3, p.Segment)
	require.Greater(t, p.Position, 2.0)
	require.Less(t, p.Position, 4.0)
	require.Less(t, math.Abs(p.Position-3), 0.5)
	require.InDelta(t, 2.896976239267837, p.Position, 1e-9)
	require.Greater(t, p.Height, 9.0)

	s, err := spline.NewNaturalSpline([]float64{1, 3, 7, 9, 6, 2})
	require.NoError(t, err)
	require.InDelta(t, 0, s.Slope(p.Position), 1e-9)
}

func TestRefinePeak_Symmetric(t *testing.T) {
	cases := [][]float64{
		{1, 3, 7, 9, 7, 3, 1},
		{0, 1, 4, 9, 4, 1, 0},
		{0, 2, 5, 6, 5, 2, 0},
	}
	for _, y := range cases {
		got, err := spline.RefinePeak(y)
		require.NoError(t, err)
		require.InDelta(t, 3.0, got, 1e-6, "%v", y)
	}
}

func TestRefinePeak_WithinAdjacentSegment(t *testing.T) {
	for _, center := range []float64{9.6, 10, 10.3, 10.7} {
		y := make([]float64, 21)
		for i := range y {
			d := float64(i) - center
			y[i] = math.Exp(-d * d / 8)
		}

		got, err := spline.RefinePeak(y)
		require.NoError(t, err)
		require.InDelta(t, center, got, 0.02, "center %v", center)

		coarse := math.Round(center)
		require.LessOrEqual(t, math.Abs(got-coarse), 1.0)
	}
}

func TestRefinePeak_Errors(t *testing.T) {
	_, err := spline.RefinePeak([]float64{1, 2})
	require.ErrorIs(t, err, spline.ErrInvalidInput)

	_, err = spline.RefinePeak([]float64{1, 2, 3, 4, 5})
	require.ErrorIs(t, err, spline.ErrBoundaryPeak)
}

func TestPeakRefinement_Sentinel(t *testing.T) {
	var buf bytes.Buffer
	prev := logging.GetGlobalLogger()
	logging.SetGlobalLogger(logging.NewWriterLogger(&buf))
	defer logging.SetGlobalLogger(prev)

	require.Equal(t, spline.FailureSentinel, spline.PeakRefinement([]float64{1, 2, 3, 4, 5}))
	require.Contains(t, buf.String(), "[WARN] maximum at the first or the last sample")

	buf.Reset()
	require.Equal(t, spline.FailureSentinel, spline.PeakRefinement([]float64{1}))
	require.Contains(t, buf.String(), "[ERROR]")

	require.InDelta(t, 3.0, spline.PeakRefinement([]float64{1, 3, 7, 9, 7, 3, 1}), 1e-6)
}
