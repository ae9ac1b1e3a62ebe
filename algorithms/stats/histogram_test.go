package stats_test

import (
	"testing"

	"github.com/RyanBlaney/capillary/algorithms/stats"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func uniform(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*(float64(i)+0.5)/float64(n)
	}
	return out
}

func TestModeHistogram_UniformCluster(t *testing.T) {
	h, err := stats.NewModeHistogram(nil)
	require.NoError(t, err)

	data := uniform(118, 122, 400)
	res, err := h.Estimate(data, 20)
	require.NoError(t, err)

	require.Len(t, res.Edges, 20)
	require.Len(t, res.Counts, 20)
	require.InDelta(t, 1.0, res.BinWidth, 1e-12)

	require.GreaterOrEqual(t, res.CoarseMode, 118.0)
	require.Less(t, res.CoarseMode, 122.0)
	require.Positive(t, res.CoarseCount)

	// fine pass spans coarse mode +/- 10
	require.InDelta(t, res.CoarseMode-10, res.Edges[0], 1e-9)
	require.GreaterOrEqual(t, res.Edges[0], 108.0)
	require.Less(t, res.Edges[0], 112.0)

	require.Equal(t, 400.0, floats.Sum(res.Counts))
	for i, c := range res.Counts {
		if c == 0 {
			continue
		}
		require.Greater(t, res.Edges[i]+res.BinWidth, 118.0, "bin %d", i)
		require.Less(t, res.Edges[i], 122.0, "bin %d", i)
	}

	require.GreaterOrEqual(t, res.Mode, 118.0)
	require.Less(t, res.Mode, 122.0)
	require.GreaterOrEqual(t, res.RefinedMode, 118.0)
	require.Less(t, res.RefinedMode, 122.0)
}

func TestModeHistogram_FillAccumulates(t *testing.T) {
	h, err := stats.NewModeHistogram(nil)
	require.NoError(t, err)

	data := uniform(95, 97, 50)
	edges := make([]float64, 10)
	counts := make([]float64, 10)

	coarse, err := h.Fill(data, edges, counts)
	require.NoError(t, err)
	require.Equal(t, 50.0, floats.Sum(counts))
	require.InDelta(t, coarse-10, edges[0], 1e-12)
	require.InDelta(t, 2.0, edges[1]-edges[0], 1e-12)

	_, err = h.Fill(data, edges, counts)
	require.NoError(t, err)
	require.Equal(t, 100.0, floats.Sum(counts))
}

func TestModeHistogram_OutOfRangeDropped(t *testing.T) {
	h, err := stats.NewModeHistogram(nil)
	require.NoError(t, err)

	data := append(uniform(130, 131, 30), 20, 500, 79.99, 160)
	res, err := h.Estimate(data, 20)
	require.NoError(t, err)
	require.Equal(t, 30.0, floats.Sum(res.Counts))
}

func TestModeHistogram_NothingInDomain(t *testing.T) {
	h, err := stats.NewModeHistogram(nil)
	require.NoError(t, err)

	coarse, count := h.CoarseMode([]float64{1, 2, 500})
	require.Zero(t, coarse)
	require.Zero(t, count)

	res, err := h.Estimate([]float64{1, 2, 500}, 20)
	require.NoError(t, err)
	require.Zero(t, res.CoarseCount)
	require.InDelta(t, -10.0, res.Edges[0], 1e-12)
	// 1 and 2 still land in the fine window around 0
	require.Equal(t, 2.0, floats.Sum(res.Counts))
}

func TestModeHistogram_CustomDomain(t *testing.T) {
	cfg := stats.HistogramConfig{DomainMin: 0, DomainMax: 10, CoarseBins: 10, Window: 1}
	h, err := stats.NewModeHistogram(&cfg)
	require.NoError(t, err)

	data := []float64{2.2, 2.4, 2.6, 7.1, 7.3}
	coarse, count := h.CoarseMode(data)
	require.Equal(t, 3, count)
	require.InDelta(t, 2.0, coarse, 0.01)
}

func TestHistogramConfig_Validate(t *testing.T) {
	bad := []stats.HistogramConfig{
		{DomainMin: 10, DomainMax: 10, CoarseBins: 10, Window: 1},
		{DomainMin: 0, DomainMax: 10, CoarseBins: 0, Window: 1},
		{DomainMin: 0, DomainMax: 10, CoarseBins: 10, Window: 0},
	}
	for _, cfg := range bad {
		_, err := stats.NewModeHistogram(&cfg)
		require.Error(t, err)
	}
	require.NoError(t, stats.DefaultHistogramConfig().Validate())
}

func TestFillHistogram(t *testing.T) {
	edges := make([]float64, 20)
	counts := make([]float64, 20)
	require.NoError(t, stats.FillHistogram(uniform(118, 122, 100), edges, counts))
	require.Equal(t, 100.0, floats.Sum(counts))

	require.Error(t, stats.FillHistogram(nil, make([]float64, 3), make([]float64, 2)))
	require.Error(t, stats.FillHistogram(nil, nil, nil))

	_, err := (&stats.ModeHistogram{}).Estimate(nil, 0)
	require.Error(t, err)
}
