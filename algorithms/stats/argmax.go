package stats

import "gonum.org/v1/gonum/floats"

// ArgMax returns the index of the first maximum of data, or -1 when data is
// empty.
func ArgMax(data []float64) int {
	if len(data) == 0 {
		return -1
	}
	return floats.MaxIdx(data)
}
