package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds basic descriptive statistics of a sample
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"` // sample standard deviation, 0 below two values
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes a Summary; an empty slice yields the zero Summary
func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}

	s := Summary{
		Count: len(data),
		Min:   floats.Min(data),
		Max:   floats.Max(data),
	}

	if len(data) < 2 {
		s.Mean = data[0]
		return s
	}

	s.Mean, s.StdDev = stat.MeanStdDev(data, nil)
	return s
}
