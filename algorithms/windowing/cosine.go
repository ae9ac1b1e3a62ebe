package windowing

import (
	"fmt"
	"math"
)

// cosineWindow is a generalized cosine window
//
//	w[i] = a0 - a1*cos(x) + a2*cos(2x) - ...,  x = 2*pi*i/D
//
// with D = size-1 for a symmetric window and size for a periodic one
type cosineWindow struct {
	size         int
	coefficients []float64
}

func newCosineWindow(size int, symmetric bool, a ...float64) cosineWindow {
	w := cosineWindow{size: size, coefficients: make([]float64, size)}
	if size == 1 {
		w.coefficients[0] = 1
		return w
	}

	denominator := float64(size)
	if symmetric {
		denominator = float64(size - 1)
	}

	for i := range size {
		x := 2 * math.Pi * float64(i) / denominator
		sign := 1.0
		for k, ak := range a {
			w.coefficients[i] += sign * ak * math.Cos(float64(k)*x)
			sign = -sign
		}
	}
	return w
}

// Size returns the window length
func (w cosineWindow) Size() int {
	return w.size
}

// ApplyInPlace multiplies signal by the window
func (w cosineWindow) ApplyInPlace(signal []float64) error {
	if len(signal) != w.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.size)
	}

	for i, c := range w.coefficients {
		signal[i] *= c
	}
	return nil
}

// Coefficients returns a copy of the window coefficients
func (w cosineWindow) Coefficients() []float64 {
	out := make([]float64, w.size)
	copy(out, w.coefficients)
	return out
}

// Hamming keeps a small pedestal at the ends, trading sidelobe decay for a
// lower first sidelobe than Hann
type Hamming struct {
	cosineWindow
}

// NewHamming creates a new Hamming window
func NewHamming(size int, symmetric bool) *Hamming {
	return &Hamming{newCosineWindow(size, symmetric, 0.54, 0.46)}
}

// Blackman has a wider main lobe than Hann and much lower sidelobes
type Blackman struct {
	cosineWindow
}

// NewBlackman creates a new Blackman window
func NewBlackman(size int, symmetric bool) *Blackman {
	return &Blackman{newCosineWindow(size, symmetric, 0.42, 0.5, 0.08)}
}
