package windowing

import "fmt"

// Type names a window function
type Type string

const (
	TypeHann        Type = "hann"
	TypeHamming     Type = "hamming"
	TypeBlackman    Type = "blackman"
	TypeRectangular Type = "none"
)

// Window tapers a fixed-length signal in place
type Window interface {
	ApplyInPlace(signal []float64) error
	Size() int
}

// Rectangular leaves the signal unchanged
type Rectangular struct {
	size int
}

func (r Rectangular) Size() int { return r.size }

func (r Rectangular) ApplyInPlace(signal []float64) error {
	if len(signal) != r.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), r.size)
	}
	return nil
}

// New returns a symmetric window of the given type and size
func New(t Type, size int) (Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", size)
	}

	switch t {
	case TypeHann:
		return NewHann(size, true), nil
	case TypeHamming:
		return NewHamming(size, true), nil
	case TypeBlackman:
		return NewBlackman(size, true), nil
	case TypeRectangular, "":
		return Rectangular{size: size}, nil
	default:
		return nil, fmt.Errorf("unknown window type %q", t)
	}
}

// Valid reports whether t names a supported window
func (t Type) Valid() bool {
	switch t {
	case TypeHann, TypeHamming, TypeBlackman, TypeRectangular, "":
		return true
	}
	return false
}
