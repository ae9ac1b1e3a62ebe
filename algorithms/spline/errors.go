package spline

import "errors"

// Every refinement failure maps to exactly one of these. Callers match them
// with errors.Is; wrapped variants carry the offending index or value.
var (
	// ErrInvalidInput is returned for sequences shorter than three samples
	// or with a non-finite value.
	ErrInvalidInput = errors.New("spline: invalid input")

	// ErrBoundaryPeak means the largest sample is the first or the last one,
	// so there is no interior segment to refine.
	ErrBoundaryPeak = errors.New("spline: maximum at sequence boundary")

	// ErrNoRealRoot means the derivative of the peak segment has no real zero.
	ErrNoRealRoot = errors.New("spline: derivative has no real root")

	// ErrRootOutOfRange means no real root falls inside the accepted window
	// around the peak segment.
	ErrRootOutOfRange = errors.New("spline: root outside peak segment")
)
