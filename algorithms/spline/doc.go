// Package spline locates the sub-sample position of a peak in an evenly
// sampled signal.
//
// A natural cubic spline is fitted through the samples (abscissa == index,
// zero second derivative at both ends). The second derivatives come from a
// constant-coefficient tridiagonal system solved in O(N). The segment next to
// the largest sample that leans toward the larger neighbour is then searched
// for the zero of the spline's first derivative, which is a quadratic in the
// local segment coordinate.
//
// The algorithm assumes a single, well separated interior peak. Inputs that
// break that assumption surface as ErrBoundaryPeak, ErrNoRealRoot or
// ErrRootOutOfRange rather than as a plausible looking coordinate.
package spline
