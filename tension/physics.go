package tension

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/capillary/tension/config"
)

// Resolution returns the image scale in pixels per meter for a camera held
// distanceMM millimeters above the liquid
func Resolution(distanceMM float64, cam config.CameraConfig) (float64, error) {
	if !(distanceMM > 0) || math.IsInf(distanceMM, 0) {
		return 0, fmt.Errorf("%w: %g mm", ErrInvalidDistance, distanceMM)
	}
	return cam.ResolutionConstant / cam.ResizeFactor * cam.ReferenceDistanceMM / distanceMM, nil
}

// WavelengthToTension converts a ripple wavelength in pixels to surface
// tension in mN/m using the capillary-gravity dispersion relation
//
//	omega^2 = g*k + (sigma/rho)*k^3
func WavelengthToTension(wavelengthPx, resolution float64, ripple config.RippleConfig) float64 {
	lambda := wavelengthPx / resolution
	k := 2 * math.Pi / lambda
	w := 2 * math.Pi * ripple.FrequencyHz

	// N/m -> mN/m
	return ripple.Density * (w*w - k*ripple.Gravity) / (k * k * k) * 1e3
}

// TensionToWavelength inverts WavelengthToTension. The dispersion relation is
// monotonic in k for positive tension, so a bisection on k converges.
func TensionToWavelength(tension, resolution float64, ripple config.RippleConfig) (float64, error) {
	if !(tension > 0) {
		return 0, fmt.Errorf("tension must be positive, got %g", tension)
	}

	w := 2 * math.Pi * ripple.FrequencyHz
	sigma := tension / 1e3 / ripple.Density
	f := func(k float64) float64 { return ripple.Gravity*k + sigma*k*k*k - w*w }

	lo, hi := 0.0, 1.0
	for f(hi) < 0 {
		hi *= 2
	}
	for range 200 {
		mid := (lo + hi) / 2
		if f(mid) < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}

	k := (lo + hi) / 2
	return 2 * math.Pi / k * resolution, nil
}
