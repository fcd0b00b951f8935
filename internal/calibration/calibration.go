// Package calibration converts between pixel and physical measurements.
package calibration

import (
	"errors"
	"math"
)

// ErrDegenerateMarker is returned when a scaling factor would divide by zero,
// which happens when the reference marker was measured with no extent.
var ErrDegenerateMarker = errors.New("reference marker has zero diameter")

// DiameterFromArea returns the diameter of a disc covering area pixels.
func DiameterFromArea(area int) float64 {
	return math.Sqrt(4 * float64(area) / math.Pi)
}

// ScalingFactor returns numerator/denominator, typically the physical
// diameter of the reference marker over its measured pixel diameter.
func ScalingFactor(numerator, denominator float64) (float64, error) {
	if denominator == 0 {
		return 0, ErrDegenerateMarker
	}
	return numerator / denominator, nil
}

// Scale multiplies value by factor.
func Scale(value, factor float64) float64 {
	return value * factor
}
