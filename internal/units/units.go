// Package units provides shared angle conversions for logs and overlays.
// Messages carry radians and metres; humans read degrees.
package units

import "math"

// Degrees converts an angle in radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Radians converts an angle in degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
