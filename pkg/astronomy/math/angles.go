package math

import "math"

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// DegToRad converts degrees to radians
func DegToRad(deg float64) float64 {
	return deg * degToRad
}

// RadToDeg converts radians to degrees
func RadToDeg(rad float64) float64 {
	return rad * radToDeg
}

// WrapDegrees reduces an angle with truncated remainder semantics, so the
// result keeps the sign of the input and lies in (-360, 360).
func WrapDegrees(deg float64) float64 {
	return math.Mod(deg, 360.0)
}

// NormalizeDegrees maps an angle into [0, 360)
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}
