package math

import "math"

// Vector2 is a position in the ecliptic plane.
// Y grows towards ecliptic longitude 90°; consumers with a downward
// screen axis flip it themselves.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Magnitude returns the length of the vector
func (v Vector2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsFinite reports whether both components are finite
func (v Vector2) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
