package math

import "math"

// Vector3 represents a heliocentric ecliptic position in AU
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Scale returns the vector scaled by a scalar
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{
		X: v.X * s,
		Y: v.Y * s,
		Z: v.Z * s,
	}
}

// Magnitude returns the length of the vector
func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// XY projects the vector onto the ecliptic plane
func (v Vector3) XY() Vector2 {
	return Vector2{X: v.X, Y: v.Y}
}

// IsFinite reports whether every component is a finite number
func (v Vector3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}
