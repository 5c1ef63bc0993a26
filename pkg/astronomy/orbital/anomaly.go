package orbital

import (
	astromath "github.com/oxygene76/kepler-orbit/pkg/astronomy/math"
)

// DerivedAngles are the angles computed from the propagated elements, in radians
type DerivedAngles struct {
	M  float64 `json:"m"`  // mean anomaly
	Wp float64 `json:"wp"` // argument of periapsis
	E  float64 `json:"e"`  // eccentric anomaly
}

// AnomalyInputs is what the solver and the rotation consume for one evaluation
type AnomalyInputs struct {
	M   float64            // mean anomaly (rad), wrapped in degree space
	Wp  float64            // argument of periapsis (rad)
	Rad PropagatedElements // I, L, Lp and O converted to radians
}

// PrepareAngles converts propagated elements in two stages.
//
// Stage one works on the degree values: M = (L - Lp) mod 360 and
// wp = Lp - O. Stage two converts M, wp and the element angles to radians
// independently. The wrap must happen before the conversion; reducing the
// radian value modulo 2π afterwards gives different results in the last bits
// and for negative inputs.
func PrepareAngles(pe PropagatedElements) AnomalyInputs {
	mDeg := astromath.WrapDegrees(pe.L - pe.Lp)
	wpDeg := pe.Lp - pe.O

	return AnomalyInputs{
		M:   astromath.DegToRad(mDeg),
		Wp:  astromath.DegToRad(wpDeg),
		Rad: pe.Radians(),
	}
}
