package orbital

import (
	"math"

	"cosmossdk.io/errors"

	"github.com/oxygene76/kepler-orbit/internal/types"
	astromath "github.com/oxygene76/kepler-orbit/pkg/astronomy/math"
)

const (
	// MaxEccentricity bounds the eccentricity handed to the Kepler solver
	MaxEccentricity = 0.9
	// AU is the astronomical unit in meters
	AU = 1.495978707e11
)

// OrbitalElements holds J2000 Keplerian elements and their rates per Julian century
type OrbitalElements struct {
	A0  float64 `json:"a0" yaml:"a0" mapstructure:"a0"`    // semi-major axis (AU)
	Ac  float64 `json:"ac" yaml:"ac" mapstructure:"ac"`    // AU per century
	E0  float64 `json:"e0" yaml:"e0" mapstructure:"e0"`    // eccentricity
	Ec  float64 `json:"ec" yaml:"ec" mapstructure:"ec"`    // per century
	I0  float64 `json:"i0" yaml:"i0" mapstructure:"i0"`    // inclination (deg)
	Ic  float64 `json:"ic" yaml:"ic" mapstructure:"ic"`    // deg per century
	L0  float64 `json:"l0" yaml:"l0" mapstructure:"l0"`    // mean longitude (deg)
	Lc  float64 `json:"lc" yaml:"lc" mapstructure:"lc"`    // deg per century
	Lp0 float64 `json:"lp0" yaml:"lp0" mapstructure:"lp0"` // longitude of perihelion (deg)
	Lpc float64 `json:"lpc" yaml:"lpc" mapstructure:"lpc"` // deg per century
	O0  float64 `json:"o0" yaml:"o0" mapstructure:"o0"`    // longitude of ascending node (deg)
	Oc  float64 `json:"oc" yaml:"oc" mapstructure:"oc"`    // deg per century
}

// PropagatedElements are the elements evaluated at a Julian century T.
// Angles are in degrees.
type PropagatedElements struct {
	A  float64 `json:"a"`
	E  float64 `json:"e"`
	I  float64 `json:"i"`
	L  float64 `json:"l"`
	Lp float64 `json:"lp"`
	O  float64 `json:"o"`
}

// ClampEccentricity limits e to [0, MaxEccentricity]
func ClampEccentricity(e float64) float64 {
	return math.Max(0, math.Min(e, MaxEccentricity))
}

// Clamped returns a copy with the epoch eccentricity clamped into the solver domain
func (oe OrbitalElements) Clamped() OrbitalElements {
	oe.E0 = ClampEccentricity(oe.E0)
	return oe
}

// Validate rejects elements containing NaN or infinite values
func (oe OrbitalElements) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"a0", oe.A0}, {"ac", oe.Ac},
		{"e0", oe.E0}, {"ec", oe.Ec},
		{"i0", oe.I0}, {"ic", oe.Ic},
		{"l0", oe.L0}, {"lc", oe.Lc},
		{"lp0", oe.Lp0}, {"lpc", oe.Lpc},
		{"o0", oe.O0}, {"oc", oe.Oc},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return errors.Wrapf(types.ErrInvalidElements, "%s is not finite", f.name)
		}
	}
	return nil
}

// Propagate extrapolates the elements linearly to Julian century T.
// Eccentricity is re-clamped after drift.
func Propagate(oe OrbitalElements, T float64) PropagatedElements {
	return PropagatedElements{
		A:  oe.A0 + oe.Ac*T,
		E:  ClampEccentricity(oe.E0 + oe.Ec*T),
		I:  oe.I0 + oe.Ic*T,
		L:  oe.L0 + oe.Lc*T,
		Lp: oe.Lp0 + oe.Lpc*T,
		O:  oe.O0 + oe.Oc*T,
	}
}

// Perihelion returns the periapsis distance
func (pe PropagatedElements) Perihelion() float64 {
	return pe.A * (1 - pe.E)
}

// Aphelion returns the apoapsis distance
func (pe PropagatedElements) Aphelion() float64 {
	return pe.A * (1 + pe.E)
}

// Radians returns the same elements with the angular fields in radians,
// the form shown on the output panel.
func (pe PropagatedElements) Radians() PropagatedElements {
	return PropagatedElements{
		A:  pe.A,
		E:  pe.E,
		I:  astromath.DegToRad(pe.I),
		L:  astromath.DegToRad(pe.L),
		Lp: astromath.DegToRad(pe.Lp),
		O:  astromath.DegToRad(pe.O),
	}
}
