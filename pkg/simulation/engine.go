// Package simulation turns orbital elements and a simulated instant into
// position snapshots and drives them from a real-time tick loop.
package simulation

import (
	"math"
	"time"

	"github.com/oxygene76/kepler-orbit/pkg/astronomy/epoch"
	astromath "github.com/oxygene76/kepler-orbit/pkg/astronomy/math"
	"github.com/oxygene76/kepler-orbit/pkg/astronomy/orbital"
)

// StateVector is an immutable snapshot of one evaluation.
// Distances are in AU. Position is raw ecliptic x/y with no display flip.
type StateVector struct {
	InstantMs     float64                    `json:"instant_ms"`
	JulianDay     float64                    `json:"julian_day"`
	JulianCentury float64                    `json:"julian_century"`
	Position      astromath.Vector2          `json:"position"`
	Position3D    astromath.Vector3          `json:"position_3d"`
	Angles        orbital.DerivedAngles      `json:"angles"`
	Elements      orbital.PropagatedElements `json:"elements"` // angles in radians
	Converged     bool                       `json:"converged"`
	Iterations    int                        `json:"iterations"`
}

// Time returns the simulated instant as a UTC time
func (s StateVector) Time() time.Time {
	t, _ := epoch.TimeOf(s.InstantMs)
	return t
}

// Distance returns the heliocentric distance in AU
func (s StateVector) Distance() float64 {
	return s.Position3D.Magnitude()
}

// PositionMeters returns the 3D position in meters
func (s StateVector) PositionMeters() astromath.Vector3 {
	return s.Position3D.Scale(orbital.AU)
}

// EngineConfig holds the solver settings used by an Engine
type EngineConfig struct {
	Tolerance     float64
	MaxIterations int
}

// DefaultEngineConfig returns the solver defaults
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Tolerance:     orbital.DefaultKeplerTolerance,
		MaxIterations: orbital.MaxKeplerIterations,
	}
}

// Engine evaluates orbital state. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	config EngineConfig
}

// NewEngine creates an engine; zero fields in config fall back to defaults
func NewEngine(config EngineConfig) *Engine {
	def := DefaultEngineConfig()
	if config.Tolerance <= 0 {
		config.Tolerance = def.Tolerance
	}
	if config.MaxIterations <= 0 {
		config.MaxIterations = def.MaxIterations
	}
	return &Engine{config: config}
}

// Config returns the effective solver settings
func (e *Engine) Config() EngineConfig {
	return e.config
}

// Evaluate computes the state of a body with the given elements at instantMs
// (Unix milliseconds). It returns false when the instant is not finite or the
// elements produce a non-finite position; callers keep their previous
// snapshot in that case.
func (e *Engine) Evaluate(oe orbital.OrbitalElements, instantMs float64) (StateVector, bool) {
	if math.IsNaN(instantMs) || math.IsInf(instantMs, 0) {
		return StateVector{}, false
	}

	day := epoch.JulianDay(instantMs)
	T := epoch.JulianCentury(day)

	pe := orbital.Propagate(oe.Clamped(), T)
	in := orbital.PrepareAngles(pe)
	kr := orbital.SolveKeplerWith(in.M, pe.E, e.config.Tolerance, e.config.MaxIterations)

	xp, yp := orbital.OrbitalPlane(pe.A, pe.E, kr.E)
	pos := orbital.ToEcliptic(xp, yp, in.Wp, in.Rad.I, in.Rad.O)
	pos3 := orbital.ToEcliptic3D(xp, yp, in.Wp, in.Rad.I, in.Rad.O)
	if !pos.IsFinite() || !pos3.IsFinite() {
		return StateVector{}, false
	}

	return StateVector{
		InstantMs:     instantMs,
		JulianDay:     day,
		JulianCentury: T,
		Position:      pos,
		Position3D:    pos3,
		Angles: orbital.DerivedAngles{
			M:  in.M,
			Wp: in.Wp,
			E:  kr.E,
		},
		Elements:   in.Rad,
		Converged:  kr.Converged(),
		Iterations: kr.Iterations,
	}, true
}
