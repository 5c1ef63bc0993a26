package simulation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxygene76/kepler-orbit/pkg/astronomy/epoch"
	"github.com/oxygene76/kepler-orbit/pkg/astronomy/orbital"
)

// instant at which JulianDay returns exactly zero
var epochZeroMs = (epoch.J2000OffsetJD - epoch.UnixEpochJD) * epoch.MsPerDay

func earthLike() orbital.OrbitalElements {
	return orbital.OrbitalElements{
		A0:  1.0,
		E0:  0.0167,
		I0:  0,
		L0:  100.46,
		Lp0: 102.94,
		O0:  -11.26,
	}
}

func TestEvaluateEarthAtEpoch(t *testing.T) {
	require.Equal(t, 0.0, epoch.JulianDay(epochZeroMs))

	s, ok := NewEngine(DefaultEngineConfig()).Evaluate(earthLike(), epochZeroMs)
	require.True(t, ok)

	assert.Equal(t, 0.0, s.JulianCentury)
	assert.True(t, s.Converged)

	// Near perihelion: r = a(1 - e cos E) with E ≈ -2.5°.
	assert.InDelta(t, 1.0, s.Position.Magnitude(), 0.0167+1e-3)
	assert.InDelta(t, 0.98331, s.Position.Magnitude(), 1e-3)
	assert.InDelta(t, -0.17709, s.Position.X, 1e-3)
	assert.InDelta(t, 0.96723, s.Position.Y, 1e-3)
	assert.InDelta(t, 0.0, s.Position3D.Z, 1e-12)

	assert.InDelta(t, -2.48*math.Pi/180, s.Angles.M, 1e-12)
	assert.InDelta(t, 114.2*math.Pi/180, s.Angles.Wp, 1e-12)
	assert.Less(t, math.Abs(orbital.Residual(s.Angles.E, 0.0167, s.Angles.M)), 1e-5)

	assert.Equal(t, 1.0, s.Elements.A)
	assert.InDelta(t, 100.46*math.Pi/180, s.Elements.L, 1e-12)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	engine := NewEngine(DefaultEngineConfig())
	oe, err := orbital.Preset("mars")
	require.NoError(t, err)

	instant := epoch.InstantMs(time.Date(2031, 7, 4, 6, 30, 0, 0, time.UTC))
	a, ok := engine.Evaluate(oe, instant)
	require.True(t, ok)
	b, ok := engine.Evaluate(oe, instant)
	require.True(t, ok)

	assert.Equal(t, a, b)
}

func TestEvaluateRejectsNonFiniteInstant(t *testing.T) {
	engine := NewEngine(DefaultEngineConfig())
	for _, instant := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		s, ok := engine.Evaluate(earthLike(), instant)
		assert.False(t, ok)
		assert.Equal(t, StateVector{}, s)
	}
}

func TestEvaluateRejectsNonFiniteElements(t *testing.T) {
	oe := earthLike()
	oe.A0 = math.NaN()
	_, ok := NewEngine(DefaultEngineConfig()).Evaluate(oe, epochZeroMs)
	assert.False(t, ok)
}

func TestEvaluateDistanceWithinApsides(t *testing.T) {
	engine := NewEngine(DefaultEngineConfig())
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, name := range orbital.PresetNames() {
		oe, err := orbital.Preset(name)
		require.NoError(t, err)

		for d := 0; d < 3650; d += 37 {
			s, ok := engine.Evaluate(oe, epoch.InstantMs(start.AddDate(0, 0, d)))
			require.True(t, ok)
			assert.True(t, s.Converged, "%s day %d", name, d)

			r := s.Distance()
			assert.GreaterOrEqual(t, r, s.Elements.A*(1-s.Elements.E)-1e-9, "%s day %d", name, d)
			assert.LessOrEqual(t, r, s.Elements.A*(1+s.Elements.E)+1e-9, "%s day %d", name, d)
			assert.LessOrEqual(t, s.Position.Magnitude(), r+1e-12)
		}
	}
}

func TestEvaluateHighEccentricityClamped(t *testing.T) {
	oe := orbital.OrbitalElements{A0: 3, E0: 0.99, L0: 179.9, Lp0: 0}
	s, ok := NewEngine(DefaultEngineConfig()).Evaluate(oe, epochZeroMs)
	require.True(t, ok)

	assert.Equal(t, orbital.MaxEccentricity, s.Elements.E)
	assert.True(t, s.Converged)
	assert.Less(t, math.Abs(orbital.Residual(s.Angles.E, s.Elements.E, s.Angles.M)), 1e-5)
}

func TestEvaluateReportsNotConverged(t *testing.T) {
	engine := NewEngine(EngineConfig{Tolerance: 1e-300, MaxIterations: 2})
	oe := orbital.OrbitalElements{A0: 1, E0: 0.9, L0: 140}

	s, ok := engine.Evaluate(oe, epochZeroMs)
	require.True(t, ok)
	assert.False(t, s.Converged)
	assert.Equal(t, 2, s.Iterations)
}

func TestNewEngineDefaults(t *testing.T) {
	cfg := NewEngine(EngineConfig{}).Config()
	assert.Equal(t, DefaultEngineConfig(), cfg)
}

func TestStateVectorTime(t *testing.T) {
	want := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	s, ok := NewEngine(DefaultEngineConfig()).Evaluate(earthLike(), epoch.InstantMs(want))
	require.True(t, ok)
	assert.True(t, want.Equal(s.Time()))
}

func TestStateVectorPlanarAndMetricViews(t *testing.T) {
	oe := earthLike()
	oe.I0 = 7
	s, ok := NewEngine(DefaultEngineConfig()).Evaluate(oe, epochZeroMs)
	require.True(t, ok)

	assert.InDelta(t, s.Position.X, s.Position3D.XY().X, 1e-12)
	assert.InDelta(t, s.Position.Y, s.Position3D.XY().Y, 1e-12)
	assert.InDelta(t, s.Distance()*orbital.AU, s.PositionMeters().Magnitude(), 1)
}
