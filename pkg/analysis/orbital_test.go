package analysis

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxygene76/kepler-orbit/internal/types"
	"github.com/oxygene76/kepler-orbit/pkg/astronomy/epoch"
	"github.com/oxygene76/kepler-orbit/pkg/astronomy/orbital"
	"github.com/oxygene76/kepler-orbit/pkg/simulation"
)

func newManager() *Manager {
	return NewManager(simulation.NewEngine(simulation.DefaultEngineConfig()), log.NewNopLogger())
}

var j2000 = epoch.InstantMs(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC))

func TestSweepStaysWithinApsides(t *testing.T) {
	m := newManager()
	for _, name := range orbital.PresetNames() {
		oe, err := orbital.Preset(name)
		require.NoError(t, err)

		res, err := m.Sweep(name, oe, j2000, 360)
		require.NoError(t, err, name)
		assert.True(t, res.WithinApsides, name)
		assert.Zero(t, res.NotConverged, name)
		assert.InDelta(t, res.Perihelion, res.MinRadius, 1e-3*res.SemiMajorAxis, name)
		assert.InDelta(t, res.Aphelion, res.MaxRadius, 1e-3*res.SemiMajorAxis, name)
	}
}

func TestSweepCircularOrbit(t *testing.T) {
	oe := orbital.OrbitalElements{A0: 2, I0: 10, L0: 30, Lc: 360 * 100}
	res, err := newManager().Sweep("ring", oe, j2000, 64)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, res.MeanRadius, 1e-12)
	assert.InDelta(t, 0.0, res.StdDevRadius, 1e-12)
	assert.InDelta(t, 2*math.Sin(10*math.Pi/180), res.MaxHeight, 1e-3)
	assert.InDelta(t, 365.25, res.PeriodDays, 1e-9)
}

func TestSweepEarthPeriods(t *testing.T) {
	oe, err := orbital.Preset("earth")
	require.NoError(t, err)

	res, err := newManager().Sweep("earth", oe, j2000, 16)
	require.NoError(t, err)
	assert.InDelta(t, 365.25, res.PeriodDays, 0.1)
	assert.InDelta(t, 365.26, res.ThirdLawDays, 0.1)
}

func TestSweepRejectsBadInput(t *testing.T) {
	m := newManager()
	oe, _ := orbital.Preset("mars")

	_, err := m.Sweep("mars", oe, j2000, 2)
	assert.True(t, errors.IsOf(err, types.ErrInvalidConfig))

	_, err = m.Sweep("mars", oe, math.NaN(), 10)
	assert.True(t, errors.IsOf(err, types.ErrInvalidInstant))

	oe.E0 = math.NaN()
	_, err = m.Sweep("mars", oe, j2000, 10)
	assert.True(t, errors.IsOf(err, types.ErrInvalidElements))
}

func TestAnalyzeOrbits(t *testing.T) {
	earth, _ := orbital.Preset("earth")
	mars, _ := orbital.Preset("mars")

	m := newManager()
	m.SetWorkers(2)
	res, err := m.AnalyzeOrbits(context.Background(), []NamedElements{
		{Name: "earth", Elements: earth},
		{Name: "mars", Elements: mars},
	}, j2000, 90)
	require.NoError(t, err)

	assert.Equal(t, "orbit_sweep", res.Type)
	assert.Equal(t, 90, res.Metadata.Samples)
	assert.Equal(t, orbital.MaxKeplerIterations, res.Metadata.KeplerMaxIter)
	require.Len(t, res.Sweeps, 2)
	assert.Equal(t, "earth", res.Sweeps[0].Body)
	assert.Equal(t, "mars", res.Sweeps[1].Body)
}

func TestAnalyzeOrbitsPropagatesFailure(t *testing.T) {
	earth, _ := orbital.Preset("earth")
	bad := earth
	bad.A0 = math.NaN()

	_, err := newManager().AnalyzeOrbits(context.Background(), []NamedElements{
		{Name: "earth", Elements: earth},
		{Name: "bad", Elements: bad},
	}, j2000, 30)
	require.Error(t, err)
	assert.True(t, errors.IsOf(err, types.ErrInvalidElements))
	assert.Contains(t, err.Error(), "sweep bad")
}

func TestLoadElements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elements.csv")
	data := `name,a0,ac,e0,ec,i0,ic,l0,lc,lp0,lpc,o0,oc
# comment rows are ignored
earth,1.0,,0.0167,,0,,100.46,35999.37,102.94,,-11.26,
short,1,2
broken,x,0,0,0,0,0,0,0,0,0,0,0
mars,1.5237,0.00001847,0.0934,0.00007882,1.8497,-0.0081,-4.5534,19140.3027,-23.9436,0.4444,49.5595,-0.2926
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	bodies, err := newManager().LoadElements(path)
	require.NoError(t, err)
	require.Len(t, bodies, 2)

	assert.Equal(t, "earth", bodies[0].Name)
	assert.Equal(t, 0.0167, bodies[0].Elements.E0)
	assert.Equal(t, 0.0, bodies[0].Elements.Ac)
	assert.Equal(t, -11.26, bodies[0].Elements.O0)
	assert.Equal(t, "mars", bodies[1].Name)
	assert.Equal(t, 19140.3027, bodies[1].Elements.Lc)
}

func TestLoadElementsErrors(t *testing.T) {
	m := newManager()

	_, err := m.LoadElements(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "header.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,a0\n"), 0o644))
	_, err = m.LoadElements(path)
	assert.True(t, errors.IsOf(err, types.ErrInvalidElements))
}
