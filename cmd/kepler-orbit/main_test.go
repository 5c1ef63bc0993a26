package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxygene76/kepler-orbit/internal/types"
	"github.com/oxygene76/kepler-orbit/pkg/analysis"
	"github.com/oxygene76/kepler-orbit/pkg/astronomy/epoch"
	"github.com/oxygene76/kepler-orbit/pkg/astronomy/orbital"
	"github.com/oxygene76/kepler-orbit/pkg/simulation"
	"github.com/oxygene76/kepler-orbit/pkg/utils"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addElementFlags(cmd)
	return cmd
}

func newTestManager() *analysis.Manager {
	return analysis.NewManager(simulation.NewEngine(simulation.DefaultEngineConfig()), log.NewNopLogger())
}

const elementsCSV = `name,a0,ac,e0,ec,i0,ic,l0,lc,lp0,lpc,o0,oc
# test bodies
ceres,2.7675,0,0.0758,0,10.59,0,95.98,7828.0,153.9,0,80.3,0
vesta,2.3615,0,0.0887,0,7.14,0,20.86,9917.0,301.1,0,103.8,0
`

func writeElements(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bodies.csv")
	require.NoError(t, os.WriteFile(path, []byte(elementsCSV), 0644))
	return path
}

func TestConvertAngle(t *testing.T) {
	out, err := convertAngle("180", "rad")
	require.NoError(t, err)
	assert.Contains(t, out, "3.141592654 rad")

	out, err = convertAngle("3.141592653589793", "deg")
	require.NoError(t, err)
	assert.Contains(t, out, "= 180°")

	_, err = convertAngle("abc", "rad")
	assert.Error(t, err)
	_, err = convertAngle("1", "grad")
	assert.Error(t, err)
}

func TestApplyElementOverrides(t *testing.T) {
	cmd := newTestCommand()
	earth, err := orbital.Preset("earth")
	require.NoError(t, err)

	oe, changed := applyElementOverrides(cmd, earth)
	assert.False(t, changed)
	assert.Equal(t, earth, oe)

	require.NoError(t, cmd.Flags().Set("e0", "0.2"))
	require.NoError(t, cmd.Flags().Set("lpc", "1.5"))
	oe, changed = applyElementOverrides(cmd, earth)
	assert.True(t, changed)
	assert.Equal(t, 0.2, oe.E0)
	assert.Equal(t, 1.5, oe.Lpc)
	assert.Equal(t, earth.A0, oe.A0)
}

func TestResolveBodiesPrecedence(t *testing.T) {
	manager := newTestManager()

	cfg := utils.DefaultConfig()
	cfg.Elements.Preset = "Mars"
	bodies, err := resolveBodies(cfg, manager)
	require.NoError(t, err)
	require.Len(t, bodies, 1)
	assert.Equal(t, "mars", bodies[0].Name)

	cfg.Elements.File = writeElements(t)
	bodies, err = resolveBodies(cfg, manager)
	require.NoError(t, err)
	assert.Len(t, bodies, 2)

	cfg.Elements.Body = "VESTA"
	bodies, err = resolveBodies(cfg, manager)
	require.NoError(t, err)
	require.Len(t, bodies, 1)
	assert.Equal(t, "vesta", bodies[0].Name)

	cfg.Elements.Custom = &orbital.OrbitalElements{A0: 3}
	bodies, err = resolveBodies(cfg, manager)
	require.NoError(t, err)
	require.Len(t, bodies, 1)
	assert.Equal(t, "custom", bodies[0].Name)
}

func TestResolveBodiesUnknown(t *testing.T) {
	cfg := utils.DefaultConfig()
	cfg.Elements.File = writeElements(t)
	cfg.Elements.Body = "pallas"
	_, err := resolveBodies(cfg, newTestManager())
	assert.True(t, errors.IsOf(err, types.ErrUnknownPreset))

	cfg = utils.DefaultConfig()
	cfg.Elements.Preset = "vulcan"
	_, err = resolveBodies(cfg, newTestManager())
	assert.True(t, errors.IsOf(err, types.ErrUnknownPreset))
}

func TestResolveElementsNeedsSingleBody(t *testing.T) {
	cfg := utils.DefaultConfig()
	cfg.Elements.File = writeElements(t)

	_, err := resolveElements(newTestCommand(), cfg, newTestManager())
	assert.True(t, errors.IsOf(err, types.ErrInvalidConfig))
}

func TestResolveElementsAppliesOverrides(t *testing.T) {
	cmd := newTestCommand()
	require.NoError(t, cmd.Flags().Set("a0", "1.5"))

	body, err := resolveElements(cmd, utils.DefaultConfig(), newTestManager())
	require.NoError(t, err)
	assert.Equal(t, "earth (modified)", body.Name)
	assert.Equal(t, 1.5, body.Elements.A0)
}

func TestPrintState(t *testing.T) {
	engine := simulation.NewEngine(simulation.DefaultEngineConfig())
	earth, err := orbital.Preset("earth")
	require.NoError(t, err)
	instant, err := epoch.ParseBaseDate("2024-04-10")
	require.NoError(t, err)
	state, ok := engine.Evaluate(earth, instant)
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, printState(&buf, "earth", state, "summary"))
	assert.Contains(t, buf.String(), "earth @ 2024-04-10 00:00:00")
	assert.Contains(t, buf.String(), "converged")

	buf.Reset()
	require.NoError(t, printState(&buf, "earth", state, "json"))
	assert.Contains(t, buf.String(), `"body":"earth"`)
	assert.Contains(t, buf.String(), `"utc":"2024-04-10T00:00:00Z"`)
}

func TestPrintPresets(t *testing.T) {
	var buf bytes.Buffer
	printPresets(&buf)
	for _, name := range orbital.PresetNames() {
		assert.Contains(t, buf.String(), name)
	}
}
