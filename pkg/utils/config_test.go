package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"cosmossdk.io/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxygene76/kepler-orbit/internal/types"
	"github.com/oxygene76/kepler-orbit/pkg/astronomy/orbital"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, ValidateConfig(DefaultConfig()))
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Simulation.Speed = -2
	cfg.Simulation.BaseDate = "2024-04-10"
	cfg.Elements.Custom = &orbital.OrbitalElements{A0: 2.5, E0: 0.3, L0: 12, Lc: 9000}
	cfg.Output.Format = "json"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, -2.0, loaded.Simulation.Speed)
	assert.Equal(t, "2024-04-10", loaded.Simulation.BaseDate)
	require.NotNil(t, loaded.Elements.Custom)
	assert.Equal(t, *cfg.Elements.Custom, *loaded.Elements.Custom)
	assert.Equal(t, "json", loaded.Output.Format)
	assert.Equal(t, 60.0, loaded.Simulation.TickHz)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SaveConfig(DefaultConfig(), path))

	t.Setenv("KEPLER_ORBIT_SIMULATION_SPEED", "7")
	t.Setenv("KEPLER_ORBIT_ELEMENTS_PRESET", "jupiter")

	loaded, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 7.0, loaded.Simulation.Speed)
	assert.Equal(t, "jupiter", loaded.Elements.Preset)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  tick_hz: 0\n"), 0644))

	_, err := LoadConfig(viper.New(), path)
	assert.True(t, errors.IsOf(err, types.ErrInvalidConfig))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tick rate", func(c *Config) { c.Simulation.TickHz = -1 }},
		{"tolerance", func(c *Config) { c.Simulation.KeplerTolerance = 0 }},
		{"iterations", func(c *Config) { c.Simulation.KeplerMaxIterations = 0 }},
		{"no elements", func(c *Config) { c.Elements.Preset = "" }},
		{"unknown preset", func(c *Config) { c.Elements.Preset = "vulcan" }},
		{"format", func(c *Config) { c.Output.Format = "xml" }},
		{"report interval", func(c *Config) { c.Output.ReportIntervalMs = -5 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"metrics addr", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Addr = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.True(t, errors.IsOf(err, types.ErrInvalidConfig))
		})
	}
}

func TestValidateConfigFileSkipsPresetLookup(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Elements.Preset = ""
	cfg.Elements.File = "bodies.csv"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, LogConfig{Level: "warn", JSON: true})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("visible", "key", 42)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "42")

	_, err = NewLogger(&buf, LogConfig{Level: "chatty"})
	assert.True(t, errors.IsOf(err, types.ErrInvalidConfig))
}
