package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/oxygene76/kepler-orbit/internal/types"
	"github.com/oxygene76/kepler-orbit/pkg/astronomy/orbital"
)

const (
	configName = "config"
	envPrefix  = "KEPLER_ORBIT"
	appDirName = ".kepler-orbit"
)

// Config represents the application configuration
type Config struct {
	Simulation SimulationConfig `yaml:"simulation" mapstructure:"simulation"`
	Elements   ElementsConfig   `yaml:"elements" mapstructure:"elements"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Metrics    MetricsConfig    `yaml:"metrics" mapstructure:"metrics"`
}

// SimulationConfig controls the tick loop and the solver
type SimulationConfig struct {
	TickHz              float64 `yaml:"tick_hz" mapstructure:"tick_hz"`
	Speed               float64 `yaml:"speed" mapstructure:"speed"`
	BaseDate            string  `yaml:"base_date" mapstructure:"base_date"`
	KeplerTolerance     float64 `yaml:"kepler_tolerance" mapstructure:"kepler_tolerance"`
	KeplerMaxIterations int     `yaml:"kepler_max_iterations" mapstructure:"kepler_max_iterations"`
}

// ElementsConfig selects the orbital elements: a preset, a CSV file or
// explicit values, in increasing order of precedence.
type ElementsConfig struct {
	Preset string                   `yaml:"preset" mapstructure:"preset"`
	File   string                   `yaml:"file,omitempty" mapstructure:"file"`
	Body   string                   `yaml:"body,omitempty" mapstructure:"body"`
	Custom *orbital.OrbitalElements `yaml:"custom,omitempty" mapstructure:"custom"`
}

// OutputConfig controls snapshot output and reporting
type OutputConfig struct {
	SnapshotFile     string `yaml:"snapshot_file" mapstructure:"snapshot_file"`
	ReportIntervalMs int    `yaml:"report_interval_ms" mapstructure:"report_interval_ms"`
	Format           string `yaml:"format" mapstructure:"format"`
}

// LogConfig controls logging
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	JSON  bool   `yaml:"json" mapstructure:"json"`
}

// MetricsConfig controls the prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr    string `yaml:"addr" mapstructure:"addr"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickHz:              60,
			Speed:               5,
			BaseDate:            "2000-01-01",
			KeplerTolerance:     orbital.DefaultKeplerTolerance,
			KeplerMaxIterations: orbital.MaxKeplerIterations,
		},
		Elements: ElementsConfig{
			Preset: "earth",
		},
		Output: OutputConfig{
			SnapshotFile:     "",
			ReportIntervalMs: 1000,
			Format:           "summary",
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9464",
		},
	}
}

// SetDefaults registers DefaultConfig with viper so environment variables
// can override keys that are absent from the config file.
func SetDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("simulation.tick_hz", def.Simulation.TickHz)
	v.SetDefault("simulation.speed", def.Simulation.Speed)
	v.SetDefault("simulation.base_date", def.Simulation.BaseDate)
	v.SetDefault("simulation.kepler_tolerance", def.Simulation.KeplerTolerance)
	v.SetDefault("simulation.kepler_max_iterations", def.Simulation.KeplerMaxIterations)
	v.SetDefault("elements.preset", def.Elements.Preset)
	v.SetDefault("elements.file", def.Elements.File)
	v.SetDefault("elements.body", def.Elements.Body)
	v.SetDefault("output.snapshot_file", def.Output.SnapshotFile)
	v.SetDefault("output.report_interval_ms", def.Output.ReportIntervalMs)
	v.SetDefault("output.format", def.Output.Format)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.json", def.Log.JSON)
	v.SetDefault("metrics.enabled", def.Metrics.Enabled)
	v.SetDefault("metrics.addr", def.Metrics.Addr)
}

// LoadConfig reads configuration into v. An explicit path must exist;
// otherwise the usual locations are searched and a missing file means
// defaults plus environment.
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		if dir, err := AppDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig writes the configuration as YAML to path, creating parent directories
func SaveConfig(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	sim := config.Simulation
	if sim.TickHz <= 0 || sim.TickHz > 1000 {
		return errors.Wrapf(types.ErrInvalidConfig, "simulation.tick_hz must be in (0, 1000], got %v", sim.TickHz)
	}
	if sim.KeplerTolerance <= 0 {
		return errors.Wrapf(types.ErrInvalidConfig, "simulation.kepler_tolerance must be positive, got %v", sim.KeplerTolerance)
	}
	if sim.KeplerMaxIterations <= 0 {
		return errors.Wrapf(types.ErrInvalidConfig, "simulation.kepler_max_iterations must be positive, got %d", sim.KeplerMaxIterations)
	}

	el := config.Elements
	if el.Custom == nil && el.File == "" && el.Preset == "" {
		return errors.Wrap(types.ErrInvalidConfig, "one of elements.preset, elements.file or elements.custom is required")
	}
	if el.Custom != nil {
		if err := el.Custom.Validate(); err != nil {
			return errors.Wrapf(types.ErrInvalidConfig, "elements.custom: %v", err)
		}
	} else if el.File == "" {
		if _, err := orbital.Preset(el.Preset); err != nil {
			return errors.Wrapf(types.ErrInvalidConfig, "elements.preset: %v", err)
		}
	}

	switch config.Output.Format {
	case "summary", "json":
	default:
		return errors.Wrapf(types.ErrInvalidConfig, "output.format must be summary or json, got %q", config.Output.Format)
	}
	if config.Output.ReportIntervalMs < 0 {
		return errors.Wrap(types.ErrInvalidConfig, "output.report_interval_ms cannot be negative")
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(config.Log.Level)); err != nil {
		return errors.Wrapf(types.ErrInvalidConfig, "log.level %q", config.Log.Level)
	}

	if config.Metrics.Enabled && config.Metrics.Addr == "" {
		return errors.Wrap(types.ErrInvalidConfig, "metrics.addr is required when metrics are enabled")
	}

	return nil
}

// AppDir returns the per-user configuration directory
func AppDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, appDirName), nil
}

// GetConfigPath returns the path to the default config file
func GetConfigPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configName+".yaml"), nil
}
