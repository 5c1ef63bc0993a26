package main

import (
	"fmt"
	"os"
	"strings"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oxygene76/kepler-orbit/pkg/simulation"
	"github.com/oxygene76/kepler-orbit/pkg/utils"
)

const (
	appName = "kepler-orbit"
	version = "v1.0.0"
)

var (
	cfgFile string

	appConfig = utils.DefaultConfig()
	logger    = log.NewNopLogger()
)

// flagKeys maps command-line flags onto config keys. Only flags a command
// actually defines are bound, and an unchanged flag never shadows the
// config file or the environment.
var flagKeys = map[string]string{
	"log-level":       "log.level",
	"log-json":        "log.json",
	"date":            "simulation.base_date",
	"speed":           "simulation.speed",
	"tick-hz":         "simulation.tick_hz",
	"tolerance":       "simulation.kepler_tolerance",
	"max-iterations":  "simulation.kepler_max_iterations",
	"preset":          "elements.preset",
	"elements-file":   "elements.file",
	"body":            "elements.body",
	"snapshot-file":   "output.snapshot_file",
	"report-interval": "output.report_interval_ms",
	"format":          "output.format",
	"metrics":         "metrics.enabled",
	"metrics-addr":    "metrics.addr",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Keplerian orbit state engine",
	Long: `kepler-orbit propagates J2000 Keplerian elements with their secular
rates, solves Kepler's equation and reports heliocentric ecliptic positions.

It can evaluate a single instant, run an accelerated simulated clock with
JSONL snapshots and prometheus metrics, or sweep a full revolution to check
the orbit against its periapsis and apoapsis.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "init", "convert", "presets", "help", "version":
			return nil
		}
		return initConfig(cmd)
	},
}

func initConfig(cmd *cobra.Command) error {
	v := viper.New()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	config, err := utils.LoadConfig(v, cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = config

	l, err := utils.NewLogger(os.Stderr, config.Log)
	if err != nil {
		return err
	}
	logger = l.With("app", appName)
	return nil
}

func newEngine(cfg *utils.Config) *simulation.Engine {
	return simulation.NewEngine(simulation.EngineConfig{
		Tolerance:     cfg.Simulation.KeplerTolerance,
		MaxIterations: cfg.Simulation.KeplerMaxIterations,
	})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kepler-orbit/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log as JSON")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)

	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	convertCmd.Flags().String("to", "rad", "Target unit (rad, deg)")
}

// initCmd writes the default configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			p, err := utils.GetConfigPath()
			if err != nil {
				return fmt.Errorf("failed to resolve config path: %w", err)
			}
			path = p
		}

		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		}

		if err := utils.SaveConfig(utils.DefaultConfig(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
		return nil
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in planetary elements",
	RunE: func(cmd *cobra.Command, args []string) error {
		printPresets(cmd.OutOrStdout())
		return nil
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert [value]",
	Short: "Convert an angle between degrees and radians",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")
		out, err := convertAngle(args[0], strings.ToLower(to))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
