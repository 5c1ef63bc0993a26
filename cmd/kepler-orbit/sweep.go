package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxygene76/kepler-orbit/pkg/analysis"
	"github.com/oxygene76/kepler-orbit/pkg/astronomy/epoch"
	"github.com/oxygene76/kepler-orbit/pkg/astronomy/orbital"
	"github.com/oxygene76/kepler-orbit/pkg/utils"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sample a full revolution and check it against the apsides",
	Long: `Freeze the elements at a date, step the mean anomaly through one full
revolution and report radius statistics together with the periapsis and
apoapsis bounds every sample must respect.

Examples:
  kepler-orbit sweep --preset jupiter
  kepler-orbit sweep --all --samples 720 --output sweep.json
  kepler-orbit sweep --elements-file bodies.csv`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().Int("samples", 360, "Mean anomaly samples per revolution")
	sweepCmd.Flags().Bool("all", false, "Sweep every built-in preset")
	sweepCmd.Flags().String("date", "", "Date at which the elements are frozen (UTC)")
	sweepCmd.Flags().Float64("tolerance", 0, "Kepler solver tolerance")
	sweepCmd.Flags().Int("max-iterations", 0, "Kepler solver iteration cap")
	sweepCmd.Flags().String("format", "summary", "Output format (summary, json)")
	sweepCmd.Flags().String("output", "", "Save results to file")
	addElementFlags(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	manager := analysis.NewManager(newEngine(cfg), logger)

	instant, err := epoch.ParseBaseDate(cfg.Simulation.BaseDate)
	if err != nil {
		return err
	}

	bodies, err := sweepBodies(cmd, cfg, manager)
	if err != nil {
		return err
	}

	samples, _ := cmd.Flags().GetInt("samples")
	result, err := manager.AnalyzeOrbits(cmd.Context(), bodies, instant, samples)
	if err != nil {
		return err
	}
	if cfg.Elements.File != "" {
		result.Metadata.InputFiles = []string{cfg.Elements.File}
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := saveResult(output, result); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Results saved to %s\n", output)
	}

	if cfg.Output.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	printSweep(cmd.OutOrStdout(), result)
	return nil
}

func sweepBodies(cmd *cobra.Command, cfg *utils.Config, manager *analysis.Manager) ([]analysis.NamedElements, error) {
	if all, _ := cmd.Flags().GetBool("all"); all {
		bodies := make([]analysis.NamedElements, 0, len(orbital.PresetNames()))
		for _, name := range orbital.PresetNames() {
			oe, err := orbital.Preset(name)
			if err != nil {
				return nil, err
			}
			bodies = append(bodies, analysis.NamedElements{Name: name, Elements: oe})
		}
		return bodies, nil
	}

	bodies, err := resolveBodies(cfg, manager)
	if err != nil {
		return nil, err
	}
	if len(bodies) == 1 {
		body, err := pickBody(cmd, cfg, bodies)
		if err != nil {
			return nil, err
		}
		return []analysis.NamedElements{body}, nil
	}
	return bodies, nil
}
