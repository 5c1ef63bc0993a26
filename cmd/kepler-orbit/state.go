package main

import (
	"cosmossdk.io/errors"
	"github.com/spf13/cobra"

	"github.com/oxygene76/kepler-orbit/internal/types"
	"github.com/oxygene76/kepler-orbit/pkg/analysis"
	"github.com/oxygene76/kepler-orbit/pkg/astronomy/epoch"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Evaluate the orbital state at a date",
	Long: `Evaluate the heliocentric position of a body at a single instant.

Examples:
  kepler-orbit state --preset mars --date 2024-04-10
  kepler-orbit state --preset earth --e0 0.2 --format json`,
	RunE: runState,
}

func init() {
	stateCmd.Flags().String("date", "", "Instant to evaluate (YYYY-MM-DD, YYYY-MM-DDTHH:MM[:SS] or RFC3339, UTC)")
	stateCmd.Flags().String("format", "summary", "Output format (summary, json)")
	stateCmd.Flags().Float64("tolerance", 0, "Kepler solver tolerance")
	stateCmd.Flags().Int("max-iterations", 0, "Kepler solver iteration cap")
	addElementFlags(stateCmd)
}

func runState(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	engine := newEngine(cfg)

	body, err := resolveElements(cmd, cfg, analysis.NewManager(engine, logger))
	if err != nil {
		return err
	}

	instant, err := epoch.ParseBaseDate(cfg.Simulation.BaseDate)
	if err != nil {
		return err
	}

	state, ok := engine.Evaluate(body.Elements, instant)
	if !ok {
		return errors.Wrapf(types.ErrInvalidElements, "%s has no finite position at %s", body.Name, cfg.Simulation.BaseDate)
	}
	if !state.Converged {
		logger.Warn("kepler solver did not converge, position is approximate", "body", body.Name, "iterations", state.Iterations)
	}

	return printState(cmd.OutOrStdout(), body.Name, state, cfg.Output.Format)
}
