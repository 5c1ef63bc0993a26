package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/oxygene76/kepler-orbit/internal/types"
	astromath "github.com/oxygene76/kepler-orbit/pkg/astronomy/math"
	"github.com/oxygene76/kepler-orbit/pkg/simulation"
)

type stateReport struct {
	Body string `json:"body"`
	UTC  string `json:"utc"`
	simulation.StateVector
}

func printState(w io.Writer, body string, s simulation.StateVector, format string) error {
	if format == "json" {
		b, err := json.Marshal(stateReport{Body: body, UTC: s.Time().Format("2006-01-02T15:04:05Z07:00"), StateVector: s})
		if err != nil {
			return fmt.Errorf("failed to marshal state: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	status := "converged"
	if !s.Converged {
		status = "NOT converged"
	}
	fmt.Fprintf(w, "%s @ %s  JD %.5f  T %+.8f\n", body, s.Time().Format("2006-01-02 15:04:05"), s.JulianDay, s.JulianCentury)
	fmt.Fprintf(w, "  position  x=%+.6f y=%+.6f z=%+.6f AU  r=%.6f AU (%.0f km)\n",
		s.Position3D.X, s.Position3D.Y, s.Position3D.Z, s.Distance(), s.PositionMeters().Magnitude()/1000)
	fmt.Fprintf(w, "  anomalies M=%.4f° E=%.4f°  ω=%.4f°\n",
		astromath.RadToDeg(s.Angles.M), astromath.RadToDeg(s.Angles.E), astromath.RadToDeg(s.Angles.Wp))
	fmt.Fprintf(w, "  solver    %s after %d iterations\n", status, s.Iterations)
	return nil
}

func printSweep(w io.Writer, result *types.AnalysisResult) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "          ORBIT SWEEP RESULTS")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Samples per body: %d  (tolerance %g, max %d iterations)\n\n",
		result.Metadata.Samples, result.Metadata.KeplerTolerance, result.Metadata.KeplerMaxIter)

	fmt.Fprintf(w, "%-12s %10s %10s %10s %10s %10s %12s %6s\n",
		"Body", "q (AU)", "min r", "max r", "Q (AU)", "mean r", "period (d)", "ok")
	fmt.Fprintln(w, "--------------------------------------------------------------------------------------")
	for _, s := range result.Sweeps {
		ok := "yes"
		if !s.WithinApsides || s.NotConverged > 0 {
			ok = "NO"
		}
		fmt.Fprintf(w, "%-12s %10.6f %10.6f %10.6f %10.6f %10.6f %12.2f %6s\n",
			s.Body, s.Perihelion, s.MinRadius, s.MaxRadius, s.Aphelion, s.MeanRadius, s.PeriodDays, ok)
	}
	fmt.Fprintf(w, "\nCompleted in %v\n", result.Duration)
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func saveResult(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
