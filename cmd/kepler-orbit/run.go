package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oxygene76/kepler-orbit/pkg/analysis"
	"github.com/oxygene76/kepler-orbit/pkg/astronomy/epoch"
	"github.com/oxygene76/kepler-orbit/pkg/metrics"
	"github.com/oxygene76/kepler-orbit/pkg/simulation"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulated clock and stream orbital states",
	Long: `Run the tick loop. Each tick advances the simulated clock by the real
time elapsed, scaled by 10^|speed| (negative speed runs backwards), and
evaluates the orbit at the new instant.

Examples:
  # One simulated day per real second for ten seconds
  kepler-orbit run --preset earth --speed 4.936 --duration 10s

  # Record every snapshot and expose metrics
  kepler-orbit run --snapshot-file states.jsonl --metrics --metrics-addr :9464`,
	RunE: runSimulation,
}

func init() {
	runCmd.Flags().Duration("duration", 0, "Stop after this much real time (0 = until interrupted)")
	runCmd.Flags().Int("max-ticks", 0, "Stop after this many ticks (0 = unlimited)")
	runCmd.Flags().String("date", "", "Base date of the simulated clock (UTC)")
	runCmd.Flags().Float64("speed", 0, "Speed exponent s; simulated time runs at sign(s)*10^|s|")
	runCmd.Flags().Float64("tick-hz", 0, "Ticks per second")
	runCmd.Flags().Float64("tolerance", 0, "Kepler solver tolerance")
	runCmd.Flags().Int("max-iterations", 0, "Kepler solver iteration cap")
	runCmd.Flags().String("snapshot-file", "", "Write every snapshot as JSONL to this file")
	runCmd.Flags().Int("report-interval", 0, "Print the latest state every N milliseconds (0 = only at the end)")
	runCmd.Flags().String("format", "summary", "Report format (summary, json)")
	runCmd.Flags().Bool("metrics", false, "Serve prometheus metrics")
	runCmd.Flags().String("metrics-addr", "", "Metrics listen address")
	addElementFlags(runCmd)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	engine := newEngine(cfg)

	body, err := resolveElements(cmd, cfg, analysis.NewManager(engine, logger))
	if err != nil {
		return err
	}

	baseMs, err := epoch.ParseBaseDate(cfg.Simulation.BaseDate)
	if err != nil {
		return err
	}

	var sink simulation.Sink
	if cfg.Output.SnapshotFile != "" {
		jsonl, err := simulation.NewJSONLSink(cfg.Output.SnapshotFile)
		if err != nil {
			return err
		}
		sink = jsonl
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if d, _ := cmd.Flags().GetDuration("duration"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	if cfg.Metrics.Enabled {
		srv := startMetricsServer(cfg.Metrics.Addr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	orch := simulation.NewOrchestrator(engine, baseMs, sink, logger)
	maxTicks, _ := cmd.Flags().GetInt("max-ticks")
	runner := simulation.NewRunner(orch, simulation.StaticElements(body.Elements), simulation.RealTimeProvider{},
		simulation.RunnerConfig{
			TickInterval: time.Duration(float64(time.Second) / cfg.Simulation.TickHz),
			Speed:        cfg.Simulation.Speed,
			MaxTicks:     maxTicks,
		}, logger)

	out := cmd.OutOrStdout()
	var wg sync.WaitGroup
	reportCtx, stopReports := context.WithCancel(ctx)
	if cfg.Output.ReportIntervalMs > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			simulation.Watch(reportCtx, orch.Latest(), time.Duration(cfg.Output.ReportIntervalMs)*time.Millisecond,
				func(s simulation.StateVector) {
					if err := printState(out, body.Name, s, cfg.Output.Format); err != nil {
						logger.Error("failed to print state", "error", err)
					}
				})
		}()
	}

	logger.Info("starting simulation",
		"body", body.Name,
		"base_date", cfg.Simulation.BaseDate,
		"speed", cfg.Simulation.Speed,
		"rate", simulation.RateMultiplier(cfg.Simulation.Speed),
	)
	runErr := runner.Run(ctx)
	stopReports()
	wg.Wait()

	if sink != nil {
		if err := sink.Close(); err != nil {
			metrics.RecordSnapshotError()
			logger.Error("failed to close snapshot file", "file", cfg.Output.SnapshotFile, "error", err)
			runErr = stderrors.Join(runErr, err)
		}
	}

	if s, ok := orch.Latest().Load(); ok {
		if err := printState(out, body.Name, s, cfg.Output.Format); err != nil {
			return err
		}
	}
	logger.Info("simulation finished", "ticks", runner.Ticks(), "elapsed_days", orch.ElapsedDays())
	return runErr
}

func startMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}
