// Package metrics exposes prometheus instrumentation for the tick loop and the
// Kepler solver.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ticksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kepler_orbit_ticks_total",
			Help: "Total number of simulation ticks processed.",
		},
	)

	evaluationsSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kepler_orbit_evaluations_skipped_total",
			Help: "Ticks whose simulated instant or result was not finite; the previous snapshot was kept.",
		},
	)

	solverResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kepler_orbit_solver_results_total",
			Help: "Kepler solver outcomes by status.",
		},
		[]string{"status"},
	)

	solverIterations = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kepler_orbit_solver_iterations",
			Help:    "Newton-Raphson iterations per solve.",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10, 15, 25, 50, 100},
		},
	)

	tickDeltaSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kepler_orbit_tick_delta_seconds",
			Help:    "Measured real time between ticks.",
			Buckets: []float64{0.005, 0.01, 0.0167, 0.02, 0.033, 0.05, 0.1, 0.25, 1},
		},
	)

	simulatedElapsedSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "kepler_orbit_simulated_elapsed_seconds",
			Help: "Simulated time accumulated by the clock, relative to the base date.",
		},
	)

	snapshotWriteErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kepler_orbit_snapshot_write_errors_total",
			Help: "Snapshots that could not be written to the configured sink.",
		},
	)
)

func init() {
	prometheus.MustRegister(ticksTotal)
	prometheus.MustRegister(evaluationsSkippedTotal)
	prometheus.MustRegister(solverResultsTotal)
	prometheus.MustRegister(solverIterations)
	prometheus.MustRegister(tickDeltaSeconds)
	prometheus.MustRegister(simulatedElapsedSeconds)
	prometheus.MustRegister(snapshotWriteErrorsTotal)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordTick records one tick and the real time delta that drove it.
func RecordTick(dtSeconds, elapsedMs float64) {
	ticksTotal.Inc()
	tickDeltaSeconds.Observe(dtSeconds)
	simulatedElapsedSeconds.Set(elapsedMs / 1000)
}

// RecordSkipped counts a tick that produced no update.
func RecordSkipped() {
	evaluationsSkippedTotal.Inc()
}

// RecordSolve records a Kepler solver outcome.
func RecordSolve(status string, iterations int) {
	solverResultsTotal.WithLabelValues(status).Inc()
	solverIterations.Observe(float64(iterations))
}

// RecordSnapshotError counts a failed sink write.
func RecordSnapshotError() {
	snapshotWriteErrorsTotal.Inc()
}
