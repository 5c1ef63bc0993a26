package simulation

import (
	"cosmossdk.io/log"

	"github.com/oxygene76/kepler-orbit/pkg/astronomy/epoch"
	"github.com/oxygene76/kepler-orbit/pkg/astronomy/orbital"
	"github.com/oxygene76/kepler-orbit/pkg/metrics"
)

// Orchestrator owns the clock and runs one evaluation per tick.
// It is not safe for concurrent use; readers go through Latest.
type Orchestrator struct {
	engine *Engine
	clock  *Clock
	latest *Latest
	sink   Sink
	logger log.Logger

	baseMs float64
}

// NewOrchestrator creates an orchestrator with the given base instant (Unix ms).
// sink may be nil.
func NewOrchestrator(engine *Engine, baseMs float64, sink Sink, logger log.Logger) *Orchestrator {
	return &Orchestrator{
		engine: engine,
		clock:  NewClock(),
		latest: &Latest{},
		sink:   sink,
		logger: logger.With("module", "orchestrator"),
		baseMs: baseMs,
	}
}

// Latest returns the snapshot handoff read by presentation loops
func (o *Orchestrator) Latest() *Latest {
	return o.latest
}

// Clock returns the simulated clock
func (o *Orchestrator) Clock() *Clock {
	return o.clock
}

// BaseMs returns the base instant
func (o *Orchestrator) BaseMs() float64 {
	return o.baseMs
}

// SetBaseDate parses a new base date and restarts the clock from it.
// An unparsable date is stored as NaN so subsequent ticks produce no update.
func (o *Orchestrator) SetBaseDate(value string) error {
	ms, err := epoch.ParseBaseDate(value)
	o.baseMs = ms
	o.clock.Reset()
	return err
}

// Tick advances the clock by dt real seconds at speed exponent s and
// evaluates the elements at the resulting instant. When the evaluation
// yields no update the previous snapshot stays published and false is
// returned. The error is only set when the sink rejected the snapshot.
func (o *Orchestrator) Tick(dt, speed float64, oe orbital.OrbitalElements) (StateVector, bool, error) {
	elapsed := o.clock.Tick(dt, speed)
	metrics.RecordTick(dt, elapsed)

	instant := o.clock.Instant(o.baseMs)
	state, ok := o.engine.Evaluate(oe, instant)
	if !ok {
		metrics.RecordSkipped()
		o.logger.Debug("no update for tick", "instant_ms", instant, "base_ms", o.baseMs)
		prev, _ := o.latest.Load()
		return prev, false, nil
	}

	status := orbital.StatusConverged
	if !state.Converged {
		status = orbital.StatusNotConverged
		o.logger.Warn("kepler solver did not converge, position is approximate",
			"iterations", state.Iterations,
			"mean_anomaly", state.Angles.M,
			"eccentricity", state.Elements.E,
		)
	}
	metrics.RecordSolve(status.String(), state.Iterations)

	o.latest.Store(state)

	if o.sink != nil {
		if err := o.sink.OnSnapshot(state); err != nil {
			metrics.RecordSnapshotError()
			return state, true, err
		}
	}
	return state, true, nil
}

// ElapsedDays returns the simulated time accumulated since the base date, in days
func (o *Orchestrator) ElapsedDays() float64 {
	return o.clock.Elapsed() / epoch.MsPerDay
}
