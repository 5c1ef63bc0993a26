package simulation

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"cosmossdk.io/log"

	"github.com/oxygene76/kepler-orbit/pkg/astronomy/orbital"
)

// DefaultTickInterval targets roughly 60 ticks per second
const DefaultTickInterval = time.Second / 60

// ElementsSource supplies the elements for each tick. They may change
// between ticks, so the runner asks again every time.
type ElementsSource interface {
	Elements() orbital.OrbitalElements
}

// ElementsFunc adapts a function to ElementsSource
type ElementsFunc func() orbital.OrbitalElements

func (f ElementsFunc) Elements() orbital.OrbitalElements { return f() }

// StaticElements is an ElementsSource that never changes
type StaticElements orbital.OrbitalElements

func (s StaticElements) Elements() orbital.OrbitalElements { return orbital.OrbitalElements(s) }

// RunnerConfig controls the tick loop
type RunnerConfig struct {
	TickInterval time.Duration
	Speed        float64 // speed exponent
	MaxTicks     int     // 0 runs until the context is cancelled
}

// Runner drives an Orchestrator from a fixed-rate ticker, feeding it the
// measured real time between ticks.
type Runner struct {
	orch   *Orchestrator
	source ElementsSource
	clock  TimeProvider
	config RunnerConfig
	logger log.Logger

	speed atomic.Uint64 // float64 bits
	ticks atomic.Uint64
}

// NewRunner creates a runner. A zero tick interval uses DefaultTickInterval.
func NewRunner(orch *Orchestrator, source ElementsSource, clock TimeProvider, config RunnerConfig, logger log.Logger) *Runner {
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultTickInterval
	}
	r := &Runner{
		orch:   orch,
		source: source,
		clock:  clock,
		config: config,
		logger: logger.With("module", "runner"),
	}
	r.SetSpeed(config.Speed)
	return r
}

// SetSpeed changes the speed exponent; safe to call from another goroutine
func (r *Runner) SetSpeed(speed float64) {
	r.speed.Store(math.Float64bits(speed))
}

// Speed returns the current speed exponent
func (r *Runner) Speed() float64 {
	return math.Float64frombits(r.speed.Load())
}

// Ticks returns the number of ticks processed
func (r *Runner) Ticks() uint64 {
	return r.ticks.Load()
}

// Step processes a single tick with the given real-time delta in seconds
func (r *Runner) Step(dt float64) error {
	r.ticks.Add(1)
	if _, _, err := r.orch.Tick(dt, r.Speed(), r.source.Elements()); err != nil {
		r.logger.Error("snapshot sink failed", "error", err)
		return err
	}
	return nil
}

// Run ticks until ctx is cancelled, MaxTicks is reached or the sink fails.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.config.TickInterval)
	defer ticker.Stop()

	last := r.clock.Now()
	r.logger.Info("tick loop started",
		"tick_interval", r.config.TickInterval.String(),
		"speed", r.Speed(),
		"max_ticks", r.config.MaxTicks,
	)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("tick loop stopped", "ticks", r.Ticks(), "elapsed_days", r.orch.ElapsedDays())
			return nil
		case <-ticker.C:
			now := r.clock.Now()
			dt := now.Sub(last).Seconds()
			last = now

			if err := r.Step(dt); err != nil {
				return err
			}
			if r.config.MaxTicks > 0 && r.Ticks() >= uint64(r.config.MaxTicks) {
				r.logger.Info("tick limit reached", "ticks", r.Ticks(), "elapsed_days", r.orch.ElapsedDays())
				return nil
			}
		}
	}
}
