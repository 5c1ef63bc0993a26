package simulation

import (
	"math"
)

// RateMultiplier maps the speed exponent s to sign(s)·10^|s|.
// s = 0 freezes the simulation.
func RateMultiplier(speed float64) float64 {
	if speed == 0 || math.IsNaN(speed) {
		return 0
	}
	return math.Copysign(math.Pow(10, math.Abs(speed)), speed)
}

// Clock accumulates simulated milliseconds from real elapsed time.
// It is owned by the tick loop; readers get snapshots, never the clock.
type Clock struct {
	elapsedMs float64
}

// NewClock creates a clock with no elapsed simulated time
func NewClock() *Clock {
	return &Clock{}
}

// Tick advances the clock by dt real seconds at the given speed exponent and
// returns the new elapsed value. Advances that are zero or not finite leave
// the accumulator untouched.
func (c *Clock) Tick(dt, speed float64) float64 {
	rate := RateMultiplier(speed)
	if rate == 0 {
		return c.elapsedMs
	}
	step := rate * dt * 1000
	if math.IsNaN(step) || math.IsInf(step, 0) {
		return c.elapsedMs
	}
	c.elapsedMs += step
	return c.elapsedMs
}

// Elapsed returns the simulated milliseconds accumulated so far
func (c *Clock) Elapsed() float64 {
	return c.elapsedMs
}

// Instant returns the simulated instant for a base date in Unix milliseconds
func (c *Clock) Instant(baseMs float64) float64 {
	return c.elapsedMs + baseMs
}

// Reset discards the accumulated time, as when a new base date is chosen
func (c *Clock) Reset() {
	c.elapsedMs = 0
}
