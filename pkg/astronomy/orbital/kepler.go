package orbital

import (
	"math"
)

const (
	// DefaultKeplerTolerance is the step size below which iteration stops
	DefaultKeplerTolerance = 1e-5
	// MaxKeplerIterations caps Newton-Raphson so high eccentricities cannot hang a tick
	MaxKeplerIterations = 100
)

// KeplerStatus tags the outcome of SolveKepler
type KeplerStatus int

const (
	StatusConverged KeplerStatus = iota
	StatusNotConverged
)

func (s KeplerStatus) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusNotConverged:
		return "not_converged"
	default:
		return "unknown"
	}
}

// KeplerResult is the eccentric anomaly found by the solver.
// When Status is StatusNotConverged, E is the estimate with the smallest
// residual seen before the iteration cap.
type KeplerResult struct {
	E          float64
	Status     KeplerStatus
	Iterations int
}

// Converged reports whether the solver met its tolerance
func (r KeplerResult) Converged() bool {
	return r.Status == StatusConverged
}

// Residual returns E - e*sin(E) - M
func Residual(E, e, M float64) float64 {
	return E - e*math.Sin(E) - M
}

// SolveKepler solves M = E - e*sin(E) for E using the default tolerance and cap
func SolveKepler(M, e float64) KeplerResult {
	return SolveKeplerWith(M, e, DefaultKeplerTolerance, MaxKeplerIterations)
}

// SolveKeplerWith solves Kepler's equation by Newton-Raphson starting at E = M.
// A non-positive maxIterations falls back to MaxKeplerIterations.
func SolveKeplerWith(M, e, tolerance float64, maxIterations int) KeplerResult {
	if maxIterations <= 0 {
		maxIterations = MaxKeplerIterations
	}
	if !finite(M) || !finite(e) {
		return KeplerResult{E: M, Status: StatusNotConverged}
	}

	E := M
	best := E
	bestResidual := math.Abs(Residual(E, e, M))

	for i := 1; i <= maxIterations; i++ {
		next := E - Residual(E, e, M)/(1-e*math.Cos(E))
		if !finite(next) {
			// derivative vanished
			return KeplerResult{E: best, Status: StatusNotConverged, Iterations: i}
		}

		dE := E - next
		E = next
		if r := math.Abs(Residual(E, e, M)); r < bestResidual {
			best, bestResidual = E, r
		}
		if math.Abs(dE) < tolerance {
			return KeplerResult{E: E, Status: StatusConverged, Iterations: i}
		}
	}

	return KeplerResult{E: best, Status: StatusNotConverged, Iterations: maxIterations}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
