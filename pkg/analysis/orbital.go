package analysis

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"cosmossdk.io/errors"
	"cosmossdk.io/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/oxygene76/kepler-orbit/internal/types"
	"github.com/oxygene76/kepler-orbit/pkg/astronomy/epoch"
	"github.com/oxygene76/kepler-orbit/pkg/astronomy/orbital"
	"github.com/oxygene76/kepler-orbit/pkg/compute"
	"github.com/oxygene76/kepler-orbit/pkg/simulation"
)

const version = "1.0.0"

// NamedElements pairs a body name with its elements
type NamedElements struct {
	Name     string
	Elements orbital.OrbitalElements
}

// Manager handles orbit sweeps and element file loading
type Manager struct {
	engine  *simulation.Engine
	workers int
	logger  log.Logger
}

// NewManager creates a new analysis manager that sweeps on one worker per CPU
func NewManager(engine *simulation.Engine, logger log.Logger) *Manager {
	return &Manager{
		engine:  engine,
		workers: runtime.NumCPU(),
		logger:  logger.With("module", "analysis"),
	}
}

// SetWorkers changes the number of concurrent sweeps
func (m *Manager) SetWorkers(n int) {
	if n > 0 {
		m.workers = n
	}
}

// AnalyzeOrbits sweeps every body at the given instant, one job per body on
// a worker pool. Results keep the order of bodies.
func (m *Manager) AnalyzeOrbits(ctx context.Context, bodies []NamedElements, instantMs float64, samples int) (*types.AnalysisResult, error) {
	start := time.Now()
	m.logger.Info("starting orbit sweep", "bodies", len(bodies), "samples", samples, "workers", m.workers)

	pool := compute.NewJobManager(m.workers, len(bodies), m.logger)
	defer pool.Shutdown()

	jobs := make([]*compute.Job, 0, len(bodies))
	for _, body := range bodies {
		job, err := pool.Submit(ctx, body.Name, func(context.Context) (interface{}, error) {
			return m.Sweep(body.Name, body.Elements, instantMs, samples)
		})
		if err != nil {
			return nil, fmt.Errorf("submit sweep %s: %w", body.Name, err)
		}
		jobs = append(jobs, job)
	}
	if err := compute.Wait(ctx, jobs...); err != nil {
		return nil, err
	}

	sweeps := make([]types.SweepResult, 0, len(bodies))
	for _, job := range jobs {
		res, err := job.Outcome()
		if err != nil {
			return nil, fmt.Errorf("sweep %s: %w", job.Name, err)
		}
		sweeps = append(sweeps, *res.(*types.SweepResult))
	}

	cfg := m.engine.Config()
	result := &types.AnalysisResult{
		ID:        fmt.Sprintf("sweep_%d", time.Now().Unix()),
		Type:      "orbit_sweep",
		Timestamp: time.Now(),
		Duration:  time.Since(start),
		Metadata: types.AnalysisMetadata{
			Samples:         samples,
			KeplerTolerance: cfg.Tolerance,
			KeplerMaxIter:   cfg.MaxIterations,
			Version:         version,
		},
		Sweeps: sweeps,
	}

	m.logger.Info("orbit sweep completed", "bodies", len(sweeps), "duration", time.Since(start).String())
	return result, nil
}

// Sweep samples one body over a full revolution of mean anomaly with the
// elements frozen at instantMs, and checks every sampled distance against
// the periapsis and apoapsis bounds.
func (m *Manager) Sweep(name string, oe orbital.OrbitalElements, instantMs float64, samples int) (*types.SweepResult, error) {
	if samples < 3 {
		return nil, errors.Wrapf(types.ErrInvalidConfig, "sweep needs at least 3 samples, got %d", samples)
	}
	if err := oe.Validate(); err != nil {
		return nil, err
	}
	at, ok := epoch.TimeOf(instantMs)
	if !ok {
		return nil, errors.Wrap(types.ErrInvalidInstant, "sweep instant is not finite")
	}

	cfg := m.engine.Config()
	T := epoch.CenturiesAt(instantMs)
	pe := orbital.Propagate(oe.Clamped(), T)
	in := orbital.PrepareAngles(pe)

	radii := make([]float64, samples)
	heights := make([]float64, samples)
	var maxIter, notConverged int

	for k := 0; k < samples; k++ {
		M := -math.Pi + 2*math.Pi*float64(k)/float64(samples)
		kr := orbital.SolveKeplerWith(M, pe.E, cfg.Tolerance, cfg.MaxIterations)
		if !kr.Converged() {
			notConverged++
		}
		if kr.Iterations > maxIter {
			maxIter = kr.Iterations
		}

		xp, yp := orbital.OrbitalPlane(pe.A, pe.E, kr.E)
		pos := orbital.ToEcliptic3D(xp, yp, in.Wp, in.Rad.I, in.Rad.O)
		radii[k] = pos.Magnitude()
		heights[k] = math.Abs(pos.Z)
	}

	mean, std := stat.MeanStdDev(radii, nil)
	res := &types.SweepResult{
		Body:          name,
		Epoch:         at,
		JulianCentury: T,
		SemiMajorAxis: pe.A,
		Eccentricity:  pe.E,
		Inclination:   pe.I,
		Perihelion:    pe.Perihelion(),
		Aphelion:      pe.Aphelion(),
		MinRadius:     floats.Min(radii),
		MaxRadius:     floats.Max(radii),
		MeanRadius:    mean,
		StdDevRadius:  std,
		MaxHeight:     floats.Max(heights),
		PeriodDays:    periodFromRate(oe.Lc),
		ThirdLawDays:  thirdLawPeriod(pe.A),
		MaxIterations: maxIter,
		NotConverged:  notConverged,
	}
	const slack = 1e-9
	res.WithinApsides = res.MinRadius >= res.Perihelion-slack && res.MaxRadius <= res.Aphelion+slack

	if notConverged > 0 {
		m.logger.Warn("solver did not converge for some samples", "body", name, "count", notConverged)
	}
	if !res.WithinApsides {
		m.logger.Warn("sampled distance outside apsides", "body", name, "min", res.MinRadius, "max", res.MaxRadius)
	}
	return res, nil
}

// periodFromRate returns the sidereal period implied by the mean longitude
// rate (degrees per century), or 0 when the body does not move.
func periodFromRate(lc float64) float64 {
	if lc == 0 {
		return 0
	}
	return math.Abs(360.0 / lc * epoch.DaysPerCentury)
}

// thirdLawPeriod returns the heliocentric period in days for a in AU
func thirdLawPeriod(a float64) float64 {
	if a <= 0 {
		return 0
	}
	return 365.256898326 * math.Pow(a, 1.5)
}

// LoadElements loads named elements from a CSV file with the header
// name,a0,ac,e0,ec,i0,ic,l0,lc,lp0,lpc,o0,oc. Rates may be left empty.
func (m *Manager) LoadElements(filename string) ([]NamedElements, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidElements, "read %s: %v", filename, err)
	}

	if len(records) < 2 {
		return nil, errors.Wrapf(types.ErrInvalidElements, "insufficient data in %s", filename)
	}

	// Skip header row
	var bodies []NamedElements
	for i, record := range records[1:] {
		if len(record) < 13 {
			m.logger.Warn("skipping incomplete record", "file", filename, "row", i+1, "fields", len(record))
			continue
		}

		body, err := parseElementsRecord(record)
		if err != nil {
			m.logger.Warn("failed to parse record", "file", filename, "row", i+1, "error", err)
			continue
		}

		bodies = append(bodies, body)
	}

	if len(bodies) == 0 {
		return nil, errors.Wrapf(types.ErrInvalidElements, "no usable rows in %s", filename)
	}
	return bodies, nil
}

// parseElementsRecord parses a single CSV row
func parseElementsRecord(record []string) (NamedElements, error) {
	parseFloat := func(s string) (float64, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		return strconv.ParseFloat(s, 64)
	}

	body := NamedElements{Name: strings.TrimSpace(record[0])}
	targets := []struct {
		name string
		dst  *float64
	}{
		{"a0", &body.Elements.A0}, {"ac", &body.Elements.Ac},
		{"e0", &body.Elements.E0}, {"ec", &body.Elements.Ec},
		{"i0", &body.Elements.I0}, {"ic", &body.Elements.Ic},
		{"l0", &body.Elements.L0}, {"lc", &body.Elements.Lc},
		{"lp0", &body.Elements.Lp0}, {"lpc", &body.Elements.Lpc},
		{"o0", &body.Elements.O0}, {"oc", &body.Elements.Oc},
	}
	for i, tgt := range targets {
		v, err := parseFloat(record[i+1])
		if err != nil {
			return body, fmt.Errorf("invalid %s: %w", tgt.name, err)
		}
		*tgt.dst = v
	}

	if body.Name == "" {
		return body, fmt.Errorf("missing name")
	}
	if err := body.Elements.Validate(); err != nil {
		return body, err
	}
	return body, nil
}
