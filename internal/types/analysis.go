package types

import (
	"time"
)

// AnalysisResult represents the result of an analysis operation
type AnalysisResult struct {
	ID        string           `json:"id" yaml:"id"`
	Type      string           `json:"type" yaml:"type"`
	Timestamp time.Time        `json:"timestamp" yaml:"timestamp"`
	Duration  time.Duration    `json:"duration" yaml:"duration"`
	Metadata  AnalysisMetadata `json:"metadata" yaml:"metadata"`
	Sweeps    []SweepResult    `json:"sweeps" yaml:"sweeps"`
}

// AnalysisMetadata contains metadata about the analysis
type AnalysisMetadata struct {
	InputFiles      []string `json:"input_files,omitempty" yaml:"input_files,omitempty"`
	Samples         int      `json:"samples" yaml:"samples"`
	KeplerTolerance float64  `json:"kepler_tolerance" yaml:"kepler_tolerance"`
	KeplerMaxIter   int      `json:"kepler_max_iterations" yaml:"kepler_max_iterations"`
	Version         string   `json:"version" yaml:"version"`
}

// SweepResult summarizes one body sampled over a full revolution in mean anomaly
type SweepResult struct {
	Body          string    `json:"body" yaml:"body"`
	Epoch         time.Time `json:"epoch" yaml:"epoch"`
	JulianCentury float64   `json:"julian_century" yaml:"julian_century"`
	SemiMajorAxis float64   `json:"semi_major_axis" yaml:"semi_major_axis"` // AU
	Eccentricity  float64   `json:"eccentricity" yaml:"eccentricity"`
	Inclination   float64   `json:"inclination" yaml:"inclination"`         // degrees
	Perihelion    float64   `json:"perihelion" yaml:"perihelion"`           // AU
	Aphelion      float64   `json:"aphelion" yaml:"aphelion"`               // AU
	MinRadius     float64   `json:"min_radius" yaml:"min_radius"`
	MaxRadius     float64   `json:"max_radius" yaml:"max_radius"`
	MeanRadius    float64   `json:"mean_radius" yaml:"mean_radius"`
	StdDevRadius  float64   `json:"stddev_radius" yaml:"stddev_radius"`
	MaxHeight     float64   `json:"max_height" yaml:"max_height"`           // AU above or below the ecliptic
	PeriodDays    float64   `json:"period_days" yaml:"period_days"`
	ThirdLawDays  float64   `json:"third_law_days" yaml:"third_law_days"`
	MaxIterations int       `json:"max_iterations" yaml:"max_iterations"`
	NotConverged  int       `json:"not_converged" yaml:"not_converged"`
	WithinApsides bool      `json:"within_apsides" yaml:"within_apsides"`
}
