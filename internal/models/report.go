// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package models

import (
	"time"
)

// ReportSchemaVersion identifies the serialization shape of ModelReport.
// Bump on any backward-incompatible change to the report structure.
const ReportSchemaVersion = "1"

// ModelReport is the immutable snapshot produced by one PLS-SEM analysis run.
// It aggregates construct state, structural path estimates with bootstrap
// confidence intervals, reliability diagnostics, and a configuration echo.
//
// A report is created once per run and never mutated afterwards. Later runs
// for the same region/period supersede earlier reports rather than editing
// them.
type ModelReport struct {
	SchemaVersion string    `json:"schema_version"`
	RunID         string    `json:"run_id"`
	Region        string    `json:"region"`
	Period        string    `json:"period"`
	GeneratedAt   time.Time `json:"generated_at"`

	// Converged reports whether the PLS weight iteration met the configured
	// tolerance. A false value means the last iterate was used; Residual
	// records the achieved maximum weight change.
	Converged  bool    `json:"converged"`
	Iterations int     `json:"iterations"`
	Residual   float64 `json:"residual"`

	Constructs  []ConstructResult `json:"constructs"`
	Paths       []PathEstimate    `json:"paths"`
	Reliability ReliabilityRecord `json:"reliability"`
	Bootstrap   BootstrapOutcome  `json:"bootstrap"`
	Config      ConfigEcho        `json:"config"`

	// Extensions carries forward-compatible fields added by newer producers.
	// Consumers must ignore keys they do not understand.
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// ConstructResult holds the final outer-model state of one latent construct.
type ConstructResult struct {
	Name       string            `json:"name"`
	Indicators []IndicatorResult `json:"indicators"`

	// RSquared is set only for endogenous constructs (at least one incoming
	// structural path).
	RSquared *float64 `json:"r_squared,omitempty"`
}

// IndicatorResult holds the per-indicator outer weight and loading, plus the
// raw-scale moments used for standardization (retained for back-transform).
type IndicatorResult struct {
	Name         string  `json:"name"`
	Weight       float64 `json:"weight"`
	Loading      float64 `json:"loading"`
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	ImputedCount int     `json:"imputed_count"`
}

// PathEstimate is the estimate for one hypothesized structural path.
//
// SE, CILow, CIHigh, and TStat are nil when the bootstrap distribution could
// not support them (fewer than two surviving replicates). A nil value is the
// explicit "undefined" marker; it is never reported as zero.
type PathEstimate struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Beta   float64 `json:"beta"`

	BootstrapMean *float64 `json:"bootstrap_mean"`

	SE          *float64 `json:"se"`
	CILow       *float64 `json:"ci_low"`
	CIHigh      *float64 `json:"ci_high"`
	TStat       *float64 `json:"t_stat"`
	Significant bool     `json:"significant"`

	DirectEffect   float64 `json:"direct_effect"`
	IndirectEffect float64 `json:"indirect_effect"`
	TotalEffect    float64 `json:"total_effect"`
}

// ConstructReliability holds internal-consistency diagnostics for one construct.
type ConstructReliability struct {
	Construct            string  `json:"construct"`
	CronbachAlpha        float64 `json:"cronbach_alpha"`
	CompositeReliability float64 `json:"composite_reliability"`
	AVE                  float64 `json:"ave"`
}

// DiscriminantMatrix is the Fornell-Larcker table: sqrt(AVE) on the diagonal,
// inter-construct composite correlations off the diagonal. Row and column
// order follows Constructs.
type DiscriminantMatrix struct {
	Constructs []string    `json:"constructs"`
	Values     [][]float64 `json:"values"`
}

// HTMTEntry is the Heterotrait-Monotrait ratio for one construct pair.
type HTMTEntry struct {
	ConstructA string  `json:"construct_a"`
	ConstructB string  `json:"construct_b"`
	Ratio      float64 `json:"ratio"`
}

// ReliabilityRecord aggregates reliability and discriminant-validity
// diagnostics for the run. Threshold failures surface as warnings and set
// Valid=false; they never block report assembly.
type ReliabilityRecord struct {
	Constructs   []ConstructReliability `json:"constructs"`
	Discriminant DiscriminantMatrix     `json:"discriminant"`
	HTMT         []HTMTEntry            `json:"htmt"`
	Warnings     []string               `json:"warnings"`
	Valid        bool                   `json:"valid"`
}

// BootstrapOutcome summarizes the resampling stage of the run.
type BootstrapOutcome struct {
	// Samples is the requested replicate count; Completed is how many were
	// actually attempted before cancellation, and Excluded how many of those
	// were dropped as degenerate.
	Samples   int `json:"samples"`
	Completed int `json:"completed"`
	Excluded  int `json:"excluded"`

	// Reliable is false when the excluded fraction exceeded the configured
	// threshold. Partial is true when the run was cancelled between batches
	// before all replicates completed.
	Reliable bool `json:"reliable"`
	Partial  bool `json:"partial"`

	// SEDefined is false when the surviving replicate count cannot support a
	// standard error (fewer than two replicates).
	SEDefined bool `json:"se_defined"`

	Seed              uint64  `json:"seed"`
	SeedExplicit      bool    `json:"seed_explicit"`
	ConfidenceLevel   float64 `json:"confidence_level"`
	SignificanceLevel float64 `json:"significance_level"`
}

// ConfigEcho records the effective engine configuration, including the
// resolved methodological choices, so a report is self-describing.
type ConfigEcho struct {
	MinSampleSize        int     `json:"min_sample_size"`
	MinCoverage          float64 `json:"min_coverage"`
	BootstrapSamples     int     `json:"bootstrap_samples"`
	SignificanceLevel    float64 `json:"significance_level"`
	ConfidenceLevel      float64 `json:"confidence_level"`
	ConvergenceTolerance float64 `json:"convergence_tolerance"`
	MaxIterations        int     `json:"max_iterations"`
	WeightingScheme      string  `json:"weighting_scheme"`
	ImputationPolicy     string  `json:"imputation_policy"`
}

// ReportSummary is the listing projection of a persisted report.
type ReportSummary struct {
	RunID       string    `json:"run_id"`
	Region      string    `json:"region"`
	Period      string    `json:"period"`
	GeneratedAt time.Time `json:"generated_at"`
	Converged   bool      `json:"converged"`
	Reliable    bool      `json:"reliable"`
	Valid       bool      `json:"valid"`
}

// Summarize returns the listing projection of the report.
func (r *ModelReport) Summarize() ReportSummary {
	return ReportSummary{
		RunID:       r.RunID,
		Region:      r.Region,
		Period:      r.Period,
		GeneratedAt: r.GeneratedAt,
		Converged:   r.Converged,
		Reliable:    r.Bootstrap.Reliable,
		Valid:       r.Reliability.Valid,
	}
}
