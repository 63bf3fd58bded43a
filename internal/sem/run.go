// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package sem

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/viametrica/core/internal/logging"
	"github.com/viametrica/core/internal/models"
)

// Config holds the engine tunables for one Runner.
type Config struct {
	// MinSampleSize is the minimum observation count per run. Default: 100.
	MinSampleSize int

	// MinCoverage is the minimum non-missing ratio per indicator.
	// Default: 0.70.
	MinCoverage float64

	// ConvergenceTolerance stops the weight iteration when the maximum
	// absolute weight change falls below it. Default: 1e-6.
	ConvergenceTolerance float64

	// MaxIterations caps the weight iteration. Exceeding it flags the run
	// converged=false instead of aborting. Default: 300.
	MaxIterations int

	Bootstrap BootstrapConfig
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		MinSampleSize:        100,
		MinCoverage:          0.70,
		ConvergenceTolerance: 1e-6,
		MaxIterations:        300,
		Bootstrap:            DefaultBootstrapConfig(),
	}
}

// normalized returns a copy with defaults applied to zero fields.
func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.MinSampleSize <= 0 {
		c.MinSampleSize = d.MinSampleSize
	}
	if c.MinCoverage <= 0 || c.MinCoverage > 1 {
		c.MinCoverage = d.MinCoverage
	}
	if c.ConvergenceTolerance <= 0 {
		c.ConvergenceTolerance = d.ConvergenceTolerance
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	c.Bootstrap = c.Bootstrap.normalized()
	return c
}

// Runner executes PLS-SEM analysis runs against one validated structural
// model. It holds no per-run state, so a single Runner is safe for
// concurrent runs across regions and periods.
type Runner struct {
	graph *StructuralGraph
	cfg   Config
	log   zerolog.Logger
}

// NewRunner validates the structural model and returns a Runner bound to it.
// Graph problems surface here as *ConfigurationError, before any observation
// is ever read.
func NewRunner(graph *StructuralGraph, cfg Config) (*Runner, error) {
	if graph == nil {
		return nil, &ConfigurationError{Reason: "nil structural graph"}
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		graph: graph,
		cfg:   cfg.normalized(),
		log:   logging.With().Str("component", "sem").Logger(),
	}, nil
}

// Graph returns the structural model the runner is bound to.
func (r *Runner) Graph() *StructuralGraph { return r.graph }

// Config returns the effective engine configuration.
func (r *Runner) Config() Config { return r.cfg }

// RunParams scopes one analysis run.
type RunParams struct {
	Region string
	Period string
	Table  *RawTable

	// Seed overrides the configured bootstrap seed for this run.
	Seed *uint64

	// BootstrapSamples overrides the configured replicate count when > 0.
	BootstrapSamples int
}

// Run executes the full pipeline for one (region, period) scope and returns
// the assembled report. Fatal failures return a *DataQualityError (or a
// wrapped degenerate-estimation error) with no partial report; convergence,
// bootstrap reliability, and validity problems are embedded in the report
// as flags instead.
func (r *Runner) Run(ctx context.Context, p RunParams) (*models.ModelReport, error) {
	if p.Table == nil {
		return nil, &DataQualityError{Reason: "no indicator table supplied"}
	}

	cfg := r.cfg
	if p.Seed != nil {
		seed := *p.Seed
		cfg.Bootstrap.Seed = &seed
	}
	if p.BootstrapSamples > 0 {
		cfg.Bootstrap.Samples = p.BootstrapSamples
	}

	log := r.log.With().Str("region", p.Region).Str("period", p.Period).Logger()
	log.Info().Int("observations", len(p.Table.Observations)).Msg("Analysis run started")

	ds, err := Prepare(r.graph, p.Table, cfg.MinSampleSize, cfg.MinCoverage)
	if err != nil {
		return nil, err
	}

	it, err := iterateWeights(ds, r.graph, cfg.ConvergenceTolerance, cfg.MaxIterations)
	if err != nil {
		return nil, asDataQuality(err)
	}
	if !it.converged {
		log.Warn().
			Int("iterations", it.iterations).
			Float64("residual", it.residual).
			Msg("Weight iteration did not converge; using last iterate")
	}

	paths, rsq, err := estimatePaths(r.graph, it.scores, ds.N())
	if err != nil {
		return nil, asDataQuality(err)
	}
	effects := computeEffects(r.graph, paths)
	loadings := outerLoadings(ds, r.graph, it.scores)

	boot := runBootstrap(ctx, ds, r.graph, cfg.Bootstrap, cfg.ConvergenceTolerance, paths)
	if boot.partial {
		log.Warn().
			Int("completed", boot.completed).
			Int("requested", cfg.Bootstrap.Samples).
			Msg("Bootstrap cancelled between batches; report marked partial")
	}
	if !boot.reliable {
		log.Warn().
			Int("excluded", boot.excluded).
			Int("completed", boot.completed).
			Msg("Bootstrap excluded fraction over threshold; outcome marked unreliable")
	}

	reliability := auditReliability(ds, r.graph, loadings, it.scores)
	for _, w := range reliability.Warnings {
		log.Warn().Str("warning", w).Msg("Validity warning")
	}

	report := assembleReport(r.graph, ds, it, paths, rsq, effects, loadings, boot, reliability, p.Region, p.Period, cfg)

	log.Info().
		Str("run_id", report.RunID).
		Bool("converged", report.Converged).
		Bool("bootstrap_reliable", report.Bootstrap.Reliable).
		Bool("valid", report.Reliability.Valid).
		Msg("Analysis run completed")
	return report, nil
}

// asDataQuality maps degenerate-estimation failures from the numeric stages
// onto the run-fatal error kind, preserving already-typed errors.
func asDataQuality(err error) error {
	var dq *DataQualityError
	if errors.As(err, &dq) {
		return err
	}
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return err
	}
	return &DataQualityError{Reason: fmt.Sprintf("degenerate estimation input: %v", err)}
}
