// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package sem

import (
	"context"
	"math/rand/v2"
	"sync"
)

// BootstrapConfig controls the resampling stage.
type BootstrapConfig struct {
	// Samples is the number of resamples drawn with replacement.
	// Default: 5000.
	Samples int

	// ConfidenceLevel sets the percentile interval width. Default: 0.95.
	ConfidenceLevel float64

	// SignificanceLevel drives the two-tailed significance decision
	// (|t| > z critical value). Default: 0.05, nominal |t| > 1.96.
	SignificanceLevel float64

	// MaxExcludedFraction is the tolerated share of degenerate replicates
	// before the whole bootstrap outcome is marked unreliable. Default: 0.10.
	MaxExcludedFraction float64

	// ReplicateMaxIterations is the stricter per-replicate cap on the weight
	// iteration; a replicate that does not converge within it is excluded.
	// Default: 100.
	ReplicateMaxIterations int

	// Workers bounds the replicate worker pool. Default: 4.
	Workers int

	// BatchSize is the replicate batch between cancellation checks.
	// Default: 250.
	BatchSize int

	// Seed makes the replicate set bit-for-bit reproducible. Nil means the
	// run is intentionally stochastic; the generated seed is still recorded.
	Seed *uint64
}

// DefaultBootstrapConfig returns the default bootstrap configuration.
func DefaultBootstrapConfig() BootstrapConfig {
	return BootstrapConfig{
		Samples:                5000,
		ConfidenceLevel:        0.95,
		SignificanceLevel:      0.05,
		MaxExcludedFraction:    0.10,
		ReplicateMaxIterations: 100,
		Workers:                4,
		BatchSize:              250,
	}
}

// normalized returns a copy with defaults applied to zero fields.
func (c BootstrapConfig) normalized() BootstrapConfig {
	d := DefaultBootstrapConfig()
	if c.Samples <= 0 {
		c.Samples = d.Samples
	}
	if c.ConfidenceLevel <= 0 || c.ConfidenceLevel >= 1 {
		c.ConfidenceLevel = d.ConfidenceLevel
	}
	if c.SignificanceLevel <= 0 || c.SignificanceLevel >= 1 {
		c.SignificanceLevel = d.SignificanceLevel
	}
	if c.MaxExcludedFraction <= 0 {
		c.MaxExcludedFraction = d.MaxExcludedFraction
	}
	if c.ReplicateMaxIterations <= 0 {
		c.ReplicateMaxIterations = d.ReplicateMaxIterations
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	return c
}

// pathInterval is the bootstrap inference for one structural path.
// Defined is false when fewer than two replicates survived.
type pathInterval struct {
	mean        float64
	se          float64
	ciLow       float64
	ciHigh      float64
	tStat       float64
	significant bool
	defined     bool
}

// bootstrapOutcome is the merged result of all replicates.
type bootstrapOutcome struct {
	intervals map[Edge]pathInterval

	completed int
	excluded  int
	reliable  bool
	partial   bool
	seDefined bool

	seed         uint64
	seedExplicit bool
}

// runBootstrap quantifies the sampling uncertainty of the base path
// coefficients by re-running the outer and inner models over resampled
// observation sets.
//
// Replicate r draws its indices from an RNG seeded (seed, r), so the
// replicate set is identical for a given seed regardless of worker count or
// scheduling. Each replicate writes only to its own result slot; the slots
// are merged in one reduction after all workers finish. Cancellation is
// checked between batches; a cancelled run keeps the replicates that
// completed and is marked partial.
func runBootstrap(ctx context.Context, ds *Dataset, graph *StructuralGraph, cfg BootstrapConfig, tol float64, base []PathCoefficient) *bootstrapOutcome {
	cfg = cfg.normalized()

	out := &bootstrapOutcome{
		seedExplicit: cfg.Seed != nil,
	}
	if cfg.Seed != nil {
		out.seed = *cfg.Seed
	} else {
		// Intentionally stochastic: draw a fresh seed and record it so the
		// run is reproducible after the fact.
		out.seed = rand.Uint64()
	}

	// results[r] holds replicate r's path coefficients in edge order;
	// nil marks an excluded replicate.
	results := make([][]float64, cfg.Samples)

	n := ds.N()
	for batchStart := 0; batchStart < cfg.Samples; batchStart += cfg.BatchSize {
		if ctx.Err() != nil {
			out.partial = true
			break
		}

		batchEnd := batchStart + cfg.BatchSize
		if batchEnd > cfg.Samples {
			batchEnd = cfg.Samples
		}

		var wg sync.WaitGroup
		batchLen := batchEnd - batchStart
		chunkSize := (batchLen + cfg.Workers - 1) / cfg.Workers
		for w := 0; w < cfg.Workers; w++ {
			start := batchStart + w*chunkSize
			end := start + chunkSize
			if end > batchEnd {
				end = batchEnd
			}
			if start >= end {
				break
			}

			wg.Add(1)
			go func(rStart, rEnd int) {
				defer wg.Done()
				for r := rStart; r < rEnd; r++ {
					betas, err := bootstrapReplicate(ds, graph, out.seed, r, n, tol, cfg.ReplicateMaxIterations)
					if err != nil {
						continue // excluded; slot stays nil
					}
					results[r] = betas
				}
			}(start, end)
		}
		wg.Wait()

		out.completed = batchEnd
	}

	for r := 0; r < out.completed; r++ {
		if results[r] == nil {
			out.excluded++
		}
	}
	survivors := out.completed - out.excluded

	excludedFraction := 1.0
	if out.completed > 0 {
		excludedFraction = float64(out.excluded) / float64(out.completed)
	}
	out.reliable = out.completed > 0 && excludedFraction <= cfg.MaxExcludedFraction

	// A standard error needs at least two surviving replicates; with one
	// (e.g. Samples=1) it is reported as undefined, never as a spurious zero.
	out.seDefined = survivors >= 2

	out.intervals = aggregateReplicates(results, out.completed, base, cfg)
	return out
}

// bootstrapReplicate runs one resample through the outer and inner models.
// Degeneracy (zero-variance resampled indicator, singular regression) or
// non-convergence within the replicate cap excludes the replicate.
func bootstrapReplicate(ds *Dataset, graph *StructuralGraph, seed uint64, r, n int, tol float64, maxIter int) ([]float64, error) {
	rng := rand.New(rand.NewPCG(seed, uint64(r)))

	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.IntN(n)
	}

	rs, err := ds.resample(idx)
	if err != nil {
		return nil, err
	}

	it, err := iterateWeights(rs, graph, tol, maxIter)
	if err != nil {
		return nil, err
	}
	if !it.converged {
		return nil, &replicateError{replicate: r, reason: "weight iteration exceeded replicate cap"}
	}

	paths, _, err := estimatePaths(graph, it.scores, rs.N())
	if err != nil {
		return nil, err
	}

	betas := make([]float64, len(paths))
	for i, p := range paths {
		betas[i] = p.Beta
	}
	return betas, nil
}

// aggregateReplicates reduces the surviving replicate distribution per path
// into bootstrap mean, SE, percentile CI, and the t-based significance
// decision against the base coefficient.
func aggregateReplicates(results [][]float64, completed int, base []PathCoefficient, cfg BootstrapConfig) map[Edge]pathInterval {
	intervals := make(map[Edge]pathInterval, len(base))
	critical := normalQuantile(1 - cfg.SignificanceLevel/2)
	alpha := 1 - cfg.ConfidenceLevel

	for i, p := range base {
		edge := Edge{Source: p.Source, Target: p.Target}

		var betas []float64
		for r := 0; r < completed; r++ {
			if results[r] != nil {
				betas = append(betas, results[r][i])
			}
		}

		if len(betas) < 2 {
			intervals[edge] = pathInterval{defined: false}
			continue
		}

		se := sampleStdDev(betas)
		iv := pathInterval{
			mean:    mean(betas),
			se:      se,
			ciLow:   percentile(betas, alpha/2),
			ciHigh:  percentile(betas, 1-alpha/2),
			defined: true,
		}
		if se > 0 {
			iv.tStat = p.Beta / se
			iv.significant = iv.tStat > critical || iv.tStat < -critical
		}
		intervals[edge] = iv
	}
	return intervals
}
