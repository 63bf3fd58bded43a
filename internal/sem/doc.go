// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

/*
Package sem implements the Partial Least Squares Structural Equation Model
(PLS-SEM) engine at the heart of Viametrica.

The engine turns a raw regional indicator table into latent-construct
composite scores, estimates standardized path coefficients between
constructs, and validates them through bootstrap resampling and
reliability/validity diagnostics. One call to Runner.Run executes the full
pipeline for a single (region, period) scope and returns an immutable
models.ModelReport.

# Pipeline

	Prepare -> composite scores <-> weight iteration -> structural OLS
	        -> bootstrap validation (parallel replicates)
	        -> reliability & validity audit
	        -> report assembly

Data preparation validates coverage and sample size, imputes missing values
with the per-indicator median, and standardizes every indicator to zero mean
and unit variance. The outer and inner models then iterate in lockstep:
inner proxies are formed with the path-weighting scheme (regression weights
for predecessors, correlation weights for successors), outer weights are
re-derived in reflective mode, and composite scores are re-standardized on
every pass until the maximum weight change falls below the configured
tolerance.

# Error semantics

Malformed structural graphs (cycles, undeclared constructs, empty indicator
blocks) raise a *ConfigurationError before any observation is read. Data
problems (sample too small, coverage below threshold, zero-variance
indicators) raise a *DataQualityError and abort the run with no partial
report. Non-convergence of the weight iteration is not fatal: the last
iterate is used and the report carries Converged=false with the achieved
residual. Degenerate bootstrap replicates are counted and excluded rather
than aborting the validator.

# Concurrency

A Runner is safe for concurrent use; every run owns its own observations,
scores, and estimates. Bootstrap replicates execute on a bounded worker pool
and write only to their own result slot, merged in a single reduction after
the pool drains. Cancellation is observed between replicate batches; a
cancelled run completes with the replicates that finished and the report is
marked partial.
*/
package sem
