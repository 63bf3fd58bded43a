// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package sem

import "fmt"

// ConfigurationError reports a malformed structural model: a cycle, an edge
// referencing an undeclared construct, or a construct without indicators.
// It is raised during graph validation, before any observation is read,
// and never mid-iteration.
type ConfigurationError struct {
	// Construct names the offending construct when one can be identified.
	Construct string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	if e.Construct != "" {
		return fmt.Sprintf("structural model configuration error (construct %q): %s", e.Construct, e.Reason)
	}
	return fmt.Sprintf("structural model configuration error: %s", e.Reason)
}

// DataQualityError reports input data that cannot support estimation:
// insufficient sample size, excessive missingness, or a zero-variance
// indicator. It is fatal for the run; no partial report is produced.
type DataQualityError struct {
	// Indicator names the offending indicator when the failure is local to one.
	Indicator string
	Reason    string
}

func (e *DataQualityError) Error() string {
	if e.Indicator != "" {
		return fmt.Sprintf("data quality error (indicator %q): %s", e.Indicator, e.Reason)
	}
	return fmt.Sprintf("data quality error: %s", e.Reason)
}

// replicateError marks a degenerate bootstrap resample. It is caught inside
// the validator, counted, and excluded; it never propagates to the caller.
type replicateError struct {
	replicate int
	reason    string
}

func (e *replicateError) Error() string {
	return fmt.Sprintf("bootstrap replicate %d excluded: %s", e.replicate, e.reason)
}
