// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package models

import (
	"time"
)

// APIResponse is the standardized response wrapper used by all HTTP endpoints.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMs int64     `json:"query_time_ms,omitempty"`
}

// APIError carries a machine-readable error code and a human-readable message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// AnalysisRequest is the body of POST /api/v1/analyses.
type AnalysisRequest struct {
	Region string `json:"region" validate:"required,min=1,max=128"`
	Period string `json:"period" validate:"required,min=1,max=64"`

	// Seed makes the bootstrap deterministic. Omitted = intentionally
	// stochastic (the generated seed is echoed in the report).
	Seed *uint64 `json:"seed,omitempty"`

	// BootstrapSamples overrides the configured replicate count for this run.
	BootstrapSamples *int `json:"bootstrap_samples,omitempty" validate:"omitempty,min=1,max=100000"`
}
