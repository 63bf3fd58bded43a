// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package api

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/viametrica/core/internal/logging"
	"github.com/viametrica/core/internal/models"
)

// Error codes for API responses.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeDataQuality      = "DATA_QUALITY"
	ErrCodeModelConfig      = "MODEL_CONFIGURATION"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// respondJSON writes a success envelope with the given payload.
func respondJSON(w http.ResponseWriter, status int, data interface{}, started time.Time) {
	resp := models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMs: time.Since(started).Milliseconds(),
		},
	}
	writeEnvelope(w, status, &resp)
}

// respondError writes an error envelope with a machine-readable code.
func respondError(w http.ResponseWriter, status int, code, message string) {
	resp := models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	}
	writeEnvelope(w, status, &resp)
}

func writeEnvelope(w http.ResponseWriter, status int, resp *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode API response")
	}
}
