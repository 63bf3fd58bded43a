// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

// Package api exposes the analysis engine over HTTP. Routing uses Chi;
// responses use a standardized JSON envelope. Handlers depend on narrow
// capability interfaces so tests run without a real database.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/go-playground/validator/v10"

	"github.com/viametrica/core/internal/database"
	"github.com/viametrica/core/internal/logging"
	"github.com/viametrica/core/internal/metrics"
	"github.com/viametrica/core/internal/models"
	"github.com/viametrica/core/internal/sem"
)

// maxRequestBodyBytes caps analysis request bodies.
const maxRequestBodyBytes = 1 << 20

// IndicatorSource loads raw indicator observations for one analysis scope.
type IndicatorSource interface {
	LoadIndicators(ctx context.Context, region, period string) (*sem.RawTable, error)
}

// ReportStore persists and retrieves analysis reports.
type ReportStore interface {
	SaveReport(ctx context.Context, report *models.ModelReport) error
	GetReport(ctx context.Context, runID string) (*models.ModelReport, error)
	ListReports(ctx context.Context, limit int) ([]models.ReportSummary, error)
}

// Pinger reports backing-store connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the analysis API.
type Handler struct {
	runner     *sem.Runner
	indicators IndicatorSource
	reports    ReportStore
	pinger     Pinger
	validate   *validator.Validate
}

// NewHandler wires the handler to its dependencies.
func NewHandler(runner *sem.Runner, indicators IndicatorSource, reports ReportStore, pinger Pinger) *Handler {
	return &Handler{
		runner:     runner,
		indicators: indicators,
		reports:    reports,
		pinger:     pinger,
		validate:   validator.New(),
	}
}

// Health reports service and database status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	status := "healthy"
	dbStatus := "up"
	code := http.StatusOK
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			status = "degraded"
			dbStatus = "down"
			code = http.StatusServiceUnavailable
			logging.Warn().Err(err).Msg("Health check: database unreachable")
		}
	}

	respondJSON(w, code, map[string]string{
		"status":   status,
		"database": dbStatus,
	}, started)
}

// CreateAnalysis runs a synchronous PLS-SEM analysis for one region/period
// scope and returns the persisted report.
func (h *Handler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.AnalysisRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}

	table, err := h.indicators.LoadIndicators(r.Context(), req.Region, req.Period)
	if err != nil {
		logging.Error().Err(err).Str("region", req.Region).Str("period", req.Period).
			Msg("Failed to load indicators")
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "failed to load indicators")
		return
	}

	params := sem.RunParams{
		Region: req.Region,
		Period: req.Period,
		Table:  table,
		Seed:   req.Seed,
	}
	if req.BootstrapSamples != nil {
		params.BootstrapSamples = *req.BootstrapSamples
	}

	report, err := h.runner.Run(r.Context(), params)
	if err != nil {
		h.respondRunError(w, err)
		metrics.RunsTotal.WithLabelValues(runErrorStatus(err)).Inc()
		return
	}

	if err := h.reports.SaveReport(r.Context(), report); err != nil {
		logging.Error().Err(err).Str("run_id", report.RunID).Msg("Failed to persist report")
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "failed to persist report")
		return
	}

	metrics.ObserveRun(time.Since(started).Seconds(),
		report.Converged, report.Bootstrap.Reliable,
		report.Bootstrap.Completed-report.Bootstrap.Excluded, report.Bootstrap.Excluded)

	respondJSON(w, http.StatusCreated, report, started)
}

// GetAnalysis returns one persisted report by run ID.
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	runID := chi.URLParam(r, "id")
	report, err := h.reports.GetReport(r.Context(), runID)
	if errors.Is(err, database.ErrReportNotFound) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "no report for run "+runID)
		return
	}
	if err != nil {
		logging.Error().Err(err).Str("run_id", runID).Msg("Failed to load report")
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "failed to load report")
		return
	}
	respondJSON(w, http.StatusOK, report, started)
}

// ListAnalyses returns summaries of recent reports, newest first.
func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "limit must be an integer in [1,500]")
			return
		}
		limit = n
	}

	summaries, err := h.reports.ListReports(r.Context(), limit)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to list reports")
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "failed to list reports")
		return
	}
	respondJSON(w, http.StatusOK, summaries, started)
}

// respondRunError maps engine error kinds onto HTTP statuses. Configuration
// errors are client-visible model problems; data quality errors describe the
// indicator table for the requested scope.
func (h *Handler) respondRunError(w http.ResponseWriter, err error) {
	var ce *sem.ConfigurationError
	if errors.As(err, &ce) {
		respondError(w, http.StatusUnprocessableEntity, ErrCodeModelConfig, ce.Error())
		return
	}
	var dq *sem.DataQualityError
	if errors.As(err, &dq) {
		respondError(w, http.StatusUnprocessableEntity, ErrCodeDataQuality, dq.Error())
		return
	}
	logging.Error().Err(err).Msg("Analysis run failed")
	respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "analysis run failed")
}

func runErrorStatus(err error) string {
	var ce *sem.ConfigurationError
	if errors.As(err, &ce) {
		return "config_error"
	}
	var dq *sem.DataQualityError
	if errors.As(err, &dq) {
		return "data_error"
	}
	return "internal_error"
}
