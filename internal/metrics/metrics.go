// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

// Package metrics provides Prometheus instrumentation for the analysis
// pipeline and the HTTP API, exposed at /metrics in Prometheus text format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Analysis run metrics

	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_runs_total",
			Help: "Total number of PLS-SEM analysis runs",
		},
		[]string{"status"}, // completed, config_error, data_error, internal_error
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_run_duration_seconds",
			Help:    "Wall-clock duration of full analysis runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	RunsNotConverged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analysis_runs_not_converged_total",
			Help: "Runs whose weight iteration exceeded the iteration cap",
		},
	)

	// Bootstrap metrics

	BootstrapReplicates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bootstrap_replicates_total",
			Help: "Bootstrap replicates by outcome",
		},
		[]string{"outcome"}, // survived, excluded
	)

	BootstrapUnreliable = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bootstrap_unreliable_total",
			Help: "Runs whose bootstrap excluded fraction exceeded the threshold",
		},
	)

	// API metrics

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// ObserveRun records the outcome counters derived from one finished run.
func ObserveRun(durationSeconds float64, converged, bootstrapReliable bool, survived, excluded int) {
	RunsTotal.WithLabelValues("completed").Inc()
	RunDuration.Observe(durationSeconds)
	if !converged {
		RunsNotConverged.Inc()
	}
	if !bootstrapReliable {
		BootstrapUnreliable.Inc()
	}
	BootstrapReplicates.WithLabelValues("survived").Add(float64(survived))
	BootstrapReplicates.WithLabelValues("excluded").Add(float64(excluded))
}
