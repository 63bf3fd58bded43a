// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the HTTP-surface tunables.
type RouterConfig struct {
	// RequestTimeout bounds each request end to end.
	RequestTimeout time.Duration

	// RateLimitReqs requests per RateLimitWindow, keyed by client IP.
	RateLimitReqs   int
	RateLimitWindow time.Duration

	// AllowedOrigins for CORS; empty allows none beyond same-origin.
	AllowedOrigins []string
}

// NewRouter assembles the HTTP routing tree.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/api/v1/health", h.Health)

	r.Route("/api/v1/analyses", func(r chi.Router) {
		if cfg.RateLimitReqs > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
		}
		r.Use(prometheusMetrics)

		r.Post("/", h.CreateAnalysis)
		r.Get("/", h.ListAnalyses)
		r.Get("/{id}", h.GetAnalysis)
	})

	return r
}
