// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

// Package main is the entry point for the Viametrica analysis server.
//
// Viametrica estimates the impact of tourism competitiveness and visitor
// satisfaction on tourism employment with a PLS-SEM engine, and exposes the
// results over a REST API.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered Koanf v2 sources (defaults, YAML file, env vars)
//  2. Logging: zerolog, JSON or console format
//  3. Database: DuckDB indicator store and report persistence
//  4. Engine: the PLS-SEM runner bound to the built-in tourism model
//  5. HTTP Server: Chi REST API plus the Prometheus /metrics endpoint
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops accepting
// new connections, waits for in-flight requests (10s timeout), then closes
// the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/viametrica/core/internal/api"
	"github.com/viametrica/core/internal/config"
	"github.com/viametrica/core/internal/database"
	"github.com/viametrica/core/internal/logging"
	"github.com/viametrica/core/internal/sem"
)

// shutdownTimeout bounds the graceful drain of in-flight requests.
const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting Viametrica server")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	runner, err := sem.NewRunner(sem.DefaultTourismModel(), cfg.Model.EngineConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}

	handler := api.NewHandler(runner, db, db, db)
	router := api.NewRouter(handler, api.RouterConfig{
		RequestTimeout:  cfg.Server.Timeout,
		RateLimitReqs:   cfg.Server.RateLimitReqs,
		RateLimitWindow: cfg.Server.RateLimitWindow,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logging.Info().Msg("Server stopped")
	return nil
}
