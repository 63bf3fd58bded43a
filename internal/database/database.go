// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

// Package database provides the DuckDB-backed indicator store and report
// persistence. It implements the engine's IndicatorProvider capability and
// the report sink consumed by the HTTP API.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/viametrica/core/internal/config"
	"github.com/viametrica/core/internal/logging"
)

// DB wraps the DuckDB connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the DuckDB database and initializes the schema.
// An empty path opens an in-memory database (used by tests).
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	connStr := ""
	if cfg.Path != "" {
		// Ensure the parent directory exists before DuckDB opens the file.
		// 0750 per gosec G301.
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
		connStr = fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
			cfg.Path, numThreads, cfg.MaxMemory)
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg}
	if err := db.initialize(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing database after failed init")
		}
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Msg("Database initialized")
	return db, nil
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies connectivity, used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// initialize creates the schema when it does not exist yet.
func (db *DB) initialize() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS indicator_values (
			region          VARCHAR NOT NULL,
			period          VARCHAR NOT NULL,
			observation_key VARCHAR NOT NULL,
			construct       VARCHAR NOT NULL,
			indicator       VARCHAR NOT NULL,
			value           DOUBLE,
			collected_at    TIMESTAMP DEFAULT current_timestamp,
			PRIMARY KEY (region, period, observation_key, indicator)
		)`,
		`CREATE TABLE IF NOT EXISTS model_reports (
			run_id             VARCHAR PRIMARY KEY,
			region             VARCHAR NOT NULL,
			period             VARCHAR NOT NULL,
			generated_at       TIMESTAMP NOT NULL,
			converged          BOOLEAN NOT NULL,
			bootstrap_reliable BOOLEAN NOT NULL,
			valid              BOOLEAN NOT NULL,
			report             JSON NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_scope
			ON model_reports (region, period, generated_at)`,
	}
	for _, stmt := range schema {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
