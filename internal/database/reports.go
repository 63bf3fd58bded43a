// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/viametrica/core/internal/models"
)

// ErrReportNotFound is returned when no report exists for a run ID.
var ErrReportNotFound = errors.New("report not found")

// SaveReport persists one finished analysis report. The full report is stored
// as JSON; the scalar columns exist for listing and filtering without
// deserializing the payload.
func (db *DB) SaveReport(ctx context.Context, report *models.ModelReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report %s: %w", report.RunID, err)
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO model_reports
			(run_id, region, period, generated_at, converged, bootstrap_reliable, valid, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, report.Region, report.Period, report.GeneratedAt,
		report.Converged, report.Bootstrap.Reliable, report.Reliability.Valid,
		string(payload))
	if err != nil {
		return fmt.Errorf("failed to insert report %s: %w", report.RunID, err)
	}
	return nil
}

// GetReport loads one report by run ID. Returns ErrReportNotFound when the
// run ID is unknown.
func (db *DB) GetReport(ctx context.Context, runID string) (*models.ModelReport, error) {
	var payload string
	err := db.conn.QueryRowContext(ctx,
		`SELECT report FROM model_reports WHERE run_id = ?`, runID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report %s: %w", runID, err)
	}

	var report models.ModelReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report %s: %w", runID, err)
	}
	return &report, nil
}

// ListReports returns summaries of the most recent reports, newest first.
func (db *DB) ListReports(ctx context.Context, limit int) ([]models.ReportSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT run_id, region, period, generated_at, converged, bootstrap_reliable, valid
		FROM model_reports
		ORDER BY generated_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := make([]models.ReportSummary, 0, limit)
	for rows.Next() {
		var s models.ReportSummary
		if err := rows.Scan(&s.RunID, &s.Region, &s.Period, &s.GeneratedAt,
			&s.Converged, &s.Reliable, &s.Valid); err != nil {
			return nil, fmt.Errorf("failed to scan report summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("report row iteration failed: %w", err)
	}
	return summaries, nil
}
