// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package database

import (
	"context"
	"fmt"

	"github.com/viametrica/core/internal/sem"
)

// IndicatorRow is one row of the external indicator input contract:
// (indicator name, construct tag, observation key, value) scoped to a
// region and period. A nil Value records an explicitly missing measurement.
type IndicatorRow struct {
	Region         string
	Period         string
	ObservationKey string
	Construct      string
	Indicator      string
	Value          *float64
}

// ImportIndicators upserts a batch of indicator rows inside one transaction.
func (db *DB) ImportIndicators(ctx context.Context, rows []IndicatorRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO indicator_values
			(region, period, observation_key, construct, indicator, value)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare indicator insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			r.Region, r.Period, r.ObservationKey, r.Construct, r.Indicator, r.Value); err != nil {
			return fmt.Errorf("failed to insert indicator %s/%s: %w", r.ObservationKey, r.Indicator, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit indicator import: %w", err)
	}
	return nil
}

// LoadIndicators returns the raw indicator table for one region/period
// scope, rows ordered by observation key. NULL values are recorded as
// missing. Implements sem.IndicatorProvider.
func (db *DB) LoadIndicators(ctx context.Context, region, period string) (*sem.RawTable, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT observation_key, indicator, value
		FROM indicator_values
		WHERE region = ? AND period = ?
		ORDER BY observation_key, indicator`, region, period)
	if err != nil {
		return nil, fmt.Errorf("failed to query indicators: %w", err)
	}
	defer func() { _ = rows.Close() }()

	table := &sem.RawTable{}
	byKey := make(map[string]int)

	for rows.Next() {
		var key, indicator string
		var value *float64
		if err := rows.Scan(&key, &indicator, &value); err != nil {
			return nil, fmt.Errorf("failed to scan indicator row: %w", err)
		}

		idx, ok := byKey[key]
		if !ok {
			idx = len(table.Observations)
			byKey[key] = idx
			table.Observations = append(table.Observations, sem.RawObservation{
				Key:    key,
				Values: make(map[string]float64),
			})
		}
		if value != nil {
			table.Observations[idx].Values[indicator] = *value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("indicator row iteration failed: %w", err)
	}
	return table, nil
}

// Compile-time check: the store satisfies the engine's provider capability.
var _ sem.IndicatorProvider = (*DB)(nil)
