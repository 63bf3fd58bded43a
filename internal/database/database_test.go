// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viametrica/core/internal/config"
	"github.com/viametrica/core/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(&config.DatabaseConfig{Path: "", MaxMemory: "256MB", Threads: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func fptr(v float64) *float64 { return &v }

func TestPing(t *testing.T) {
	db := testDB(t)
	assert.NoError(t, db.Ping(context.Background()))
}

func TestImportAndLoadIndicators(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	rows := []IndicatorRow{
		{Region: "r1", Period: "2025-Q1", ObservationKey: "hotel-b", Construct: "Satisfaction", Indicator: "total_reviews", Value: fptr(120)},
		{Region: "r1", Period: "2025-Q1", ObservationKey: "hotel-a", Construct: "Satisfaction", Indicator: "total_reviews", Value: fptr(300)},
		{Region: "r1", Period: "2025-Q1", ObservationKey: "hotel-a", Construct: "Satisfaction", Indicator: "current_rank", Value: fptr(4)},
		// Explicitly missing measurement.
		{Region: "r1", Period: "2025-Q1", ObservationKey: "hotel-b", Construct: "Satisfaction", Indicator: "current_rank", Value: nil},
		// Different scope, must not leak into r1/2025-Q1.
		{Region: "r2", Period: "2025-Q1", ObservationKey: "hotel-z", Construct: "Satisfaction", Indicator: "total_reviews", Value: fptr(7)},
	}
	require.NoError(t, db.ImportIndicators(ctx, rows))

	table, err := db.LoadIndicators(ctx, "r1", "2025-Q1")
	require.NoError(t, err)
	require.Len(t, table.Observations, 2)

	// Ordered by observation key.
	assert.Equal(t, "hotel-a", table.Observations[0].Key)
	assert.Equal(t, "hotel-b", table.Observations[1].Key)

	assert.Equal(t, 300.0, table.Observations[0].Values["total_reviews"])
	assert.Equal(t, 4.0, table.Observations[0].Values["current_rank"])

	// NULL stays missing: the key is absent, not zero.
	_, present := table.Observations[1].Values["current_rank"]
	assert.False(t, present)
	assert.Equal(t, 120.0, table.Observations[1].Values["total_reviews"])
}

func TestImportIndicatorsUpsert(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	row := IndicatorRow{Region: "r", Period: "p", ObservationKey: "o", Construct: "C", Indicator: "x", Value: fptr(1)}
	require.NoError(t, db.ImportIndicators(ctx, []IndicatorRow{row}))

	row.Value = fptr(2)
	require.NoError(t, db.ImportIndicators(ctx, []IndicatorRow{row}))

	table, err := db.LoadIndicators(ctx, "r", "p")
	require.NoError(t, err)
	require.Len(t, table.Observations, 1)
	assert.Equal(t, 2.0, table.Observations[0].Values["x"])
}

func TestLoadIndicatorsEmptyScope(t *testing.T) {
	db := testDB(t)

	table, err := db.LoadIndicators(context.Background(), "nowhere", "never")
	require.NoError(t, err)
	assert.Empty(t, table.Observations)
}

func sampleReport(runID string, generatedAt time.Time) *models.ModelReport {
	return &models.ModelReport{
		SchemaVersion: models.ReportSchemaVersion,
		RunID:         runID,
		Region:        "r1",
		Period:        "2025-Q1",
		GeneratedAt:   generatedAt,
		Converged:     true,
		Iterations:    12,
		Residual:      4.2e-7,
		Paths: []models.PathEstimate{
			{
				Source: "A", Target: "B", Beta: 0.61,
				BootstrapMean: fptr(0.60), SE: fptr(0.05),
				CILow: fptr(0.5), CIHigh: fptr(0.7), TStat: fptr(12.2),
				Significant: true, DirectEffect: 0.61, TotalEffect: 0.61,
			},
			// Undefined inference: nil markers must survive the round trip.
			{Source: "B", Target: "C", Beta: 0.2},
		},
		Reliability: models.ReliabilityRecord{Valid: true},
		Bootstrap:   models.BootstrapOutcome{Samples: 100, Completed: 100, Reliable: true, SEDefined: true, Seed: 42},
	}
}

func TestSaveAndGetReport(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	saved := sampleReport("run-1", time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, db.SaveReport(ctx, saved))

	got, err := db.GetReport(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, saved.RunID, got.RunID)
	assert.Equal(t, saved.Region, got.Region)
	assert.Equal(t, saved.Converged, got.Converged)
	require.Len(t, got.Paths, 2)
	require.NotNil(t, got.Paths[0].SE)
	assert.Equal(t, 0.05, *got.Paths[0].SE)
	assert.Nil(t, got.Paths[1].SE)
	assert.Nil(t, got.Paths[1].TStat)
}

func TestGetReportNotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.GetReport(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestListReportsNewestFirst(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, db.SaveReport(ctx, sampleReport("run-old", base.Add(-2*time.Hour))))
	require.NoError(t, db.SaveReport(ctx, sampleReport("run-new", base)))
	require.NoError(t, db.SaveReport(ctx, sampleReport("run-mid", base.Add(-time.Hour))))

	summaries, err := db.ListReports(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "run-new", summaries[0].RunID)
	assert.Equal(t, "run-mid", summaries[1].RunID)
	assert.Equal(t, "run-old", summaries[2].RunID)

	limited, err := db.ListReports(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
