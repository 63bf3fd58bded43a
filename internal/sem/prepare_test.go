// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package sem

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareStandardizes(t *testing.T) {
	g := validGraph()
	ds, err := Prepare(g, syntheticTable(200, 1), 100, 0.70)
	require.NoError(t, err)

	assert.Equal(t, 200, ds.N())
	assert.Equal(t, []string{"a1", "a2", "b1", "b2", "c1"}, ds.Indicators)

	for _, name := range ds.Indicators {
		col := ds.Column(name)
		require.Len(t, col, 200)
		assert.InDelta(t, 0.0, mean(col), 1e-9, "indicator %s mean", name)
		assert.InDelta(t, 1.0, sampleStdDev(col), 1e-9, "indicator %s std dev", name)
	}
}

func TestPrepareRejectsSmallSample(t *testing.T) {
	g := validGraph()

	_, err := Prepare(g, syntheticTable(50, 1), 100, 0.70)
	require.Error(t, err)

	var dq *DataQualityError
	require.True(t, errors.As(err, &dq))
	assert.Contains(t, dq.Reason, "sample size")
}

func TestPrepareEnforcesTenPerIndicatorFloor(t *testing.T) {
	// Largest block has 2 indicators, so the floor is 20 even when the
	// configured minimum is lower.
	g := validGraph()
	_, err := Prepare(g, syntheticTable(15, 1), 5, 0.70)
	require.Error(t, err)

	var dq *DataQualityError
	require.True(t, errors.As(err, &dq))
	assert.Contains(t, dq.Reason, "largest indicator block")
}

func TestPrepareRejectsLowCoverage(t *testing.T) {
	g := validGraph()
	table := syntheticTable(100, 1)

	// Drop a1 from 40% of rows: coverage 0.60 < 0.70.
	for i := 0; i < 40; i++ {
		delete(table.Observations[i].Values, "a1")
	}

	_, err := Prepare(g, table, 50, 0.70)
	require.Error(t, err)

	var dq *DataQualityError
	require.True(t, errors.As(err, &dq))
	assert.Equal(t, "a1", dq.Indicator)
	assert.Contains(t, dq.Reason, "coverage")
}

func TestPrepareImputesMedian(t *testing.T) {
	g := validGraph()
	table := syntheticTable(100, 1)

	// Remove 10 values of b1; they must come back as the median of the rest.
	for i := 0; i < 10; i++ {
		delete(table.Observations[i].Values, "b1")
	}
	var present []float64
	for _, obs := range table.Observations[10:] {
		present = append(present, obs.Values["b1"])
	}
	fill := median(present)

	ds, err := Prepare(g, table, 50, 0.70)
	require.NoError(t, err)
	assert.Equal(t, 10, ds.Stats["b1"].Imputed)
	assert.Zero(t, ds.Stats["a1"].Imputed)

	// Undo standardization for the imputed rows and compare to the median.
	col := ds.Column("b1")
	st := ds.Stats["b1"]
	for i := 0; i < 10; i++ {
		raw := col[i]*st.StdDev + st.Mean
		assert.InDelta(t, fill, raw, 1e-9)
	}
}

func TestPrepareRejectsZeroVariance(t *testing.T) {
	g := validGraph()
	table := syntheticTable(100, 1)
	for i := range table.Observations {
		table.Observations[i].Values["c1"] = 7.5
	}

	_, err := Prepare(g, table, 50, 0.70)
	require.Error(t, err)

	var dq *DataQualityError
	require.True(t, errors.As(err, &dq))
	assert.Equal(t, "c1", dq.Indicator)
	assert.Contains(t, dq.Reason, "zero variance")
}

func TestPrepareKeepsObservationOrder(t *testing.T) {
	g := validGraph()
	ds, err := Prepare(g, syntheticTable(50, 3), 20, 0.70)
	require.NoError(t, err)

	for i, key := range ds.Keys {
		assert.Equal(t, fmt.Sprintf("obs-%04d", i), key)
	}
}
