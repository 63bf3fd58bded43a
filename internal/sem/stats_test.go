// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package sem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleStdDev(t *testing.T) {
	assert.InDelta(t, 1.0, sampleStdDev([]float64{1, 2, 3}), 1e-12)
	assert.Zero(t, sampleStdDev([]float64{5}))
	assert.Zero(t, sampleStdDev([]float64{2, 2, 2, 2}))
}

func TestCorrelation(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{2, 4, 6, 8, 10}
	assert.InDelta(t, 1.0, correlation(xs, ys), 1e-12)

	neg := []float64{10, 8, 6, 4, 2}
	assert.InDelta(t, -1.0, correlation(xs, neg), 1e-12)

	flat := []float64{3, 3, 3, 3, 3}
	assert.Zero(t, correlation(xs, flat))
}

func TestPercentileInterpolation(t *testing.T) {
	xs := []float64{4, 1, 3, 2}

	assert.InDelta(t, 1.0, percentile(xs, 0), 1e-12)
	assert.InDelta(t, 4.0, percentile(xs, 1), 1e-12)
	assert.InDelta(t, 2.5, percentile(xs, 0.5), 1e-12)
	assert.InDelta(t, 1.75, percentile(xs, 0.25), 1e-12)

	// Input is not reordered.
	assert.Equal(t, []float64{4, 1, 3, 2}, xs)
}

func TestMedian(t *testing.T) {
	assert.InDelta(t, 2.0, median([]float64{3, 1, 2}), 1e-12)
	assert.InDelta(t, 2.5, median([]float64{1, 2, 3, 4}), 1e-12)
}

func TestNormalQuantile(t *testing.T) {
	assert.InDelta(t, 1.959964, normalQuantile(0.975), 1e-5)
	assert.InDelta(t, 1.644854, normalQuantile(0.95), 1e-5)
	assert.InDelta(t, 0.0, normalQuantile(0.5), 1e-12)
	assert.InDelta(t, -1.959964, normalQuantile(0.025), 1e-5)
}

func TestCholeskySolve(t *testing.T) {
	// A = [[4,2],[2,3]], b = [10, 8] => x = [1.75, 1.5]
	A := [][]float64{{4, 2}, {2, 3}}
	b := []float64{10, 8}

	x, ok := choleskySolve(A, b)
	require.True(t, ok)
	require.Len(t, x, 2)
	assert.InDelta(t, 1.75, x[0], 1e-12)
	assert.InDelta(t, 1.5, x[1], 1e-12)
}

func TestCholeskySolveSingular(t *testing.T) {
	// Rank-deficient: second row is a multiple of the first.
	A := [][]float64{{1, 2}, {2, 4}}
	b := []float64{1, 2}

	_, ok := choleskySolve(A, b)
	assert.False(t, ok)
}
