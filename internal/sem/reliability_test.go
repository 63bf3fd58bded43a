// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package sem

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronbachAlphaBounds(t *testing.T) {
	ds, g := preparedSynthetic(400, 31)

	// Low-noise parallel indicators: alpha should be high.
	alpha := cronbachAlpha(ds, g.Constructs[0])
	assert.Greater(t, alpha, 0.9)
	assert.LessOrEqual(t, alpha, 1.0)

	// Single indicator block is 1.0 by convention.
	assert.Equal(t, 1.0, cronbachAlpha(ds, g.Constructs[2]))
}

func TestCompositeReliabilityAndAVE(t *testing.T) {
	// Perfect loadings give CR = 1 and AVE = 1.
	assert.InDelta(t, 1.0, compositeReliability([]float64{1, 1, 1}), 1e-12)
	assert.InDelta(t, 1.0, averageVarianceExtracted([]float64{1, 1}), 1e-12)

	// Known hand-computed case: loadings 0.8/0.8.
	// CR = 2.56/(2.56+0.72) = 0.7805; AVE = 0.64.
	assert.InDelta(t, 0.78049, compositeReliability([]float64{0.8, 0.8}), 1e-4)
	assert.InDelta(t, 0.64, averageVarianceExtracted([]float64{0.8, 0.8}), 1e-12)

	// Single-indicator convention.
	assert.Equal(t, 1.0, compositeReliability([]float64{0.7}))
	assert.Equal(t, 1.0, averageVarianceExtracted([]float64{0.7}))
}

func TestPerfectlyCorrelatedBlockReliability(t *testing.T) {
	// Three copies of the same measurement: every within-block correlation
	// is exactly 1, so alpha, CR, and AVE all hit 1 exactly.
	g := &StructuralGraph{
		Constructs: []Construct{
			{Name: "D", Indicators: []string{"d1", "d2", "d3"}},
		},
	}
	require.NoError(t, g.Validate())

	rng := rand.New(rand.NewPCG(7, 0))
	table := &RawTable{Observations: make([]RawObservation, 40)}
	for i := range table.Observations {
		v := rng.NormFloat64()
		table.Observations[i] = RawObservation{
			Key:    fmt.Sprintf("obs-%02d", i),
			Values: map[string]float64{"d1": v, "d2": v, "d3": v},
		}
	}

	ds, err := Prepare(g, table, 30, 0.70)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, correlation(ds.Column("d1"), ds.Column("d2")), 1e-12)
	assert.InDelta(t, 1.0, cronbachAlpha(ds, g.Constructs[0]), 1e-12)
	assert.InDelta(t, 1.0, monotraitMean(ds, g.Constructs[0]), 1e-12)

	it, err := iterateWeights(ds, g, 1e-6, 300)
	require.NoError(t, err)
	loadings := outerLoadings(ds, g, it.scores)
	for _, lam := range loadings["D"] {
		assert.InDelta(t, 1.0, lam, 1e-9)
	}

	rec := auditReliability(ds, g, loadings, it.scores)
	require.Len(t, rec.Constructs, 1)
	assert.InDelta(t, 1.0, rec.Constructs[0].CronbachAlpha, 1e-12)
	assert.InDelta(t, 1.0, rec.Constructs[0].CompositeReliability, 1e-9)
	assert.InDelta(t, 1.0, rec.Constructs[0].AVE, 1e-9)
	assert.InDelta(t, 1.0, rec.Discriminant.Values[0][0], 1e-9)
	assert.True(t, rec.Valid)
	assert.Empty(t, rec.Warnings)
}

func TestAuditReliabilityValidModel(t *testing.T) {
	ds, g := preparedSynthetic(400, 33)
	it, err := iterateWeights(ds, g, 1e-6, 300)
	require.NoError(t, err)
	loadings := outerLoadings(ds, g, it.scores)

	rec := auditReliability(ds, g, loadings, it.scores)

	assert.True(t, rec.Valid, "warnings: %v", rec.Warnings)
	assert.Empty(t, rec.Warnings)

	require.Len(t, rec.Constructs, 3)
	for _, cr := range rec.Constructs {
		assert.Greater(t, cr.CronbachAlpha, 0.7, cr.Construct)
		assert.Greater(t, cr.CompositeReliability, 0.7, cr.Construct)
		assert.Greater(t, cr.AVE, 0.5, cr.Construct)
	}

	// Fornell-Larcker diagonal holds sqrt(AVE); matrix is square over the
	// construct order.
	require.Len(t, rec.Discriminant.Values, 3)
	assert.Equal(t, []string{"A", "B", "C"}, rec.Discriminant.Constructs)
	for i := range rec.Discriminant.Values {
		require.Len(t, rec.Discriminant.Values[i], 3)
	}

	// Three constructs, three pairs.
	assert.Len(t, rec.HTMT, 3)
}

func TestAuditReliabilityFlagsIndistinctConstructs(t *testing.T) {
	// Two constructs measuring the same latent variable: discriminant
	// validity must fail with warnings, Valid=false, but no error.
	g := &StructuralGraph{
		Constructs: []Construct{
			{Name: "P", Indicators: []string{"p1", "p2"}},
			{Name: "Q", Indicators: []string{"q1", "q2"}},
		},
		Edges: []Edge{{Source: "P", Target: "Q"}},
	}
	require.NoError(t, g.Validate())

	rng := rand.New(rand.NewPCG(99, 0))
	table := &RawTable{Observations: make([]RawObservation, 200)}
	for i := range table.Observations {
		lat := rng.NormFloat64()
		table.Observations[i] = RawObservation{
			Key: fmt.Sprintf("obs-%03d", i),
			Values: map[string]float64{
				"p1": lat + 0.05*rng.NormFloat64(),
				"p2": lat + 0.05*rng.NormFloat64(),
				"q1": lat + 0.05*rng.NormFloat64(),
				"q2": lat + 0.05*rng.NormFloat64(),
			},
		}
	}

	ds, err := Prepare(g, table, 50, 0.70)
	require.NoError(t, err)
	it, err := iterateWeights(ds, g, 1e-6, 300)
	require.NoError(t, err)
	loadings := outerLoadings(ds, g, it.scores)

	rec := auditReliability(ds, g, loadings, it.scores)

	assert.False(t, rec.Valid)
	assert.NotEmpty(t, rec.Warnings)

	require.Len(t, rec.HTMT, 1)
	assert.Greater(t, rec.HTMT[0].Ratio, 0.9)
}

func TestMonotraitMean(t *testing.T) {
	ds, g := preparedSynthetic(300, 35)

	// Parallel indicators correlate strongly within the block.
	assert.Greater(t, monotraitMean(ds, g.Constructs[0]), 0.9)
	// Single-indicator block is 1 by convention.
	assert.Equal(t, 1.0, monotraitMean(ds, g.Constructs[2]))
}
