// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package sem

import "math"

// initialWeights seeds the outer model with equal weights 1/sqrt(k) for a
// k-indicator block.
func initialWeights(graph *StructuralGraph) map[string][]float64 {
	weights := make(map[string][]float64, len(graph.Constructs))
	for _, c := range graph.Constructs {
		k := len(c.Indicators)
		w := make([]float64, k)
		seed := 1.0 / math.Sqrt(float64(k))
		for i := range w {
			w[i] = seed
		}
		weights[c.Name] = w
	}
	return weights
}

// compositeScores aggregates each construct's indicator block into one
// standardized score per observation using the given outer weights.
// Scores leave this function with zero mean and unit variance regardless of
// the weight scale.
func compositeScores(ds *Dataset, graph *StructuralGraph, weights map[string][]float64) (map[string][]float64, error) {
	n := ds.N()
	scores := make(map[string][]float64, len(graph.Constructs))

	for _, c := range graph.Constructs {
		w := weights[c.Name]
		score := make([]float64, n)
		for k, ind := range c.Indicators {
			col := ds.Column(ind)
			wk := w[k]
			for i := 0; i < n; i++ {
				score[i] += wk * col[i]
			}
		}

		m := mean(score)
		sd := sampleStdDev(score)
		if sd < minStdDev {
			return nil, &replicateError{reason: "composite score for " + c.Name + " has zero variance"}
		}
		for i := range score {
			score[i] = (score[i] - m) / sd
		}
		scores[c.Name] = score
	}
	return scores, nil
}

// outerLoadings computes, per construct, the correlation of each indicator
// with the construct's composite score. Loadings feed the reliability math.
func outerLoadings(ds *Dataset, graph *StructuralGraph, scores map[string][]float64) map[string][]float64 {
	loadings := make(map[string][]float64, len(graph.Constructs))
	for _, c := range graph.Constructs {
		score := scores[c.Name]
		lam := make([]float64, len(c.Indicators))
		for k, ind := range c.Indicators {
			lam[k] = correlation(ds.Column(ind), score)
		}
		loadings[c.Name] = lam
	}
	return loadings
}
