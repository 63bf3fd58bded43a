// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package sem

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Population path coefficients of the synthetic three-construct model used
// across the estimation tests: A -> B (0.8), A -> C (0.3), B -> C (0.5).
// Latent variances are calibrated to 1 so these are the standardized values.
const (
	synthBetaAB = 0.8
	synthBetaAC = 0.3
	synthBetaBC = 0.5
)

// syntheticTable simulates observations from the validGraph structure with
// known standardized path coefficients and low measurement noise, so the
// estimated betas should land near the population values.
func syntheticTable(n int, seed uint64) *RawTable {
	rng := rand.New(rand.NewPCG(seed, 0))

	// Residual scales keep every latent at unit variance.
	sdB := math.Sqrt(1 - synthBetaAB*synthBetaAB)
	varC := synthBetaAC*synthBetaAC + synthBetaBC*synthBetaBC +
		2*synthBetaAC*synthBetaBC*synthBetaAB
	sdC := math.Sqrt(1 - varC)

	const measurementNoise = 0.2

	table := &RawTable{Observations: make([]RawObservation, n)}
	for i := 0; i < n; i++ {
		latA := rng.NormFloat64()
		latB := synthBetaAB*latA + sdB*rng.NormFloat64()
		latC := synthBetaAC*latA + synthBetaBC*latB + sdC*rng.NormFloat64()

		table.Observations[i] = RawObservation{
			Key: fmt.Sprintf("obs-%04d", i),
			Values: map[string]float64{
				"a1": latA + measurementNoise*rng.NormFloat64(),
				"a2": latA + measurementNoise*rng.NormFloat64(),
				"b1": latB + measurementNoise*rng.NormFloat64(),
				"b2": latB + measurementNoise*rng.NormFloat64(),
				"c1": latC + measurementNoise*rng.NormFloat64(),
			},
		}
	}
	return table
}

// preparedSynthetic is the standardized dataset for a synthetic table.
func preparedSynthetic(n int, seed uint64) (*Dataset, *StructuralGraph) {
	g := validGraph()
	ds, err := Prepare(g, syntheticTable(n, seed), 20, 0.70)
	if err != nil {
		panic(err)
	}
	return ds, g
}
