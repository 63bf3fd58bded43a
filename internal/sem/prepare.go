// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package sem

import "fmt"

// minObservationsPerIndicator is the sample size rule of thumb: the run must
// have at least ten observations per indicator in the largest block.
const minObservationsPerIndicator = 10

// Prepare validates the raw table against the structural model, imputes
// missing values with the per-indicator median, and standardizes every
// required indicator to zero mean and unit variance.
//
// It fails with a *DataQualityError when the observation count is below the
// configured minimum or below ten times the largest indicator block, when
// any indicator's non-missing coverage falls under minCoverage, or when an
// indicator has zero variance after imputation.
func Prepare(graph *StructuralGraph, raw *RawTable, minSampleSize int, minCoverage float64) (*Dataset, error) {
	required := graph.RequiredIndicators()
	n := len(raw.Observations)

	if n < minSampleSize {
		return nil, &DataQualityError{
			Reason: fmt.Sprintf("sample size %d below minimum %d", n, minSampleSize),
		}
	}
	if floor := minObservationsPerIndicator * graph.LargestBlock(); n < floor {
		return nil, &DataQualityError{
			Reason: fmt.Sprintf("sample size %d below %d (10x largest indicator block)", n, floor),
		}
	}

	ds := &Dataset{
		Keys:       make([]string, n),
		Indicators: required,
		Stats:      make(map[string]IndicatorStats, len(required)),
		columns:    make(map[string][]float64, len(required)),
		n:          n,
	}
	for i, obs := range raw.Observations {
		ds.Keys[i] = obs.Key
	}

	for _, name := range required {
		col := make([]float64, n)
		missing := make([]bool, n)
		present := make([]float64, 0, n)

		for i, obs := range raw.Observations {
			v, ok := obs.Values[name]
			if !ok {
				missing[i] = true
				continue
			}
			col[i] = v
			present = append(present, v)
		}

		coverage := float64(len(present)) / float64(n)
		if coverage < minCoverage {
			return nil, &DataQualityError{
				Indicator: name,
				Reason: fmt.Sprintf("non-missing coverage %.1f%% below required %.1f%%",
					coverage*100, minCoverage*100),
			}
		}

		// Median imputation over the run's own observation set.
		imputed := n - len(present)
		if imputed > 0 {
			fill := median(present)
			for i := range col {
				if missing[i] {
					col[i] = fill
				}
			}
		}

		m := mean(col)
		sd := sampleStdDev(col)
		if sd < minStdDev {
			return nil, &DataQualityError{
				Indicator: name,
				Reason:    "zero variance after imputation, cannot standardize",
			}
		}
		for i := range col {
			col[i] = (col[i] - m) / sd
		}

		ds.columns[name] = col
		ds.Stats[name] = IndicatorStats{Mean: m, StdDev: sd, Imputed: imputed}
	}

	return ds, nil
}
