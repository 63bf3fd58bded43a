// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package sem

import "context"

// RawObservation is one (region, period) row keyed by observation key.
// Values maps indicator name to raw value; an absent key is a missing value.
type RawObservation struct {
	Key    string
	Values map[string]float64
}

// RawTable is the indicator table supplied by an IndicatorProvider for one
// analysis scope.
type RawTable struct {
	Observations []RawObservation
}

// IndicatorProvider supplies the raw indicator table for a region/period
// scope. Implemented by the storage layer; the engine only consumes this
// narrow capability.
type IndicatorProvider interface {
	LoadIndicators(ctx context.Context, region, period string) (*RawTable, error)
}

// IndicatorStats records the raw-scale moments used to standardize one
// indicator, retained for reporting and back-transform.
type IndicatorStats struct {
	Mean    float64
	StdDev  float64
	Imputed int
}

// Dataset is the prepared, standardized indicator matrix for one run.
// Columns are keyed by indicator name; every column has zero mean and unit
// variance over the run's observation set.
type Dataset struct {
	Keys       []string
	Indicators []string
	Stats      map[string]IndicatorStats

	columns map[string][]float64
	n       int
}

// N returns the observation count.
func (d *Dataset) N() int { return d.n }

// Column returns the standardized values for one indicator in row order.
// The returned slice is owned by the dataset and must not be modified.
func (d *Dataset) Column(name string) []float64 { return d.columns[name] }

// resample materializes a bootstrap resample selected by row indices and
// re-standardizes every column. It fails when a resampled column collapses
// to zero variance, which the bootstrap validator treats as a degenerate
// replicate.
func (d *Dataset) resample(idx []int) (*Dataset, error) {
	out := &Dataset{
		Indicators: d.Indicators,
		Stats:      d.Stats,
		columns:    make(map[string][]float64, len(d.columns)),
		n:          len(idx),
	}
	for _, name := range d.Indicators {
		src := d.columns[name]
		col := make([]float64, len(idx))
		for i, j := range idx {
			col[i] = src[j]
		}
		m := mean(col)
		sd := sampleStdDev(col)
		if sd < minStdDev {
			return nil, &replicateError{reason: "indicator " + name + " has zero variance in resample"}
		}
		for i := range col {
			col[i] = (col[i] - m) / sd
		}
		out.columns[name] = col
	}
	return out, nil
}
