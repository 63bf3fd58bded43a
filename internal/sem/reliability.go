// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package sem

import (
	"fmt"
	"math"

	"github.com/viametrica/core/internal/models"
)

// htmtWarnThreshold flags construct pairs whose Heterotrait-Monotrait ratio
// suggests they are not empirically distinct.
const htmtWarnThreshold = 0.9

// auditReliability computes internal-consistency and discriminant-validity
// diagnostics from the standardized indicator matrix and the final outer
// loadings. Threshold failures set warnings and Valid=false; they never
// block report assembly.
func auditReliability(ds *Dataset, graph *StructuralGraph, loadings, scores map[string][]float64) models.ReliabilityRecord {
	rec := models.ReliabilityRecord{Valid: true}

	ave := make(map[string]float64, len(graph.Constructs))
	for _, c := range graph.Constructs {
		lam := loadings[c.Name]
		cr := models.ConstructReliability{
			Construct:            c.Name,
			CronbachAlpha:        cronbachAlpha(ds, c),
			CompositeReliability: compositeReliability(lam),
			AVE:                  averageVarianceExtracted(lam),
		}
		ave[c.Name] = cr.AVE
		rec.Constructs = append(rec.Constructs, cr)
	}

	// Fornell-Larcker table: sqrt(AVE) on the diagonal, composite score
	// correlations off the diagonal.
	names := make([]string, len(graph.Constructs))
	values := make([][]float64, len(graph.Constructs))
	for i, c := range graph.Constructs {
		names[i] = c.Name
		values[i] = make([]float64, len(graph.Constructs))
		for j, other := range graph.Constructs {
			if i == j {
				values[i][j] = math.Sqrt(ave[c.Name])
			} else {
				values[i][j] = correlation(scores[c.Name], scores[other.Name])
			}
		}
	}
	rec.Discriminant = models.DiscriminantMatrix{Constructs: names, Values: values}

	for i := range graph.Constructs {
		for j := i + 1; j < len(graph.Constructs); j++ {
			a, b := graph.Constructs[i], graph.Constructs[j]
			r := math.Abs(values[i][j])
			if math.Sqrt(ave[a.Name]) <= r || math.Sqrt(ave[b.Name]) <= r {
				rec.Valid = false
				rec.Warnings = append(rec.Warnings, fmt.Sprintf(
					"Fornell-Larcker failure: |corr(%s, %s)| = %.3f not below both sqrt(AVE)",
					a.Name, b.Name, r))
			}

			ratio := htmt(ds, a, b)
			rec.HTMT = append(rec.HTMT, models.HTMTEntry{
				ConstructA: a.Name,
				ConstructB: b.Name,
				Ratio:      ratio,
			})
			if ratio > htmtWarnThreshold {
				rec.Valid = false
				rec.Warnings = append(rec.Warnings, fmt.Sprintf(
					"HTMT(%s, %s) = %.3f exceeds %.1f", a.Name, b.Name, ratio, htmtWarnThreshold))
			}
		}
	}

	return rec
}

// cronbachAlpha computes Cronbach's alpha over a construct's indicator
// block: (k/(k-1)) * (1 - sum of item variances / variance of item sums).
// Single-indicator constructs are 1.0 by convention.
func cronbachAlpha(ds *Dataset, c Construct) float64 {
	k := len(c.Indicators)
	if k < 2 {
		return 1.0
	}

	n := ds.N()
	sums := make([]float64, n)
	var itemVar float64
	for _, ind := range c.Indicators {
		col := ds.Column(ind)
		itemVar += sampleVariance(col)
		for i := 0; i < n; i++ {
			sums[i] += col[i]
		}
	}

	totalVar := sampleVariance(sums)
	if totalVar < minStdDev {
		return 0
	}
	return (float64(k) / float64(k-1)) * (1 - itemVar/totalVar)
}

// compositeReliability is (sum lambda)^2 / ((sum lambda)^2 + sum(1-lambda^2))
// over the construct's outer loadings. Single-indicator blocks are 1.0.
func compositeReliability(loadings []float64) float64 {
	if len(loadings) < 2 {
		return 1.0
	}
	var sumLam, sumErr float64
	for _, lam := range loadings {
		sumLam += lam
		sumErr += 1 - lam*lam
	}
	if sumErr < 0 {
		sumErr = 0
	}
	num := sumLam * sumLam
	if num+sumErr < minStdDev {
		return 0
	}
	return num / (num + sumErr)
}

// averageVarianceExtracted is the mean squared outer loading.
// Single-indicator blocks are 1.0 by convention.
func averageVarianceExtracted(loadings []float64) float64 {
	if len(loadings) < 2 {
		return 1.0
	}
	var sum float64
	for _, lam := range loadings {
		sum += lam * lam
	}
	return sum / float64(len(loadings))
}

// htmt computes the Heterotrait-Monotrait ratio between two constructs over
// the standardized indicator correlation matrix: the mean absolute
// heterotrait correlation divided by the geometric mean of the mean
// absolute monotrait correlations. Single-indicator blocks contribute a
// monotrait mean of 1.
func htmt(ds *Dataset, a, b Construct) float64 {
	var hetero float64
	for _, ia := range a.Indicators {
		for _, ib := range b.Indicators {
			hetero += math.Abs(correlation(ds.Column(ia), ds.Column(ib)))
		}
	}
	hetero /= float64(len(a.Indicators) * len(b.Indicators))

	monoA := monotraitMean(ds, a)
	monoB := monotraitMean(ds, b)
	denom := math.Sqrt(monoA * monoB)
	if denom < minStdDev {
		return math.Inf(1)
	}
	return hetero / denom
}

// monotraitMean is the mean absolute off-diagonal correlation within a
// construct's indicator block, or 1 for single-indicator blocks.
func monotraitMean(ds *Dataset, c Construct) float64 {
	k := len(c.Indicators)
	if k < 2 {
		return 1.0
	}
	var sum float64
	var count int
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			sum += math.Abs(correlation(ds.Column(c.Indicators[i]), ds.Column(c.Indicators[j])))
			count++
		}
	}
	return sum / float64(count)
}
