// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package sem

import (
	"math"
	"sort"
)

// minStdDev is the threshold below which an indicator or composite is
// treated as having zero variance.
const minStdDev = 1e-12

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStdDev returns the ddof=1 standard deviation.
func sampleStdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

func sampleVariance(xs []float64) float64 {
	sd := sampleStdDev(xs)
	return sd * sd
}

// correlation returns the Pearson correlation of two equal-length vectors.
// Returns 0 when either vector is constant.
func correlation(xs, ys []float64) float64 {
	n := len(xs)
	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx < minStdDev*minStdDev || syy < minStdDev*minStdDev {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}

// percentile returns the p-th percentile (0 <= p <= 1) of xs using linear
// interpolation between order statistics. xs is not modified.
func percentile(xs []float64, p float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// median returns the 50th percentile of xs.
func median(xs []float64) float64 {
	return percentile(xs, 0.5)
}

// normalQuantile returns the standard normal quantile for probability p,
// e.g. normalQuantile(0.975) = 1.95996.
func normalQuantile(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}

// choleskySolve solves the symmetric positive-definite system A*x = b.
// Unlike a clamped solver, it fails loudly on a non-positive-definite
// matrix so degenerate resamples can be detected and excluded.
//
//nolint:gocritic // A, L follow standard linear algebra notation
func choleskySolve(A [][]float64, b []float64) ([]float64, bool) {
	n := len(b)

	L := make([][]float64, n)
	for i := range L {
		L[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := A[i][j]
			for k := 0; k < j; k++ {
				sum -= L[i][k] * L[j][k]
			}
			if i == j {
				if sum <= minStdDev {
					return nil, false
				}
				L[i][j] = math.Sqrt(sum)
			} else {
				L[i][j] = sum / L[j][j]
			}
		}
	}

	// Forward substitution: L * z = b
	z := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for j := 0; j < i; j++ {
			sum -= L[i][j] * z[j]
		}
		z[i] = sum / L[i][i]
	}

	// Back substitution: L' * x = z
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for j := i + 1; j < n; j++ {
			sum -= L[j][i] * x[j]
		}
		x[i] = sum / L[i][i]
	}

	return x, true
}
