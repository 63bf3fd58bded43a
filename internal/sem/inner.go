// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package sem

import (
	"errors"
	"math"
)

// errDegenerate marks numerically degenerate input discovered during
// estimation (collinear composites, singular normal equations).
var errDegenerate = errors.New("degenerate estimation input")

// PathCoefficient is one standardized structural coefficient after
// convergence.
type PathCoefficient struct {
	Source string
	Target string
	Beta   float64
}

// Effect is the decomposition of influence between two constructs: the
// direct path coefficient plus the sum over all indirect directed paths of
// the product of coefficients along each path.
type Effect struct {
	Source   string
	Target   string
	Direct   float64
	Indirect float64
	Total    float64
}

// innerResult is the state of the outer/inner iteration at exit.
type innerResult struct {
	weights    map[string][]float64
	scores     map[string][]float64
	converged  bool
	iterations int
	residual   float64
}

// iterateWeights runs the classic two-phase PLS iteration: inner proxies via
// the path-weighting scheme, outer weight update in reflective mode, and
// composite re-standardization, until the maximum absolute weight change
// falls below tol or maxIter is reached.
//
// Exceeding maxIter is not an error: the last iterate is returned with
// converged=false and the achieved residual, per the convergence-warning
// contract.
func iterateWeights(ds *Dataset, graph *StructuralGraph, tol float64, maxIter int) (*innerResult, error) {
	weights := initialWeights(graph)

	res := &innerResult{residual: math.Inf(1)}
	for iter := 1; iter <= maxIter; iter++ {
		scores, err := compositeScores(ds, graph, weights)
		if err != nil {
			return nil, err
		}

		proxies, err := innerProxies(ds, graph, scores)
		if err != nil {
			return nil, err
		}

		next := updateOuterWeights(ds, graph, proxies)

		residual := 0.0
		for name, w := range next {
			old := weights[name]
			for k := range w {
				if d := math.Abs(w[k] - old[k]); d > residual {
					residual = d
				}
			}
		}

		weights = next
		res.iterations = iter
		res.residual = residual
		if residual < tol {
			res.converged = true
			break
		}
	}

	scores, err := compositeScores(ds, graph, weights)
	if err != nil {
		return nil, err
	}
	res.weights = weights
	res.scores = scores
	return res, nil
}

// innerProxies forms, for each construct, a standardized proxy score from
// the composite scores of its directly connected constructs. Path
// weighting: predecessors contribute with their multiple regression
// coefficients, successors with their correlations. Isolated constructs
// keep their own composite as proxy.
func innerProxies(ds *Dataset, graph *StructuralGraph, scores map[string][]float64) (map[string][]float64, error) {
	n := ds.N()
	proxies := make(map[string][]float64, len(graph.Constructs))

	for _, c := range graph.Constructs {
		preds := graph.Predecessors(c.Name)
		succs := graph.Successors(c.Name)

		if len(preds) == 0 && len(succs) == 0 {
			proxies[c.Name] = scores[c.Name]
			continue
		}

		proxy := make([]float64, n)

		if len(preds) > 0 {
			betas, err := regressScores(scores[c.Name], preds, scores, n)
			if err != nil {
				return nil, err
			}
			for j, p := range preds {
				src := scores[p]
				for i := 0; i < n; i++ {
					proxy[i] += betas[j] * src[i]
				}
			}
		}

		for _, s := range succs {
			r := correlation(scores[c.Name], scores[s])
			src := scores[s]
			for i := 0; i < n; i++ {
				proxy[i] += r * src[i]
			}
		}

		m := mean(proxy)
		sd := sampleStdDev(proxy)
		if sd < minStdDev {
			return nil, errDegenerate
		}
		for i := range proxy {
			proxy[i] = (proxy[i] - m) / sd
		}
		proxies[c.Name] = proxy
	}
	return proxies, nil
}

// updateOuterWeights re-derives each construct's outer weights in reflective
// mode: each indicator is regressed on the construct's standardized proxy,
// which for standardized indicators reduces to the correlation. The weight
// vector is normalized to unit length and sign-anchored so the dominant
// indicator keeps a positive weight across iterations.
func updateOuterWeights(ds *Dataset, graph *StructuralGraph, proxies map[string][]float64) map[string][]float64 {
	weights := make(map[string][]float64, len(graph.Constructs))

	for _, c := range graph.Constructs {
		proxy := proxies[c.Name]
		w := make([]float64, len(c.Indicators))
		for k, ind := range c.Indicators {
			w[k] = correlation(ds.Column(ind), proxy)
		}

		norm := 0.0
		dominant := 0
		for k := range w {
			norm += w[k] * w[k]
			if math.Abs(w[k]) > math.Abs(w[dominant]) {
				dominant = k
			}
		}
		norm = math.Sqrt(norm)
		if norm < minStdDev {
			// Keep the block alive with equal weights rather than zeroing it.
			seed := 1.0 / math.Sqrt(float64(len(w)))
			for k := range w {
				w[k] = seed
			}
		} else {
			flip := 1.0
			if w[dominant] < 0 {
				flip = -1.0
			}
			for k := range w {
				w[k] = flip * w[k] / norm
			}
		}
		weights[c.Name] = w
	}
	return weights
}

// regressScores solves the OLS normal equations of target on the named
// predictor scores and returns the standardized coefficients.
func regressScores(target []float64, predictors []string, scores map[string][]float64, n int) ([]float64, error) {
	p := len(predictors)
	A := make([][]float64, p)
	for i := range A {
		A[i] = make([]float64, p)
	}
	b := make([]float64, p)
	for i := 0; i < p; i++ {
		xi := scores[predictors[i]]
		for j := i; j < p; j++ {
			xj := scores[predictors[j]]
			var dot float64
			for t := 0; t < n; t++ {
				dot += xi[t] * xj[t]
			}
			A[i][j] = dot
			A[j][i] = dot
		}
		var dot float64
		for t := 0; t < n; t++ {
			dot += xi[t] * target[t]
		}
		b[i] = dot
	}

	betas, ok := choleskySolve(A, b)
	if !ok {
		return nil, errDegenerate
	}
	return betas, nil
}

// estimatePaths runs ordinary least squares for every endogenous construct
// (composite score on the composite scores of its direct predecessors) and
// returns the standardized path coefficients in edge declaration order plus
// R-squared per endogenous construct.
func estimatePaths(graph *StructuralGraph, scores map[string][]float64, n int) ([]PathCoefficient, map[string]float64, error) {
	betaByEdge := make(map[Edge]float64, len(graph.Edges))
	rsq := make(map[string]float64)

	for _, c := range graph.Constructs {
		preds := graph.Predecessors(c.Name)
		if len(preds) == 0 {
			continue
		}

		target := scores[c.Name]
		betas, err := regressScores(target, preds, scores, n)
		if err != nil {
			return nil, nil, err
		}
		for j, p := range preds {
			betaByEdge[Edge{Source: p, Target: c.Name}] = betas[j]
		}

		// R^2 from residual sum of squares against the standardized target.
		var rss, tss float64
		for t := 0; t < n; t++ {
			fitted := 0.0
			for j, p := range preds {
				fitted += betas[j] * scores[p][t]
			}
			d := target[t] - fitted
			rss += d * d
			tss += target[t] * target[t]
		}
		if tss > 0 {
			rsq[c.Name] = 1 - rss/tss
		}
	}

	paths := make([]PathCoefficient, 0, len(graph.Edges))
	for _, e := range graph.Edges {
		paths = append(paths, PathCoefficient{Source: e.Source, Target: e.Target, Beta: betaByEdge[e]})
	}
	return paths, rsq, nil
}

// computeEffects decomposes every hypothesized path into direct, indirect,
// and total effects. Indirect effects enumerate all directed paths of at
// least two edges between the pair and sum the products of coefficients
// along each; parallel paths are summed, not averaged.
func computeEffects(graph *StructuralGraph, paths []PathCoefficient) []Effect {
	betaByEdge := make(map[Edge]float64, len(paths))
	for _, p := range paths {
		betaByEdge[Edge{Source: p.Source, Target: p.Target}] = p.Beta
	}

	effects := make([]Effect, 0, len(graph.Edges))
	for _, e := range graph.Edges {
		direct := betaByEdge[e]
		indirect := 0.0
		for _, trail := range graph.Paths(e.Source, e.Target) {
			if len(trail) <= 2 {
				continue // the direct edge itself
			}
			prod := 1.0
			for i := 0; i+1 < len(trail); i++ {
				prod *= betaByEdge[Edge{Source: trail[i], Target: trail[i+1]}]
			}
			indirect += prod
		}
		effects = append(effects, Effect{
			Source:   e.Source,
			Target:   e.Target,
			Direct:   direct,
			Indirect: indirect,
			Total:    direct + indirect,
		})
	}
	return effects
}
