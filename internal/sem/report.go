// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package sem

import (
	"time"

	"github.com/google/uuid"

	"github.com/viametrica/core/internal/models"
)

// assembleReport merges the run's final state into one immutable
// models.ModelReport. Pure aggregation: no further computation happens here
// beyond copying values into the stable serialization shape.
func assembleReport(
	graph *StructuralGraph,
	ds *Dataset,
	it *innerResult,
	paths []PathCoefficient,
	rsq map[string]float64,
	effects []Effect,
	loadings map[string][]float64,
	boot *bootstrapOutcome,
	reliability models.ReliabilityRecord,
	region, period string,
	cfg Config,
) *models.ModelReport {
	report := &models.ModelReport{
		SchemaVersion: models.ReportSchemaVersion,
		RunID:         uuid.NewString(),
		Region:        region,
		Period:        period,
		GeneratedAt:   time.Now().UTC(),
		Converged:     it.converged,
		Iterations:    it.iterations,
		Residual:      it.residual,
		Reliability:   reliability,
		Config: models.ConfigEcho{
			MinSampleSize:        cfg.MinSampleSize,
			MinCoverage:          cfg.MinCoverage,
			BootstrapSamples:     cfg.Bootstrap.Samples,
			SignificanceLevel:    cfg.Bootstrap.SignificanceLevel,
			ConfidenceLevel:      cfg.Bootstrap.ConfidenceLevel,
			ConvergenceTolerance: cfg.ConvergenceTolerance,
			MaxIterations:        cfg.MaxIterations,
			WeightingScheme:      "path",
			ImputationPolicy:     "median",
		},
		Bootstrap: models.BootstrapOutcome{
			Samples:           cfg.Bootstrap.Samples,
			Completed:         boot.completed,
			Excluded:          boot.excluded,
			Reliable:          boot.reliable,
			Partial:           boot.partial,
			SEDefined:         boot.seDefined,
			Seed:              boot.seed,
			SeedExplicit:      boot.seedExplicit,
			ConfidenceLevel:   cfg.Bootstrap.ConfidenceLevel,
			SignificanceLevel: cfg.Bootstrap.SignificanceLevel,
		},
	}

	for _, c := range graph.Constructs {
		cr := models.ConstructResult{Name: c.Name}
		w := it.weights[c.Name]
		lam := loadings[c.Name]
		for k, ind := range c.Indicators {
			stats := ds.Stats[ind]
			cr.Indicators = append(cr.Indicators, models.IndicatorResult{
				Name:         ind,
				Weight:       w[k],
				Loading:      lam[k],
				Mean:         stats.Mean,
				StdDev:       stats.StdDev,
				ImputedCount: stats.Imputed,
			})
		}
		if r2, ok := rsq[c.Name]; ok {
			v := r2
			cr.RSquared = &v
		}
		report.Constructs = append(report.Constructs, cr)
	}

	effectByEdge := make(map[Edge]Effect, len(effects))
	for _, e := range effects {
		effectByEdge[Edge{Source: e.Source, Target: e.Target}] = e
	}

	for _, p := range paths {
		edge := Edge{Source: p.Source, Target: p.Target}
		est := models.PathEstimate{
			Source: p.Source,
			Target: p.Target,
			Beta:   p.Beta,
		}
		if eff, ok := effectByEdge[edge]; ok {
			est.DirectEffect = eff.Direct
			est.IndirectEffect = eff.Indirect
			est.TotalEffect = eff.Total
		}
		if iv, ok := boot.intervals[edge]; ok && iv.defined {
			est.BootstrapMean = ptr(iv.mean)
			est.SE = ptr(iv.se)
			est.CILow = ptr(iv.ciLow)
			est.CIHigh = ptr(iv.ciHigh)
			est.TStat = ptr(iv.tStat)
			est.Significant = iv.significant
		}
		report.Paths = append(report.Paths, est)
	}

	return report
}

func ptr(v float64) *float64 { return &v }
