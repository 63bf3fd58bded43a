// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package sem

// Construct and indicator names of the built-in tourism impact model.
const (
	ConstructCompetitiveness = "Tourism_Competitiveness"
	ConstructSatisfaction    = "Satisfaction"
	ConstructEmployment      = "Tourism_Employment"
)

// DefaultTourismModel returns the built-in structural model for tourism
// impact on employment: competitiveness drives satisfaction and employment,
// and satisfaction mediates part of the employment effect.
//
//	Tourism_Competitiveness -> Satisfaction
//	Tourism_Competitiveness -> Tourism_Employment
//	Satisfaction            -> Tourism_Employment
func DefaultTourismModel() *StructuralGraph {
	return &StructuralGraph{
		Constructs: []Construct{
			{
				Name: ConstructCompetitiveness,
				Indicators: []string{
					"performance_economic_social_benefit",
					"room_occupancy_rate",
					"tourism_competitiveness_index",
				},
			},
			{
				Name: ConstructSatisfaction,
				Indicators: []string{
					"current_rank",
					"total_reviews",
					"total_facilities",
				},
			},
			{
				Name: ConstructEmployment,
				Indicators: []string{
					"tourism_employment",
				},
			},
		},
		Edges: []Edge{
			{Source: ConstructCompetitiveness, Target: ConstructSatisfaction},
			{Source: ConstructCompetitiveness, Target: ConstructEmployment},
			{Source: ConstructSatisfaction, Target: ConstructEmployment},
		},
	}
}
