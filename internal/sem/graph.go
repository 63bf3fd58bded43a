// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

package sem

// Construct declares one latent variable and its ordered indicator block.
type Construct struct {
	Name       string   `json:"name"`
	Indicators []string `json:"indicators"`
}

// Edge is one hypothesized causal path between two constructs.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// StructuralGraph is the directed graph over constructs that defines the
// inner model. PLS estimation requires it to be acyclic and every edge
// endpoint to reference a declared construct; Validate enforces both.
//
// The graph is supplied by the caller and treated as read-only for the
// lifetime of a run.
type StructuralGraph struct {
	Constructs []Construct `json:"constructs"`
	Edges      []Edge      `json:"edges"`
}

// Validate checks the structural model before any numeric work.
// It returns a *ConfigurationError describing the first problem found.
func (g *StructuralGraph) Validate() error {
	if len(g.Constructs) == 0 {
		return &ConfigurationError{Reason: "model declares no constructs"}
	}

	declared := make(map[string]bool, len(g.Constructs))
	for _, c := range g.Constructs {
		if c.Name == "" {
			return &ConfigurationError{Reason: "construct with empty name"}
		}
		if declared[c.Name] {
			return &ConfigurationError{Construct: c.Name, Reason: "construct declared twice"}
		}
		declared[c.Name] = true

		if len(c.Indicators) == 0 {
			return &ConfigurationError{Construct: c.Name, Reason: "construct has no indicators"}
		}
		seen := make(map[string]bool, len(c.Indicators))
		for _, ind := range c.Indicators {
			if ind == "" {
				return &ConfigurationError{Construct: c.Name, Reason: "indicator with empty name"}
			}
			if seen[ind] {
				return &ConfigurationError{Construct: c.Name, Reason: "indicator " + ind + " listed twice"}
			}
			seen[ind] = true
		}
	}

	edgeSeen := make(map[Edge]bool, len(g.Edges))
	for _, e := range g.Edges {
		if !declared[e.Source] {
			return &ConfigurationError{Construct: e.Source, Reason: "edge references undeclared construct"}
		}
		if !declared[e.Target] {
			return &ConfigurationError{Construct: e.Target, Reason: "edge references undeclared construct"}
		}
		if e.Source == e.Target {
			return &ConfigurationError{Construct: e.Source, Reason: "self-referencing edge"}
		}
		if edgeSeen[e] {
			return &ConfigurationError{Construct: e.Source, Reason: "duplicate edge to " + e.Target}
		}
		edgeSeen[e] = true
	}

	if cyclic, name := g.findCycle(); cyclic {
		return &ConfigurationError{Construct: name, Reason: "structural model contains a cycle (PLS requires a recursive model)"}
	}
	return nil
}

// findCycle runs a three-color depth-first search over the construct graph.
// It returns true and a construct on the cycle when one exists.
func (g *StructuralGraph) findCycle() (bool, string) {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current DFS stack
		black = 2 // fully explored
	)
	color := make(map[string]int, len(g.Constructs))
	adj := g.adjacency()

	var visit func(string) (bool, string)
	visit = func(node string) (bool, string) {
		color[node] = gray
		for _, next := range adj[node] {
			switch color[next] {
			case gray:
				return true, next
			case white:
				if found, name := visit(next); found {
					return true, name
				}
			}
		}
		color[node] = black
		return false, ""
	}

	for _, c := range g.Constructs {
		if color[c.Name] == white {
			if found, name := visit(c.Name); found {
				return true, name
			}
		}
	}
	return false, ""
}

// adjacency returns the successor lists keyed by construct name.
func (g *StructuralGraph) adjacency() map[string][]string {
	adj := make(map[string][]string, len(g.Constructs))
	for _, e := range g.Edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}
	return adj
}

// Predecessors returns the sources of all edges pointing at name,
// in declaration order.
func (g *StructuralGraph) Predecessors(name string) []string {
	var preds []string
	for _, e := range g.Edges {
		if e.Target == name {
			preds = append(preds, e.Source)
		}
	}
	return preds
}

// Successors returns the targets of all edges leaving name,
// in declaration order.
func (g *StructuralGraph) Successors(name string) []string {
	var succs []string
	for _, e := range g.Edges {
		if e.Source == name {
			succs = append(succs, e.Target)
		}
	}
	return succs
}

// HasEdge reports whether the direct path source->target is hypothesized.
func (g *StructuralGraph) HasEdge(source, target string) bool {
	for _, e := range g.Edges {
		if e.Source == source && e.Target == target {
			return true
		}
	}
	return false
}

// RequiredIndicators returns every indicator the model needs, deduplicated,
// in construct declaration order. Indicators shared between constructs
// appear once.
func (g *StructuralGraph) RequiredIndicators() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range g.Constructs {
		for _, ind := range c.Indicators {
			if !seen[ind] {
				seen[ind] = true
				out = append(out, ind)
			}
		}
	}
	return out
}

// LargestBlock returns the size of the biggest indicator block, used for the
// 10-observations-per-indicator sample size rule.
func (g *StructuralGraph) LargestBlock() int {
	largest := 0
	for _, c := range g.Constructs {
		if len(c.Indicators) > largest {
			largest = len(c.Indicators)
		}
	}
	return largest
}

// Paths enumerates every directed path from source to target as construct
// name sequences (inclusive of both endpoints). On a validated acyclic
// graph this terminates; parallel paths are all returned.
func (g *StructuralGraph) Paths(source, target string) [][]string {
	adj := g.adjacency()
	var out [][]string
	var walk func(node string, trail []string)
	walk = func(node string, trail []string) {
		trail = append(trail, node)
		if node == target {
			path := make([]string, len(trail))
			copy(path, trail)
			out = append(out, path)
			return
		}
		for _, next := range adj[node] {
			walk(next, trail)
		}
	}
	walk(source, nil)
	return out
}
