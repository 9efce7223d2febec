// Package depviz computes insight data over a kernel structure: per-edge
// strengths and visibility, dependency cycles, betweenness centrality and
// clusters of strongly coupled components.
package depviz

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/osland/kerneldeps/internal/kernel"
)

// strongFraction of MaxStrength marks a dependency strong enough to seed
// a cluster.
const strongFraction = 0.7

// Analyzer runs the insight analysis.
type Analyzer struct {
	opts   Options
	logger *slog.Logger
}

// New creates an analyzer. A non-positive MaxStrength falls back to
// DefaultMaxStrength so weight normalization stays defined.
func New(opts Options) *Analyzer {
	if opts.MaxStrength <= 0 {
		opts.MaxStrength = DefaultMaxStrength
	}
	return &Analyzer{
		opts:   opts,
		logger: slog.Default(),
	}
}

// Analyze computes strengths, visibility, cycles, centrality and clusters
// for the structure. Edge order in the result follows the input.
func (a *Analyzer) Analyze(st *kernel.Structure) *Analysis {
	edges := st.Edges()

	strength := make(map[string]map[string]float64)
	for _, e := range edges {
		m := strength[e.From]
		if m == nil {
			m = make(map[string]float64)
			strength[e.From] = m
		}
		m[e.To]++
	}

	deps := make([]EdgeState, 0, len(edges))
	for _, e := range edges {
		w := strength[e.From][e.To] / a.opts.MaxStrength
		deps = append(deps, EdgeState{
			Edge:         e,
			VisualWeight: w,
			Visible:      w >= a.opts.MinVisibility,
		})
	}

	analysis := &Analysis{
		Dependencies: deps,
		Strength:     strength,
		Centrality:   centrality(st.Components, edges),
	}
	if a.opts.DetectCycles {
		analysis.Cycles = detectCycles(edges)
	}
	if a.opts.DetectClusters {
		analysis.Clusters = detectClusters(st.Components, strength, a.opts.MaxStrength)
	}

	a.logger.Debug("analyzed kernel structure",
		"components", len(st.Components),
		"dependencies", len(edges),
		"cycles", len(analysis.Cycles),
		"clusters", len(analysis.Clusters))
	return analysis
}

type cycleFrame struct {
	name string
	next int
}

// detectCycles finds dependency loops in the edge list. Roots are taken in
// first-appearance order over edge endpoints; each cycle runs from the
// first occurrence of the re-encountered node to the node closing the loop.
func detectCycles(edges []kernel.Dependency) []Cycle {
	adjacency := make(map[string][]string)
	var nodes []string
	seen := make(map[string]bool)
	note := func(name string) {
		if !seen[name] {
			seen[name] = true
			nodes = append(nodes, name)
		}
	}
	for _, e := range edges {
		adjacency[e.From] = append(adjacency[e.From], e.To)
		note(e.From)
		note(e.To)
	}

	var cycles []Cycle
	visited := make(map[string]bool, len(nodes))
	onPath := make(map[string]bool, len(nodes))

	for _, root := range nodes {
		if visited[root] {
			continue
		}

		visited[root] = true
		onPath[root] = true
		path := []string{root}
		stack := []cycleFrame{{name: root}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			targets := adjacency[top.name]

			if top.next >= len(targets) {
				onPath[top.name] = false
				path = path[:len(path)-1]
				stack = stack[:len(stack)-1]
				continue
			}

			target := targets[top.next]
			top.next++

			switch {
			case !visited[target]:
				visited[target] = true
				onPath[target] = true
				path = append(path, target)
				stack = append(stack, cycleFrame{name: target})
			case onPath[target]:
				start := 0
				for i, name := range path {
					if name == target {
						start = i
						break
					}
				}
				members := make([]string, len(path)-start)
				copy(members, path[start:])
				cycles = append(cycles, Cycle{Components: members, Length: len(members)})
			}
		}
	}
	return cycles
}

// detectClusters groups each unassigned component with the targets of its
// strong dependencies. Components seed clusters in input order; a seed
// whose strong targets are all taken still forms a cluster of its own.
func detectClusters(components []kernel.Component, strength map[string]map[string]float64, maxStrength float64) []Cluster {
	threshold := maxStrength * strongFraction
	var clusters []Cluster
	assigned := make(map[string]bool)

	for _, c := range components {
		if assigned[c.Name] {
			continue
		}

		var strong []string
		for name, s := range strength[c.Name] {
			if s >= threshold {
				strong = append(strong, name)
			}
		}
		if len(strong) == 0 {
			continue
		}
		sort.Strings(strong)

		members := []string{c.Name}
		assigned[c.Name] = true
		for _, target := range strong {
			if assigned[target] {
				continue
			}
			assigned[target] = true
			members = append(members, target)
		}

		clusters = append(clusters, Cluster{
			ID:         fmt.Sprintf("cluster_%d", len(clusters)),
			Components: members,
			Size:       float64(len(members)) * 100.0,
		})
	}
	return clusters
}
