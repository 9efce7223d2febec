package depgraph

import (
	"log/slog"
	"strings"

	"github.com/osland/kerneldeps/internal/kernel"
)

// Analyzer runs the base dependency analysis over a component manifest.
type Analyzer struct {
	opts   Options
	logger *slog.Logger
}

// New creates an analyzer with the given options.
func New(opts Options) *Analyzer {
	return &Analyzer{
		opts:   opts,
		logger: slog.Default(),
	}
}

// Analyze builds the dependency graph and runs the enabled analyses. The
// topological order is computed only when no cycles were found; with cycle
// detection disabled the order may be partial.
func (a *Analyzer) Analyze(components []kernel.Component) *Result {
	g := Build(components)
	result := &Result{
		Graph:               g,
		DuplicateComponents: g.Duplicates,
	}

	if len(g.Duplicates) > 0 {
		a.logger.Warn("duplicate component names in manifest",
			"names", g.Duplicates)
	}

	if a.opts.CheckMissing {
		result.MissingDependencies = missingDependencies(components, g)
	}

	if a.opts.DetectCycles {
		result.Cycles = dedupeCycles(detectCycles(g))
	}

	result.NoDependencies = noDependencies(g)
	result.DependencyCounts = dependencyCounts(g)

	if a.opts.SortTopologically && len(result.Cycles) == 0 {
		order, complete := g.TopologicalOrder()
		result.TopologicalOrder = order
		if !complete {
			a.logger.Warn("dependency graph contains cycles; topological order is partial",
				"ordered", len(order), "components", len(g.Names))
		}
	}

	return result
}

// missingDependencies returns the referenced names that are not components,
// deduplicated in first-seen order.
func missingDependencies(components []kernel.Component, g *Graph) []string {
	var missing []string
	seen := make(map[string]bool)
	for _, c := range components {
		for _, dep := range c.Dependencies {
			if g.HasComponent(dep) || seen[dep] {
				continue
			}
			seen[dep] = true
			missing = append(missing, dep)
		}
	}
	return missing
}

// noDependencies returns the components whose dependency list is empty, in
// input order.
func noDependencies(g *Graph) []string {
	var names []string
	for _, name := range g.Names {
		if len(g.Adjacency[name]) == 0 {
			names = append(names, name)
		}
	}
	return names
}

// dependencyCounts maps each component to the number of components that
// depend on it.
func dependencyCounts(g *Graph) map[string]int {
	counts := make(map[string]int, len(g.Names))
	for _, name := range g.Names {
		counts[name] = len(g.Reverse[name])
	}
	return counts
}

// cycleFrame is one level of the iterative depth-first traversal: a node
// and the index of the next dependency to examine.
type cycleFrame struct {
	name string
	next int
}

// detectCycles finds dependency cycles with an iterative depth-first
// search over an explicit frame stack. Components are visited in input
// order and dependency lists in declaration order; each reported cycle
// runs from the first occurrence of the re-encountered node through the
// node that closed the cycle.
func detectCycles(g *Graph) [][]string {
	var cycles [][]string
	visited := make(map[string]bool, len(g.Names))
	onPath := make(map[string]bool, len(g.Names))

	for _, root := range g.Names {
		if visited[root] {
			continue
		}

		visited[root] = true
		onPath[root] = true
		path := []string{root}
		stack := []cycleFrame{{name: root}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := g.Adjacency[top.name]

			if top.next >= len(deps) {
				onPath[top.name] = false
				path = path[:len(path)-1]
				stack = stack[:len(stack)-1]
				continue
			}

			dep := deps[top.next]
			top.next++

			switch {
			case !visited[dep]:
				visited[dep] = true
				onPath[dep] = true
				path = append(path, dep)
				stack = append(stack, cycleFrame{name: dep})
			case onPath[dep]:
				start := 0
				for i, name := range path {
					if name == dep {
						start = i
						break
					}
				}
				cycle := make([]string, len(path)-start)
				copy(cycle, path[start:])
				cycles = append(cycles, cycle)
			}
		}
	}
	return cycles
}

// dedupeCycles drops repeated reports of the same cycle. Two reports are
// the same cycle when one is a rotation of the other; the first-found
// rotation is kept.
func dedupeCycles(cycles [][]string) [][]string {
	if len(cycles) < 2 {
		return cycles
	}
	seen := make(map[string]bool, len(cycles))
	out := make([][]string, 0, len(cycles))
	for _, c := range cycles {
		key := cycleKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// cycleKey rotates the cycle so its smallest member comes first, giving a
// rotation-invariant identity.
func cycleKey(cycle []string) string {
	min := 0
	for i := 1; i < len(cycle); i++ {
		if cycle[i] < cycle[min] {
			min = i
		}
	}
	var b strings.Builder
	for i := range cycle {
		if i > 0 {
			b.WriteByte(0)
		}
		b.WriteString(cycle[(min+i)%len(cycle)])
	}
	return b.String()
}
