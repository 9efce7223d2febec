package depgraph

import "github.com/osland/kerneldeps/internal/kernel"

// Build constructs the dependency graph for a component set. Build is total:
// it accepts any input, including dependencies on names that are not
// components and repeated component names, and records both as findings on
// the graph rather than failing.
func Build(components []kernel.Component) *Graph {
	g := &Graph{
		Adjacency:      make(map[string][]string, len(components)),
		Reverse:        make(map[string][]string),
		ComponentCount: len(components),
	}

	seen := make(map[string]bool, len(components))
	dup := make(map[string]bool)
	for _, c := range components {
		if seen[c.Name] {
			if !dup[c.Name] {
				dup[c.Name] = true
				g.Duplicates = append(g.Duplicates, c.Name)
			}
		} else {
			seen[c.Name] = true
			g.Names = append(g.Names, c.Name)
		}

		deps := make([]string, len(c.Dependencies))
		copy(deps, c.Dependencies)
		g.Adjacency[c.Name] = deps

		for _, dep := range c.Dependencies {
			g.Reverse[dep] = append(g.Reverse[dep], c.Name)
		}
	}
	return g
}

// HasComponent reports whether name is a component of the graph.
func (g *Graph) HasComponent(name string) bool {
	_, ok := g.Adjacency[name]
	return ok
}

// Dependencies returns the dependency list of a component, or nil for
// unknown names.
func (g *Graph) Dependencies(name string) []string {
	return g.Adjacency[name]
}

// Dependents returns the components that depend on name. The name does not
// have to be a component itself.
func (g *Graph) Dependents(name string) []string {
	return g.Reverse[name]
}

// TopologicalOrder sorts components so that every component appears before
// all of its dependencies: a component nothing depends on comes first, a
// foundational component everything depends on comes last. Kahn's
// algorithm over the reverse edge counts; the queue is seeded in component
// input order. When the graph contains cycles the returned order covers
// only the acyclic part and complete is false.
func (g *Graph) TopologicalOrder() (order []string, complete bool) {
	inDegree := make(map[string]int, len(g.Names))
	for _, name := range g.Names {
		inDegree[name] = 0
	}
	for _, deps := range g.Adjacency {
		for _, dep := range deps {
			// Names that are not components carry no in-degree.
			if _, ok := inDegree[dep]; ok {
				inDegree[dep]++
			}
		}
	}

	queue := make([]string, 0, len(g.Names))
	for _, name := range g.Names {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	order = make([]string, 0, len(g.Names))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)

		for _, dep := range g.Adjacency[name] {
			if _, ok := inDegree[dep]; !ok {
				continue
			}
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	return order, len(order) == len(g.Names)
}
