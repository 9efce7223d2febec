package depgraph

// Graph is the dependency graph built from a component manifest: forward
// adjacency from each component to its declared dependencies and reverse
// adjacency from each referenced name to the components depending on it.
// Reverse entries exist even for names that are not components themselves.
type Graph struct {
	// Names holds the unique component names in first-appearance order.
	// All deterministic iteration in this package follows it.
	Names []string `json:"names"`

	// Adjacency maps a component to its dependency list. When a name is
	// declared more than once the last declaration wins.
	Adjacency map[string][]string `json:"adjacency"`

	// Reverse maps a referenced name to the components that depend on it.
	// Every declaration contributes, including repeated ones.
	Reverse map[string][]string `json:"reverse_adjacency"`

	// Duplicates lists names declared more than once, in the order the
	// repetition was first seen.
	Duplicates []string `json:"duplicates,omitempty"`

	// ComponentCount is the number of manifest entries, duplicates included.
	ComponentCount int `json:"component_count"`
}

// Result is the outcome of a dependency analysis run. Structural findings
// (cycles, missing dependencies, duplicates) are data, not errors.
type Result struct {
	Graph               *Graph         `json:"graph"`
	Cycles              [][]string     `json:"cycles"`
	NoDependencies      []string       `json:"components_with_no_dependencies"`
	MissingDependencies []string       `json:"components_with_missing_dependencies"`
	DuplicateComponents []string       `json:"duplicate_components,omitempty"`
	TopologicalOrder    []string       `json:"topological_order"`
	DependencyCounts    map[string]int `json:"dependency_counts"`
}

// Options select which analyses run. The zero value disables everything;
// use DefaultOptions for the standard full run.
type Options struct {
	DetectCycles      bool
	SortTopologically bool
	CheckMissing      bool
}

// DefaultOptions enables every analysis.
func DefaultOptions() Options {
	return Options{
		DetectCycles:      true,
		SortTopologically: true,
		CheckMissing:      true,
	}
}
