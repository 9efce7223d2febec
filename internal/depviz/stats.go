package depviz

import "github.com/osland/kerneldeps/internal/kernel"

// Statistics summarizes an insight analysis.
type Statistics struct {
	TotalDependencies  int `json:"total_dependencies"`
	UniqueDependencies int `json:"unique_dependencies"`
	CycleCount         int `json:"cycle_count"`
	ClusterCount       int `json:"cluster_count"`

	// AverageWeight and MaxWeight aggregate the normalized visual
	// weights, not the raw strengths.
	AverageWeight float64 `json:"average_weight"`
	MaxWeight     float64 `json:"max_weight"`

	// MostCentral is the component with the highest centrality score,
	// lexicographically smallest on ties. Empty when there are no
	// components.
	MostCentral string `json:"most_central_component,omitempty"`

	ByType map[kernel.DependencyType]int `json:"dependencies_by_type"`
}

// BuildStatistics aggregates the analysis into summary numbers.
func BuildStatistics(a *Analysis) Statistics {
	stats := Statistics{
		TotalDependencies: len(a.Dependencies),
		CycleCount:        len(a.Cycles),
		ClusterCount:      len(a.Clusters),
		ByType:            make(map[kernel.DependencyType]int),
	}

	unique := make(map[[2]string]bool, len(a.Dependencies))
	var total float64
	for _, d := range a.Dependencies {
		unique[[2]string{d.Edge.From, d.Edge.To}] = true
		total += d.VisualWeight
		if d.VisualWeight > stats.MaxWeight {
			stats.MaxWeight = d.VisualWeight
		}
		stats.ByType[d.Edge.Type]++
	}
	stats.UniqueDependencies = len(unique)
	if len(a.Dependencies) > 0 {
		stats.AverageWeight = total / float64(len(a.Dependencies))
	}

	first := true
	var best float64
	for name, score := range a.Centrality {
		switch {
		case first:
			first = false
			best = score
			stats.MostCentral = name
		case score > best:
			best = score
			stats.MostCentral = name
		case score == best && name < stats.MostCentral:
			stats.MostCentral = name
		}
	}

	return stats
}
