package vector

import (
	"github.com/osland/kerneldeps/internal/depgraph"
	"github.com/osland/kerneldeps/internal/depviz"
	"github.com/osland/kerneldeps/internal/kernel"
)

// ProfileDim is the length of every profile vector.
const ProfileDim = 8

// BuildProfiles derives one fixed-length feature vector per component from
// the analysis results: dependency and dependent counts, centrality,
// aggregate strengths, cycle and cluster membership and the number of
// unresolved dependencies. Components similar in structure end up close in
// profile space.
func BuildProfiles(st *kernel.Structure, result *depgraph.Result, analysis *depviz.Analysis) []Document {
	inCycle := make(map[string]bool)
	for _, cycle := range analysis.Cycles {
		for _, name := range cycle.Components {
			inCycle[name] = true
		}
	}
	clustered := make(map[string]bool)
	for _, cluster := range analysis.Clusters {
		for _, name := range cluster.Components {
			clustered[name] = true
		}
	}
	missing := make(map[string]bool)
	for _, name := range result.MissingDependencies {
		missing[name] = true
	}
	types := make(map[string]kernel.ComponentType, len(st.Components))
	for _, c := range st.Components {
		types[c.Name] = c.Type
	}

	docs := make([]Document, 0, len(result.Graph.Names))
	for _, name := range result.Graph.Names {
		deps := result.Graph.Adjacency[name]

		var totalStrength, maxStrength float64
		for _, s := range analysis.Strength[name] {
			totalStrength += s
			if s > maxStrength {
				maxStrength = s
			}
		}

		unresolved := 0
		for _, dep := range deps {
			if missing[dep] {
				unresolved++
			}
		}

		docs = append(docs, Document{
			Component: name,
			Vector: []float32{
				float32(len(deps)),
				float32(len(result.Graph.Reverse[name])),
				float32(analysis.Centrality[name]),
				float32(totalStrength),
				float32(maxStrength),
				boolFeature(inCycle[name]),
				boolFeature(clustered[name]),
				float32(unresolved),
			},
			Metadata: map[string]string{
				"structure": st.Name,
				"type":      string(types[name]),
			},
		})
	}
	return docs
}

// ProfileFor returns the profile of a single component from a built set.
func ProfileFor(docs []Document, component string) (Document, bool) {
	for _, d := range docs {
		if d.Component == component {
			return d, true
		}
	}
	return Document{}, false
}

func boolFeature(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
