package depviz

import (
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/osland/kerneldeps/internal/kernel"
)

// centrality computes betweenness centrality for every component over the
// directed dependency graph. Edges touching names that are not components
// are ignored, as are self references; parallel edges collapse into one.
func centrality(components []kernel.Component, edges []kernel.Dependency) map[string]float64 {
	g := simple.NewDirectedGraph()
	ids := make(map[string]int64, len(components))
	for _, c := range components {
		if _, ok := ids[c.Name]; ok {
			continue
		}
		n := g.NewNode()
		g.AddNode(n)
		ids[c.Name] = n.ID()
	}

	for _, e := range edges {
		from, okFrom := ids[e.From]
		to, okTo := ids[e.To]
		if !okFrom || !okTo || from == to {
			continue
		}
		g.SetEdge(g.NewEdge(g.Node(from), g.Node(to)))
	}

	scores := network.Betweenness(g)
	out := make(map[string]float64, len(ids))
	for name, id := range ids {
		out[name] = scores[id]
	}
	return out
}
