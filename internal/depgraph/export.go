package depgraph

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatReport renders the analysis result as a plain-text report.
func FormatReport(r *Result) string {
	var b strings.Builder
	b.WriteString("Dependency Analysis Report\n")
	b.WriteString("================================\n\n")

	b.WriteString(fmt.Sprintf("Total Components: %d\n\n", r.Graph.ComponentCount))

	b.WriteString("Components with no dependencies:\n")
	if len(r.NoDependencies) == 0 {
		b.WriteString("  None\n")
	} else {
		for _, name := range r.NoDependencies {
			b.WriteString(fmt.Sprintf("  - %s\n", name))
		}
	}
	b.WriteString("\n")

	b.WriteString("Components with missing dependencies:\n")
	if len(r.MissingDependencies) == 0 {
		b.WriteString("  None\n")
	} else {
		for _, name := range r.MissingDependencies {
			b.WriteString(fmt.Sprintf("  - %s\n", name))
		}
	}
	b.WriteString("\n")

	b.WriteString("Dependency counts:\n")
	for _, name := range r.Graph.Names {
		b.WriteString(fmt.Sprintf("  %s: %d dependencies\n", name, r.DependencyCounts[name]))
	}
	b.WriteString("\n")

	b.WriteString("Topological order:\n")
	if len(r.TopologicalOrder) == 0 {
		b.WriteString("  Not available (cycles detected)\n")
	} else {
		for i, name := range r.TopologicalOrder {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, name))
		}
	}
	b.WriteString("\n")

	b.WriteString("Cycles detected:\n")
	if len(r.Cycles) == 0 {
		b.WriteString("  None\n")
	} else {
		for i, cycle := range r.Cycles {
			b.WriteString(fmt.Sprintf("  Cycle %d: %s\n", i+1, strings.Join(cycle, " -> ")))
		}
	}

	return b.String()
}

// ExportDOT renders the graph in Graphviz DOT format. Nodes and edges are
// emitted in component input order.
func ExportDOT(g *Graph) string {
	var b strings.Builder
	b.WriteString("digraph DependencyGraph {\n")
	b.WriteString("    rankdir=LR;\n")
	b.WriteString("    node [shape=box, style=filled, fillcolor=lightblue];\n")

	for _, name := range g.Names {
		b.WriteString(fmt.Sprintf("    %q [label=%q];\n", name, name))
	}

	for _, name := range g.Names {
		for _, dep := range g.Adjacency[name] {
			b.WriteString(fmt.Sprintf("    %q -> %q;\n", name, dep))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// ExportMermaid renders the graph as a Mermaid flowchart. Edges belonging
// to a detected cycle are drawn thick.
func ExportMermaid(r *Result) string {
	cyclic := make(map[[2]string]bool)
	for _, cycle := range r.Cycles {
		for i, from := range cycle {
			to := cycle[(i+1)%len(cycle)]
			cyclic[[2]string{from, to}] = true
		}
	}

	var b strings.Builder
	b.WriteString("flowchart LR\n")
	for _, name := range r.Graph.Names {
		b.WriteString(fmt.Sprintf("  %s[%q]\n", mermaidID(name), name))
	}
	for _, name := range r.Graph.Names {
		for _, dep := range r.Graph.Adjacency[name] {
			arrow := "-->"
			if cyclic[[2]string{name, dep}] {
				arrow = "==>"
			}
			b.WriteString(fmt.Sprintf("  %s %s %s\n", mermaidID(name), arrow, mermaidID(dep)))
		}
	}
	return b.String()
}

// ExportJSON serializes the full analysis result.
func ExportJSON(r *Result) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func mermaidID(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, s)
}
