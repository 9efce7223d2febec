// Package kernel defines the component manifest that the analysis layers
// consume: kernel components, their declared dependencies, and the
// structure snapshot produced by the extraction pipeline.
package kernel

// Component is a single kernel component: a named unit with the ordered
// list of component names it depends on.
type Component struct {
	Name         string        `json:"name"`
	Type         ComponentType `json:"component_type,omitempty"`
	Dependencies []string      `json:"dependencies"`
	Description  string        `json:"description,omitempty"`
	SourceFiles  []string      `json:"source_files,omitempty"`
}

// ComponentType classifies kernel components.
type ComponentType string

const (
	TypeDriver         ComponentType = "driver"
	TypeFileSystem     ComponentType = "filesystem"
	TypeNetwork        ComponentType = "network"
	TypeMemory         ComponentType = "memory"
	TypeProcess        ComponentType = "process"
	TypeSecurity       ComponentType = "security"
	TypeVirtualization ComponentType = "virtualization"
	TypeDeviceTree     ComponentType = "devicetree"
	TypeModule         ComponentType = "module"
	TypeOther          ComponentType = "other"
)

// Dependency is a directed edge between two components. The same ordered
// pair may appear more than once; repetition is meaningful to the
// strength analysis.
type Dependency struct {
	From  string         `json:"from"`
	To    string         `json:"to"`
	Type  DependencyType `json:"type,omitempty"`
	Count int            `json:"count,omitempty"`
}

// DependencyType classifies dependency edges.
type DependencyType string

const (
	DepCall    DependencyType = "call"
	DepData    DependencyType = "data"
	DepInclude DependencyType = "include"
	DepConfig  DependencyType = "config"
	DepOther   DependencyType = "other"
)

// Structure is a named snapshot of an extracted kernel: its components and,
// optionally, an explicit dependency edge list. When the edge list is empty
// the edges are derived from the components' dependency declarations.
type Structure struct {
	Name         string       `json:"name,omitempty"`
	Version      string       `json:"version,omitempty"`
	Components   []Component  `json:"components"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
}

// Edges returns the dependency edge list for the structure. Explicit edges
// are returned as given; otherwise one edge per declared dependency is
// derived, in declaration order.
func (s *Structure) Edges() []Dependency {
	if len(s.Dependencies) > 0 {
		return s.Dependencies
	}
	var edges []Dependency
	for _, c := range s.Components {
		for _, dep := range c.Dependencies {
			edges = append(edges, Dependency{
				From:  c.Name,
				To:    dep,
				Type:  DepOther,
				Count: 1,
			})
		}
	}
	return edges
}
