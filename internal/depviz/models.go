package depviz

import "github.com/osland/kerneldeps/internal/kernel"

// Default analysis thresholds.
const (
	DefaultMaxStrength   = 10.0
	DefaultMinVisibility = 0.5
)

// Options tune the insight analysis.
type Options struct {
	// MaxStrength is the strength that maps to a visual weight of 1.0.
	MaxStrength float64
	// MinVisibility is the weight below which an edge starts out hidden.
	MinVisibility float64
	DetectClusters bool
	DetectCycles   bool
}

// DefaultOptions enables cycle and cluster detection with the standard
// thresholds.
func DefaultOptions() Options {
	return Options{
		MaxStrength:    DefaultMaxStrength,
		MinVisibility:  DefaultMinVisibility,
		DetectClusters: true,
		DetectCycles:   true,
	}
}

// EdgeState is one dependency edge annotated with presentation state.
type EdgeState struct {
	Edge kernel.Dependency `json:"edge"`

	// VisualWeight is the edge strength normalized by MaxStrength. It is
	// not clamped: an edge stronger than MaxStrength weighs above 1.0.
	VisualWeight float64 `json:"visual_weight"`
	Highlighted  bool    `json:"highlighted"`
	Visible      bool    `json:"visible"`
}

// Cycle is a dependency loop found in the edge list.
type Cycle struct {
	Components []string `json:"components"`
	Length     int      `json:"length"`
}

// Cluster groups a component with the targets of its strong dependencies.
type Cluster struct {
	ID         string   `json:"id"`
	Components []string `json:"components"`
	Size       float64  `json:"size"`
}

// Analysis is the full insight result for one kernel structure.
type Analysis struct {
	Dependencies []EdgeState `json:"dependencies"`
	Cycles       []Cycle     `json:"cycles"`

	// Strength maps source component to target to accumulated strength,
	// one point per edge occurrence.
	Strength map[string]map[string]float64 `json:"dependency_strength"`

	// Centrality holds the betweenness centrality score of every
	// component.
	Centrality map[string]float64 `json:"centrality"`

	Clusters []Cluster `json:"clusters"`
}
