package gate

import (
	"fmt"
	"strings"
)

// CycleGate fails when the analysis found dependency cycles.
type CycleGate struct {
	severity GateSeverity
}

func NewCycleGate(severity GateSeverity) *CycleGate {
	return &CycleGate{severity: severity}
}

func (g *CycleGate) Name() string           { return "cycles" }
func (g *CycleGate) Severity() GateSeverity { return g.severity }
func (g *CycleGate) Evaluate(ctx *EvalContext) (*GateResult, error) {
	r := &GateResult{
		Name:     g.Name(),
		Severity: g.severity,
	}
	cycles := ctx.Result.Cycles
	if len(cycles) == 0 {
		r.Status = GatePassed
		r.Score = 1.0
		r.Message = "No dependency cycles"
	} else {
		r.Status = GateFailed
		r.Score = 0.0
		r.Message = fmt.Sprintf("Found %d dependency cycles", len(cycles))
		for _, cycle := range cycles {
			r.Details = append(r.Details, strings.Join(cycle, " -> "))
		}
	}
	return r, nil
}

// MissingGate fails when components depend on names that are not components.
type MissingGate struct {
	severity GateSeverity
}

func NewMissingGate(severity GateSeverity) *MissingGate {
	return &MissingGate{severity: severity}
}

func (g *MissingGate) Name() string           { return "missing_dependencies" }
func (g *MissingGate) Severity() GateSeverity { return g.severity }
func (g *MissingGate) Evaluate(ctx *EvalContext) (*GateResult, error) {
	r := &GateResult{
		Name:     g.Name(),
		Severity: g.severity,
	}
	missing := ctx.Result.MissingDependencies
	if len(missing) == 0 {
		r.Status = GatePassed
		r.Score = 1.0
		r.Message = "All dependencies resolve to components"
	} else {
		r.Status = GateFailed
		r.Score = 0.0
		r.Message = fmt.Sprintf("Found %d unresolved dependencies", len(missing))
		r.Details = missing
	}
	return r, nil
}

// DuplicateGate fails when the manifest declares a component name more
// than once.
type DuplicateGate struct {
	severity GateSeverity
}

func NewDuplicateGate(severity GateSeverity) *DuplicateGate {
	return &DuplicateGate{severity: severity}
}

func (g *DuplicateGate) Name() string           { return "duplicates" }
func (g *DuplicateGate) Severity() GateSeverity { return g.severity }
func (g *DuplicateGate) Evaluate(ctx *EvalContext) (*GateResult, error) {
	r := &GateResult{
		Name:     g.Name(),
		Severity: g.severity,
	}
	dups := ctx.Result.DuplicateComponents
	if len(dups) == 0 {
		r.Status = GatePassed
		r.Score = 1.0
		r.Message = "No duplicate component names"
	} else {
		r.Status = GateFailed
		r.Score = 0.0
		r.Message = fmt.Sprintf("Found %d duplicate component names", len(dups))
		r.Details = dups
	}
	return r, nil
}

// DependentLimitGate fails when a component has more dependents than the
// configured limit allows.
type DependentLimitGate struct {
	MaxDependents int
	severity      GateSeverity
}

func NewDependentLimitGate(maxDependents int, severity GateSeverity) *DependentLimitGate {
	return &DependentLimitGate{MaxDependents: maxDependents, severity: severity}
}

func (g *DependentLimitGate) Name() string           { return "max_dependents" }
func (g *DependentLimitGate) Severity() GateSeverity { return g.severity }
func (g *DependentLimitGate) Evaluate(ctx *EvalContext) (*GateResult, error) {
	r := &GateResult{
		Name:     g.Name(),
		Severity: g.severity,
	}

	if g.MaxDependents <= 0 {
		r.Status = GateSkipped
		r.Message = "No dependent limit configured"
		return r, nil
	}
	r.Threshold = float64(g.MaxDependents)

	widest := 0
	var over []string
	for _, name := range ctx.Result.Graph.Names {
		count := ctx.Result.DependencyCounts[name]
		if count > widest {
			widest = count
		}
		if count > g.MaxDependents {
			over = append(over, fmt.Sprintf("%s: %d dependents", name, count))
		}
	}

	usage := float64(widest) / float64(g.MaxDependents)
	r.Score = 1.0 - usage
	if r.Score < 0 {
		r.Score = 0
	}

	if len(over) == 0 {
		r.Status = GatePassed
		r.Message = fmt.Sprintf("Highest dependent count %d within limit %d", widest, g.MaxDependents)
	} else {
		r.Status = GateFailed
		r.Message = fmt.Sprintf("%d components exceed the dependent limit %d", len(over), g.MaxDependents)
		r.Details = over
	}
	return r, nil
}
