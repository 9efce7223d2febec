package gate

import "fmt"

// GateConfig defines the configuration for the structural gates.
type GateConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`

	CycleSeverity     string `mapstructure:"cycle_severity" json:"cycle_severity"`
	MissingSeverity   string `mapstructure:"missing_severity" json:"missing_severity"`
	DuplicateSeverity string `mapstructure:"duplicate_severity" json:"duplicate_severity"`

	MaxDependents     int    `mapstructure:"max_dependents" json:"max_dependents"`
	DependentSeverity string `mapstructure:"dependent_severity" json:"dependent_severity"`
}

// DefaultConfig returns sensible default gate configuration.
func DefaultConfig() *GateConfig {
	return &GateConfig{
		Enabled:           true,
		CycleSeverity:     "critical",
		MissingSeverity:   "required",
		DuplicateSeverity: "advisory",
		MaxDependents:     0, // disabled by default
		DependentSeverity: "required",
	}
}

// parseSeverity converts a string to GateSeverity.
func parseSeverity(s string) GateSeverity {
	switch s {
	case "critical":
		return SeverityCritical
	case "required":
		return SeverityRequired
	case "advisory":
		return SeverityAdvisory
	default:
		return SeverityRequired
	}
}

// BuildPipeline constructs a gate pipeline from configuration.
func BuildPipeline(cfg *GateConfig) *Pipeline {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	p := NewPipeline()
	p.AddGate(NewCycleGate(parseSeverity(cfg.CycleSeverity)))
	p.AddGate(NewMissingGate(parseSeverity(cfg.MissingSeverity)))
	p.AddGate(NewDuplicateGate(parseSeverity(cfg.DuplicateSeverity)))

	if cfg.MaxDependents > 0 {
		p.AddGate(NewDependentLimitGate(cfg.MaxDependents, parseSeverity(cfg.DependentSeverity)))
	}

	return p
}

// FormatReport returns a human-readable gate report.
func FormatReport(result *PipelineResult) string {
	var s string
	s += "╔══════════════════════════════════════════╗\n"
	s += "║        Dependency Gate Report            ║\n"
	s += "╠══════════════════════════════════════════╣\n"

	for _, gr := range result.Gates {
		icon := "✓"
		switch gr.Status {
		case GateFailed:
			icon = "✗"
		case GateSkipped:
			icon = "○"
		case GateWarning:
			icon = "⚠"
		}

		severity := ""
		switch gr.Severity {
		case SeverityCritical:
			severity = "[CRITICAL]"
		case SeverityRequired:
			severity = "[REQUIRED]"
		case SeverityAdvisory:
			severity = "[ADVISORY]"
		}

		s += fmt.Sprintf("║ %s %-20s %-10s %s\n", icon, gr.Name, severity, gr.Message)
		for _, d := range gr.Details {
			s += fmt.Sprintf("║   → %s\n", d)
		}
	}

	s += "╠══════════════════════════════════════════╣\n"
	status := "PASSED"
	if result.Status == GateFailed {
		status = "FAILED"
	}
	s += fmt.Sprintf("║ Result: %s (%s)\n", status, result.Summary)
	s += "╚══════════════════════════════════════════╝\n"

	return s
}
