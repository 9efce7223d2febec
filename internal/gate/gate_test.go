package gate

import (
	"strings"
	"testing"

	"github.com/osland/kerneldeps/internal/depgraph"
	"github.com/osland/kerneldeps/internal/kernel"
)

func comp(name string, deps ...string) kernel.Component {
	return kernel.Component{Name: name, Dependencies: deps}
}

func analyzeManifest(t *testing.T, components ...kernel.Component) *EvalContext {
	t.Helper()
	a := depgraph.New(depgraph.DefaultOptions())
	return &EvalContext{Result: a.Analyze(components)}
}

func TestCycleGate(t *testing.T) {
	tests := []struct {
		name        string
		components  []kernel.Component
		wantStatus  GateStatus
		wantDetails int
	}{
		{
			name:       "pass without cycles",
			components: []kernel.Component{comp("a", "b"), comp("b")},
			wantStatus: GatePassed,
		},
		{
			name:        "fail with cycle",
			components:  []kernel.Component{comp("a", "b"), comp("b", "a")},
			wantStatus:  GateFailed,
			wantDetails: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewCycleGate(SeverityCritical)
			ctx := analyzeManifest(t, tt.components...)

			result, err := gate.Evaluate(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Status != tt.wantStatus {
				t.Errorf("got status %v, want %v", result.Status, tt.wantStatus)
			}
			if result.Name != "cycles" {
				t.Errorf("got name %q, want %q", result.Name, "cycles")
			}
			if len(result.Details) != tt.wantDetails {
				t.Errorf("got %d details, want %d", len(result.Details), tt.wantDetails)
			}
		})
	}
}

func TestCycleGate_DetailFormat(t *testing.T) {
	gate := NewCycleGate(SeverityCritical)
	ctx := analyzeManifest(t, comp("a", "b"), comp("b", "a"))

	result, err := gate.Evaluate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Details) != 1 || result.Details[0] != "a -> b" {
		t.Errorf("expected detail %q, got %v", "a -> b", result.Details)
	}
}

func TestMissingGate(t *testing.T) {
	tests := []struct {
		name       string
		components []kernel.Component
		wantStatus GateStatus
	}{
		{
			name:       "pass when all resolve",
			components: []kernel.Component{comp("a", "b"), comp("b")},
			wantStatus: GatePassed,
		},
		{
			name:       "fail with unresolved name",
			components: []kernel.Component{comp("a", "ghost")},
			wantStatus: GateFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewMissingGate(SeverityRequired)
			ctx := analyzeManifest(t, tt.components...)

			result, err := gate.Evaluate(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Status != tt.wantStatus {
				t.Errorf("got status %v, want %v", result.Status, tt.wantStatus)
			}
			if tt.wantStatus == GateFailed && len(result.Details) == 0 {
				t.Error("expected details for failed gate")
			}
		})
	}
}

func TestDuplicateGate(t *testing.T) {
	tests := []struct {
		name       string
		components []kernel.Component
		wantStatus GateStatus
	}{
		{
			name:       "pass with unique names",
			components: []kernel.Component{comp("a"), comp("b")},
			wantStatus: GatePassed,
		},
		{
			name:       "fail with repeated name",
			components: []kernel.Component{comp("a"), comp("a")},
			wantStatus: GateFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewDuplicateGate(SeverityAdvisory)
			ctx := analyzeManifest(t, tt.components...)

			result, err := gate.Evaluate(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Status != tt.wantStatus {
				t.Errorf("got status %v, want %v", result.Status, tt.wantStatus)
			}
		})
	}
}

func TestDependentLimitGate(t *testing.T) {
	hub := []kernel.Component{
		comp("hub"),
		comp("x", "hub"),
		comp("y", "hub"),
	}

	tests := []struct {
		name          string
		maxDependents int
		wantStatus    GateStatus
	}{
		{
			name:          "pass under limit",
			maxDependents: 3,
			wantStatus:    GatePassed,
		},
		{
			name:          "pass at limit",
			maxDependents: 2,
			wantStatus:    GatePassed,
		},
		{
			name:          "fail over limit",
			maxDependents: 1,
			wantStatus:    GateFailed,
		},
		{
			name:          "skip when unconfigured",
			maxDependents: 0,
			wantStatus:    GateSkipped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewDependentLimitGate(tt.maxDependents, SeverityRequired)
			ctx := analyzeManifest(t, hub...)

			result, err := gate.Evaluate(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Status != tt.wantStatus {
				t.Errorf("got status %v, want %v", result.Status, tt.wantStatus)
			}
			if tt.wantStatus == GateFailed {
				if len(result.Details) != 1 || !strings.Contains(result.Details[0], "hub") {
					t.Errorf("expected hub in details, got %v", result.Details)
				}
			}
		})
	}
}

func TestPipelineAllPassing(t *testing.T) {
	pipeline := BuildPipeline(DefaultConfig())
	ctx := analyzeManifest(t,
		comp("kernel"),
		comp("mm", "kernel"),
		comp("sched", "kernel", "mm"),
	)

	result := pipeline.Run(ctx)

	if result.Status != GatePassed {
		t.Errorf("got status %v, want %v", result.Status, GatePassed)
	}
	if result.PassedCount != 3 {
		t.Errorf("got %d passed gates, want 3", result.PassedCount)
	}
	if result.FailedCount != 0 {
		t.Errorf("got %d failed gates, want 0", result.FailedCount)
	}
	if result.Summary == "" {
		t.Error("expected non-empty summary")
	}
	if result.EvaluatedAt.IsZero() {
		t.Error("expected non-zero evaluated timestamp")
	}
}

func TestPipelineCriticalAbort(t *testing.T) {
	pipeline := NewPipeline(
		NewCycleGate(SeverityCritical),
		NewMissingGate(SeverityRequired),
		NewDuplicateGate(SeverityAdvisory),
	)
	ctx := analyzeManifest(t, comp("a", "b"), comp("b", "a"))

	result := pipeline.Run(ctx)

	if result.Status != GateFailed {
		t.Errorf("got status %v, want %v", result.Status, GateFailed)
	}
	if result.Gates[0].Status != GateFailed {
		t.Errorf("first gate: got %v, want %v", result.Gates[0].Status, GateFailed)
	}
	// Remaining gates are skipped after a critical failure.
	if result.SkippedCount != 2 {
		t.Errorf("got %d skipped gates, want 2", result.SkippedCount)
	}
	for _, gr := range result.Gates[1:] {
		if gr.Status != GateSkipped {
			t.Errorf("gate %s: got %v, want %v", gr.Name, gr.Status, GateSkipped)
		}
	}
}

func TestPipelineRequiredFailureRunsAllGates(t *testing.T) {
	pipeline := NewPipeline(
		NewCycleGate(SeverityCritical),
		NewMissingGate(SeverityRequired),
		NewDuplicateGate(SeverityAdvisory),
	)
	ctx := analyzeManifest(t, comp("a", "ghost"))

	result := pipeline.Run(ctx)

	if result.Status != GateFailed {
		t.Errorf("got status %v, want %v", result.Status, GateFailed)
	}
	if len(result.Gates) != 3 {
		t.Errorf("got %d gate results, want 3", len(result.Gates))
	}
	if result.SkippedCount != 0 {
		t.Errorf("got %d skipped gates, want 0", result.SkippedCount)
	}
}

func TestPipelineAdvisoryDoesNotBlock(t *testing.T) {
	pipeline := BuildPipeline(DefaultConfig())
	ctx := analyzeManifest(t, comp("a"), comp("a"))

	result := pipeline.Run(ctx)

	if result.Status != GatePassed {
		t.Errorf("advisory failure should not block: got status %v", result.Status)
	}
	if result.FailedCount != 1 {
		t.Errorf("got %d failed gates, want 1", result.FailedCount)
	}
}

func TestBuildPipeline(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDependents = 2

	pipeline := BuildPipeline(cfg)
	ctx := analyzeManifest(t, comp("a", "b"), comp("b"))

	result := pipeline.Run(ctx)

	gateNames := make(map[string]bool)
	for _, gr := range result.Gates {
		gateNames[gr.Name] = true
	}
	for _, name := range []string{"cycles", "missing_dependencies", "duplicates", "max_dependents"} {
		if !gateNames[name] {
			t.Errorf("expected gate %q not found", name)
		}
	}
}

func TestBuildPipelineNilConfig(t *testing.T) {
	pipeline := BuildPipeline(nil)
	ctx := analyzeManifest(t, comp("a"))

	result := pipeline.Run(ctx)

	// The dependent limit gate is left out when unconfigured.
	if len(result.Gates) != 3 {
		t.Errorf("got %d gates, want 3", len(result.Gates))
	}
	if result.Status != GatePassed {
		t.Errorf("got status %v, want %v", result.Status, GatePassed)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if !cfg.Enabled {
		t.Error("expected enabled by default")
	}
	if cfg.MaxDependents != 0 {
		t.Errorf("expected dependent limit disabled by default, got %d", cfg.MaxDependents)
	}

	validSeverities := map[string]bool{
		string(SeverityCritical): true,
		string(SeverityRequired): true,
		string(SeverityAdvisory): true,
	}
	for name, s := range map[string]string{
		"cycle":     cfg.CycleSeverity,
		"missing":   cfg.MissingSeverity,
		"duplicate": cfg.DuplicateSeverity,
		"dependent": cfg.DependentSeverity,
	} {
		if !validSeverities[s] {
			t.Errorf("invalid %s severity: %q", name, s)
		}
	}
}

func TestFormatReport(t *testing.T) {
	pipeline := BuildPipeline(DefaultConfig())
	ctx := analyzeManifest(t, comp("a", "b"), comp("b", "a"))

	report := FormatReport(pipeline.Run(ctx))

	if !strings.Contains(report, "Dependency Gate Report") {
		t.Error("report missing header")
	}
	if !strings.Contains(report, "cycles") {
		t.Error("report missing gate name")
	}
	if !strings.Contains(report, "FAILED") {
		t.Error("report missing overall result")
	}
	if !strings.Contains(report, "a -> b") {
		t.Error("report missing failure details")
	}
}
