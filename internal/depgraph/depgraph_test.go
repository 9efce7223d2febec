package depgraph

import (
	"reflect"
	"testing"

	"github.com/osland/kerneldeps/internal/kernel"
)

func comp(name string, deps ...string) kernel.Component {
	return kernel.Component{Name: name, Dependencies: deps}
}

// Builder tests

func TestBuild_Adjacency(t *testing.T) {
	g := Build([]kernel.Component{
		comp("vfs", "mm", "sched"),
		comp("mm"),
		comp("sched", "mm"),
	})

	if g.ComponentCount != 3 {
		t.Errorf("expected component count 3, got %d", g.ComponentCount)
	}
	if !reflect.DeepEqual(g.Names, []string{"vfs", "mm", "sched"}) {
		t.Errorf("expected input-order names, got %v", g.Names)
	}
	if !reflect.DeepEqual(g.Adjacency["vfs"], []string{"mm", "sched"}) {
		t.Errorf("expected vfs deps [mm sched], got %v", g.Adjacency["vfs"])
	}
	if len(g.Adjacency["mm"]) != 0 {
		t.Errorf("expected mm to have no deps, got %v", g.Adjacency["mm"])
	}
	if !reflect.DeepEqual(g.Reverse["mm"], []string{"vfs", "sched"}) {
		t.Errorf("expected mm dependents [vfs sched], got %v", g.Reverse["mm"])
	}
	if !reflect.DeepEqual(g.Reverse["sched"], []string{"vfs"}) {
		t.Errorf("expected sched dependents [vfs], got %v", g.Reverse["sched"])
	}
}

func TestBuild_ClonesDependencyLists(t *testing.T) {
	deps := []string{"b"}
	g := Build([]kernel.Component{{Name: "a", Dependencies: deps}})

	deps[0] = "mutated"
	if g.Adjacency["a"][0] != "b" {
		t.Error("graph should hold a copy of the dependency list, not share it")
	}
}

func TestBuild_UnknownNameGetsReverseEntry(t *testing.T) {
	g := Build([]kernel.Component{comp("a", "ghost")})

	if g.HasComponent("ghost") {
		t.Error("ghost should not be a component")
	}
	if !reflect.DeepEqual(g.Dependents("ghost"), []string{"a"}) {
		t.Errorf("expected ghost dependents [a], got %v", g.Dependents("ghost"))
	}
}

func TestBuild_DuplicateNames(t *testing.T) {
	g := Build([]kernel.Component{
		comp("a", "x"),
		comp("b"),
		comp("a", "b"),
	})

	if g.ComponentCount != 3 {
		t.Errorf("expected component count 3 (duplicates included), got %d", g.ComponentCount)
	}
	if !reflect.DeepEqual(g.Names, []string{"a", "b"}) {
		t.Errorf("expected unique names [a b], got %v", g.Names)
	}
	if !reflect.DeepEqual(g.Duplicates, []string{"a"}) {
		t.Errorf("expected duplicates [a], got %v", g.Duplicates)
	}
	// Last declaration wins on the forward side.
	if !reflect.DeepEqual(g.Adjacency["a"], []string{"b"}) {
		t.Errorf("expected a's deps from the last declaration, got %v", g.Adjacency["a"])
	}
	// Both declarations contribute on the reverse side.
	if !reflect.DeepEqual(g.Dependents("x"), []string{"a"}) {
		t.Errorf("expected x dependents [a], got %v", g.Dependents("x"))
	}
	if !reflect.DeepEqual(g.Dependents("b"), []string{"a"}) {
		t.Errorf("expected b dependents [a], got %v", g.Dependents("b"))
	}
}

func TestBuild_Empty(t *testing.T) {
	g := Build(nil)

	if g.ComponentCount != 0 {
		t.Errorf("expected 0 components, got %d", g.ComponentCount)
	}
	if len(g.Names) != 0 {
		t.Errorf("expected no names, got %v", g.Names)
	}
}

// Missing dependency tests

func TestAnalyze_MissingDependencies(t *testing.T) {
	a := New(DefaultOptions())
	result := a.Analyze([]kernel.Component{
		comp("a", "ghost", "b"),
		comp("b", "ghost", "phantom"),
		comp("c", "phantom"),
	})

	// Deduplicated, first-seen order.
	if !reflect.DeepEqual(result.MissingDependencies, []string{"ghost", "phantom"}) {
		t.Errorf("expected missing [ghost phantom], got %v", result.MissingDependencies)
	}
}

func TestAnalyze_MissingFromEarlierDuplicate(t *testing.T) {
	// The first declaration of a loses on the adjacency side but its
	// dangling reference is still reported.
	a := New(DefaultOptions())
	result := a.Analyze([]kernel.Component{
		comp("a", "ghost"),
		comp("b"),
		comp("a", "b"),
	})

	if !reflect.DeepEqual(result.MissingDependencies, []string{"ghost"}) {
		t.Errorf("expected missing [ghost], got %v", result.MissingDependencies)
	}
	if !reflect.DeepEqual(result.DuplicateComponents, []string{"a"}) {
		t.Errorf("expected duplicates [a], got %v", result.DuplicateComponents)
	}
}

func TestAnalyze_NoMissingDependencies(t *testing.T) {
	a := New(DefaultOptions())
	result := a.Analyze([]kernel.Component{
		comp("a", "b"),
		comp("b"),
	})

	if len(result.MissingDependencies) != 0 {
		t.Errorf("expected no missing dependencies, got %v", result.MissingDependencies)
	}
}

// Cycle detection tests

func TestAnalyze_TwoNodeCycle(t *testing.T) {
	a := New(DefaultOptions())
	result := a.Analyze([]kernel.Component{
		comp("a", "b"),
		comp("b", "a"),
	})

	if len(result.Cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d: %v", len(result.Cycles), result.Cycles)
	}
	if !reflect.DeepEqual(result.Cycles[0], []string{"a", "b"}) {
		t.Errorf("expected cycle [a b], got %v", result.Cycles[0])
	}
	if len(result.TopologicalOrder) != 0 {
		t.Errorf("expected no topological order with cycles, got %v", result.TopologicalOrder)
	}
}

func TestAnalyze_SelfCycle(t *testing.T) {
	a := New(DefaultOptions())
	result := a.Analyze([]kernel.Component{comp("a", "a")})

	if len(result.Cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d", len(result.Cycles))
	}
	if !reflect.DeepEqual(result.Cycles[0], []string{"a"}) {
		t.Errorf("expected self cycle [a], got %v", result.Cycles[0])
	}
}

func TestAnalyze_CycleIsSubPath(t *testing.T) {
	// The path into the cycle (a) must not be part of the reported cycle.
	a := New(DefaultOptions())
	result := a.Analyze([]kernel.Component{
		comp("a", "b"),
		comp("b", "c"),
		comp("c", "b"),
	})

	if len(result.Cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d: %v", len(result.Cycles), result.Cycles)
	}
	if !reflect.DeepEqual(result.Cycles[0], []string{"b", "c"}) {
		t.Errorf("expected cycle [b c], got %v", result.Cycles[0])
	}
}

func TestAnalyze_MultipleCycles(t *testing.T) {
	a := New(DefaultOptions())
	result := a.Analyze([]kernel.Component{
		comp("a", "b"),
		comp("b", "a"),
		comp("c", "d"),
		comp("d", "c"),
	})

	if len(result.Cycles) != 2 {
		t.Fatalf("expected 2 cycles, got %d: %v", len(result.Cycles), result.Cycles)
	}
	if !reflect.DeepEqual(result.Cycles[0], []string{"a", "b"}) {
		t.Errorf("expected first cycle [a b], got %v", result.Cycles[0])
	}
	if !reflect.DeepEqual(result.Cycles[1], []string{"c", "d"}) {
		t.Errorf("expected second cycle [c d], got %v", result.Cycles[1])
	}
}

func TestAnalyze_RepeatedDependencyReportsCycleOnce(t *testing.T) {
	a := New(DefaultOptions())
	result := a.Analyze([]kernel.Component{comp("a", "a", "a")})

	if len(result.Cycles) != 1 {
		t.Errorf("expected the repeated self cycle to be reported once, got %v", result.Cycles)
	}
}

func TestAnalyze_MissingDependencyIsNotACycle(t *testing.T) {
	a := New(DefaultOptions())
	result := a.Analyze([]kernel.Component{
		comp("a", "ghost"),
		comp("b", "a"),
	})

	if len(result.Cycles) != 0 {
		t.Errorf("expected no cycles, got %v", result.Cycles)
	}
	if !reflect.DeepEqual(result.MissingDependencies, []string{"ghost"}) {
		t.Errorf("expected missing [ghost], got %v", result.MissingDependencies)
	}
}

// Topological order tests

func TestTopologicalOrder_Chain(t *testing.T) {
	// a depends on b depends on c: nothing depends on a, so a comes first
	// and the foundational c comes last.
	g := Build([]kernel.Component{
		comp("a", "b"),
		comp("b", "c"),
		comp("c"),
	})

	order, complete := g.TopologicalOrder()
	if !complete {
		t.Fatal("expected complete order for acyclic graph")
	}
	if !reflect.DeepEqual(order, []string{"a", "b", "c"}) {
		t.Errorf("expected order [a b c], got %v", order)
	}
}

func TestTopologicalOrder_Diamond(t *testing.T) {
	g := Build([]kernel.Component{
		comp("a", "b", "c"),
		comp("b", "d"),
		comp("c", "d"),
		comp("d"),
	})

	order, complete := g.TopologicalOrder()
	if !complete {
		t.Fatal("expected complete order for acyclic graph")
	}
	if order[0] != "a" {
		t.Errorf("expected a first (nothing depends on it), got %v", order)
	}
	if order[len(order)-1] != "d" {
		t.Errorf("expected d last (everything depends on it), got %v", order)
	}
}

func TestTopologicalOrder_SeedsFollowInputOrder(t *testing.T) {
	// Two independent roots keep their manifest order.
	g := Build([]kernel.Component{
		comp("z", "shared"),
		comp("a", "shared"),
		comp("shared"),
	})

	order, complete := g.TopologicalOrder()
	if !complete {
		t.Fatal("expected complete order")
	}
	if !reflect.DeepEqual(order, []string{"z", "a", "shared"}) {
		t.Errorf("expected order [z a shared], got %v", order)
	}
}

func TestTopologicalOrder_UnknownDependenciesIgnored(t *testing.T) {
	g := Build([]kernel.Component{
		comp("a", "ghost"),
		comp("b", "a"),
	})

	order, complete := g.TopologicalOrder()
	if !complete {
		t.Fatalf("expected complete order over components, got %v", order)
	}
	if !reflect.DeepEqual(order, []string{"b", "a"}) {
		t.Errorf("expected order [b a], got %v", order)
	}
}

func TestTopologicalOrder_PartialOnCycle(t *testing.T) {
	g := Build([]kernel.Component{
		comp("c", "a"),
		comp("a", "b"),
		comp("b", "a"),
	})

	order, complete := g.TopologicalOrder()
	if complete {
		t.Error("expected incomplete order for cyclic graph")
	}
	if !reflect.DeepEqual(order, []string{"c"}) {
		t.Errorf("expected partial order [c], got %v", order)
	}
}

// Pipeline tests

func TestAnalyze_FullPipeline(t *testing.T) {
	a := New(DefaultOptions())
	result := a.Analyze([]kernel.Component{
		comp("kernel"),
		comp("mm", "kernel"),
		comp("sched", "kernel", "mm"),
	})

	if !reflect.DeepEqual(result.NoDependencies, []string{"kernel"}) {
		t.Errorf("expected no-dependency list [kernel], got %v", result.NoDependencies)
	}
	if len(result.MissingDependencies) != 0 {
		t.Errorf("expected no missing dependencies, got %v", result.MissingDependencies)
	}
	if len(result.Cycles) != 0 {
		t.Errorf("expected no cycles, got %v", result.Cycles)
	}
	if !reflect.DeepEqual(result.TopologicalOrder, []string{"sched", "mm", "kernel"}) {
		t.Errorf("expected order [sched mm kernel], got %v", result.TopologicalOrder)
	}

	wantCounts := map[string]int{"kernel": 2, "mm": 1, "sched": 0}
	if !reflect.DeepEqual(result.DependencyCounts, wantCounts) {
		t.Errorf("expected counts %v, got %v", wantCounts, result.DependencyCounts)
	}
}

func TestAnalyze_CountsAreDependents(t *testing.T) {
	a := New(DefaultOptions())
	result := a.Analyze([]kernel.Component{
		comp("hub"),
		comp("x", "hub"),
		comp("y", "hub"),
		comp("z", "hub"),
	})

	if result.DependencyCounts["hub"] != 3 {
		t.Errorf("expected hub count 3, got %d", result.DependencyCounts["hub"])
	}
	if result.DependencyCounts["x"] != 0 {
		t.Errorf("expected x count 0, got %d", result.DependencyCounts["x"])
	}
}

func TestAnalyze_DisabledChecks(t *testing.T) {
	a := New(Options{})
	result := a.Analyze([]kernel.Component{
		comp("a", "b", "ghost"),
		comp("b", "a"),
	})

	if result.MissingDependencies != nil {
		t.Errorf("expected missing check to be skipped, got %v", result.MissingDependencies)
	}
	if result.Cycles != nil {
		t.Errorf("expected cycle detection to be skipped, got %v", result.Cycles)
	}
	if result.TopologicalOrder != nil {
		t.Errorf("expected topological sort to be skipped, got %v", result.TopologicalOrder)
	}
	// The unconditional analyses still run.
	if result.DependencyCounts == nil {
		t.Error("expected dependency counts to be computed")
	}
}

func TestAnalyze_PartialOrderWhenCycleDetectionOff(t *testing.T) {
	a := New(Options{SortTopologically: true})
	result := a.Analyze([]kernel.Component{
		comp("c", "a"),
		comp("a", "b"),
		comp("b", "a"),
	})

	// With detection off no cycles are reported, so the sort still runs
	// and covers the acyclic part only.
	if len(result.Cycles) != 0 {
		t.Errorf("expected no reported cycles, got %v", result.Cycles)
	}
	if !reflect.DeepEqual(result.TopologicalOrder, []string{"c"}) {
		t.Errorf("expected partial order [c], got %v", result.TopologicalOrder)
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	a := New(DefaultOptions())
	result := a.Analyze(nil)

	if result.Graph.ComponentCount != 0 {
		t.Errorf("expected empty graph, got %d components", result.Graph.ComponentCount)
	}
	if len(result.TopologicalOrder) != 0 {
		t.Errorf("expected empty order, got %v", result.TopologicalOrder)
	}
	if len(result.Cycles) != 0 {
		t.Errorf("expected no cycles, got %v", result.Cycles)
	}
}

func TestAnalyze_SingleComponent(t *testing.T) {
	a := New(DefaultOptions())
	result := a.Analyze([]kernel.Component{comp("lone")})

	if !reflect.DeepEqual(result.NoDependencies, []string{"lone"}) {
		t.Errorf("expected [lone], got %v", result.NoDependencies)
	}
	if !reflect.DeepEqual(result.TopologicalOrder, []string{"lone"}) {
		t.Errorf("expected order [lone], got %v", result.TopologicalOrder)
	}
	if result.DependencyCounts["lone"] != 0 {
		t.Errorf("expected count 0, got %d", result.DependencyCounts["lone"])
	}
}
