package hypergraph

import (
	"testing"

	"github.com/hkvist/t2s/feature"
	"github.com/hkvist/t2s/grammar"
)

func TestTopoSortOrdersChildrenBeforeParents(t *testing.T) {
	f := New()
	leaf := f.AddNode("NP", 1)
	root := f.AddNode("S", 2)
	f.AddEdge(leaf.ID, nil, &grammar.Rule{Arity: 0}, nil)
	f.AddEdge(root.ID, []int{leaf.ID}, &grammar.Rule{Arity: 1}, nil)
	f.SetGoal(root.ID)

	order, err := f.TopoSortFromGoal()
	if err != nil {
		t.Fatal(err)
	}
	pos := make(map[int]int)
	for i, id := range order {
		pos[id] = i
	}
	if pos[leaf.ID] >= pos[root.ID] {
		t.Errorf("leaf should precede root in topological order, got %v", order)
	}
}

func TestTopoSortWithoutGoalFails(t *testing.T) {
	f := New()
	if _, err := f.TopoSortFromGoal(); err == nil {
		t.Error("expected error when no goal is set")
	}
}

func TestReweightPicksBestDerivation(t *testing.T) {
	f := New()
	leaf := f.AddNode("NP", 1)
	root := f.AddNode("S", 2)
	f.AddEdge(leaf.ID, nil, &grammar.Rule{Arity: 0}, feature.Vector{"w": 1})
	cheap := f.AddEdge(root.ID, []int{leaf.ID}, &grammar.Rule{Arity: 1}, feature.Vector{"w": 1})
	expensive := f.AddEdge(root.ID, []int{leaf.ID}, &grammar.Rule{Arity: 1}, feature.Vector{"w": 5})
	f.SetGoal(root.ID)

	if err := f.Reweight(feature.Vector{"w": 1}); err != nil {
		t.Fatal(err)
	}
	if cheap.Weight >= expensive.Weight {
		t.Fatalf("edge weights didn't reflect feature dot product: cheap=%v expensive=%v", cheap.Weight, expensive.Weight)
	}
	if f.Nodes[root.ID].Weight != 1+5 {
		t.Errorf("root weight = %v, want best derivation score 6", f.Nodes[root.ID].Weight)
	}
}

func TestPruneDeadEdgesRemovesUnreachableTails(t *testing.T) {
	f := New()
	dead := f.AddNode("X", 1) // no edge ever makes this derivable
	live := f.AddNode("NP", 2)
	root := f.AddNode("S", 3)
	f.AddEdge(live.ID, nil, &grammar.Rule{Arity: 0}, nil)
	badEdge := f.AddEdge(root.ID, []int{dead.ID, live.ID}, &grammar.Rule{Arity: 2}, nil)
	goodEdge := f.AddEdge(root.ID, []int{live.ID}, &grammar.Rule{Arity: 1}, nil)
	f.SetGoal(root.ID)

	ok := f.PruneDeadEdges()
	if !ok {
		t.Fatal("goal should still be derivable via goodEdge")
	}
	for _, e := range f.Edges {
		if e.ID == badEdge.ID {
			t.Error("edge referencing a dead node should have been pruned")
		}
	}
	found := false
	for _, e := range f.Edges {
		if e.ID == goodEdge.ID {
			found = true
		}
	}
	if !found {
		t.Error("edge with all-live tail should survive pruning")
	}
}

func TestPruneDeadEdgesFailsWhenGoalUnreachable(t *testing.T) {
	f := New()
	root := f.AddNode("S", 1)
	orphan := f.AddNode("NP", 2)
	f.AddEdge(root.ID, []int{orphan.ID}, &grammar.Rule{Arity: 1}, nil)
	f.SetGoal(root.ID)

	if f.PruneDeadEdges() {
		t.Error("expected failure: root's only edge depends on an undervivable node")
	}
}
