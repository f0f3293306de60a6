package tree

import "testing"

func TestIteratorBeginStartsAtOwnLHS(t *testing.T) {
	f := mustParse(t, "(S (NP john) (VP sleeps))")
	it := f.Begin(0)

	if it.AtEnd() {
		t.Fatal("iterator should not be at end immediately after Begin")
	}
	if !it.Current().IsLHS() {
		t.Errorf("Begin should land on the subtree's own LHS token, got %v", it.Current())
	}
	if it.NodeIdx() != 0 {
		t.Errorf("NodeIdx() = %d, want 0", it.NodeIdx())
	}
}

func TestIteratorAdvanceWalksFullPreorder(t *testing.T) {
	// Advance alone, with no Truncate, walks every token of the subtree's
	// preorder stream — including descending into nested subtrees, since
	// an RHSEntry token is immediately followed in the flat stream by its
	// subtree's own LHS token. No separate recursive descent is needed.
	f := mustParse(t, "(S (NP john) (VP sleeps))")
	it := f.Begin(0)

	wantKinds := []string{"lhs", "entry", "lhs", "terminal", "entry", "lhs", "terminal"}
	for i, want := range wantKinds {
		if it.AtEnd() {
			t.Fatalf("step %d: iterator ended early", i)
		}
		sym := it.Current()
		var got string
		switch {
		case sym.IsLHS():
			got = "lhs"
		case sym.IsEntryTagged():
			got = "entry"
		case sym.IsTerminal():
			got = "terminal"
		default:
			got = "other"
		}
		if got != want {
			t.Errorf("step %d: kind = %s, want %s", i, got, want)
		}
		it = it.Advance()
	}
	if !it.AtEnd() {
		t.Fatal("iterator should be at end after consuming the whole preorder stream")
	}
}

func TestIteratorTruncateSkipsSubtree(t *testing.T) {
	f := mustParse(t, "(S (NP john) last)")
	it := f.Begin(0).Advance() // now at the RHSEntry(NP) position

	if !it.Current().IsEntryTagged() {
		t.Fatalf("expected RHSEntry at S's first child, got %v", it.Current())
	}

	trunc := it.Truncate()
	if !trunc.Current().IsFrontierTagged() {
		t.Errorf("truncated Current() should be RHSFrontier, got %v", trunc.Current())
	}
	if trunc.Current().ID() != it.Current().ID() {
		t.Errorf("truncate must preserve category id")
	}

	trunc = trunc.Advance()
	if !trunc.Current().IsTerminal() {
		t.Errorf("after truncated Advance, should land on sibling terminal, got %v", trunc.Current())
	}

	// The untruncated iterator, by contrast, descends literally: advancing
	// past the RHSEntry position (without truncation) lands on NP's own
	// LHS token, since exact/literal matching walks into the subtree
	// rather than skipping over it.
	lit := it.Advance()
	if !lit.Current().IsLHS() {
		t.Errorf("after literal Advance, should land on NP's own LHS token, got %v", lit.Current())
	}
}

func TestIteratorChildNodeDescendsIntoSubtree(t *testing.T) {
	f := mustParse(t, "(S (NP john))")
	it := f.Begin(0).Advance() // at the RHSEntry(NP) position

	childIdx := it.ChildNode()
	if childIdx != 1 {
		t.Fatalf("ChildNode() = %d, want 1", childIdx)
	}
	childIt := f.Begin(childIdx)
	if !childIt.Current().IsLHS() {
		t.Fatalf("a freshly Begin'd iterator should start at the subtree's own LHS, got %v", childIt.Current())
	}
	childIt = childIt.Advance()
	if childIt.AtEnd() {
		t.Fatal("child iterator should see john as a child")
	}
	if !childIt.Current().IsTerminal() {
		t.Errorf("NP's child should be terminal john, got %v", childIt.Current())
	}
	if f.Table.Name(childIt.Current().ID()) != "john" {
		t.Errorf("terminal name = %q, want john", f.Table.Name(childIt.Current().ID()))
	}
	childIt = childIt.Advance()
	if !childIt.AtEnd() {
		t.Fatal("child iterator should be at end after consuming its one terminal child")
	}
}

func TestIteratorNestedTruncateAndExactCoexist(t *testing.T) {
	// Mirrors spec E3: one position can be tried both as a truncated
	// frontier match and as an exact literal descent.
	f := mustParse(t, "(X (Y foo))")
	it := f.Begin(0).Advance() // at the RHSEntry(Y) position

	if !it.Current().IsEntryTagged() {
		t.Fatalf("expected RHSEntry at X's only child, got %v", it.Current())
	}

	// Variable/truncated continuation: skip the whole (Y foo) subtree.
	variable := it.Truncate().Advance()
	if !variable.AtEnd() {
		t.Fatal("truncated advance over X's only child should reach end")
	}

	// Exact continuation: the same iterator, advanced without truncation,
	// lands on Y's own LHS token and can walk on into Y's children.
	exact := it.Advance()
	if !exact.Current().IsLHS() {
		t.Fatalf("exact descent should land on Y's own LHS, got %v", exact.Current())
	}
	exact = exact.Advance()
	if exact.AtEnd() || !exact.Current().IsTerminal() {
		t.Fatalf("exact descent into Y should reach terminal foo, got AtEnd=%v Current=%v", exact.AtEnd(), exact.Current())
	}

	// A fresh Begin at the same child node index reaches the same place.
	yIdx := it.ChildNode()
	fresh := f.Begin(yIdx).Advance()
	if fresh.AtEnd() || !fresh.Current().IsTerminal() {
		t.Fatalf("Begin(yIdx) should also reach terminal foo, got AtEnd=%v Current=%v", fresh.AtEnd(), fresh.Current())
	}
}
