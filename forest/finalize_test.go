package forest

import (
	"strings"
	"testing"

	"github.com/hkvist/t2s/compose"
	"github.com/hkvist/t2s/feature"
	"github.com/hkvist/t2s/grammar"
	"github.com/hkvist/t2s/symbol"
	"github.com/hkvist/t2s/tree"
)

func compile(t *testing.T, grammarSrc, inputText string) *compose.Result {
	t.Helper()
	tbl := symbol.NewTable()
	g, err := grammar.LoadRules(strings.NewReader(grammarSrc), tbl)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	input, err := tree.ParseInto(inputText, tbl)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	result, err := compose.Compose([]*grammar.Root{g}, input)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	return result
}

func TestFinalizeSucceedsOnCompleteDerivation(t *testing.T) {
	result := compile(t, "(X foo) ||| FOO ||| w=2\n", "(X foo)")
	hg, err := Finalize(result, feature.Vector{"w": 3})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	goal, ok := hg.Goal()
	if !ok {
		t.Fatal("expected a goal node")
	}
	if hg.Nodes[goal].Weight != 6 {
		t.Errorf("goal weight = %v, want 6", hg.Nodes[goal].Weight)
	}
}

func TestFinalizeFailsWhenGoalHasNoDerivation(t *testing.T) {
	// The only rule in this grammar matches NP, not the root X — so the
	// goal (X's task) never gets an edge at all.
	result := compile(t, "(NP foo) ||| FOO ||| w=1\n", "(X foo)")
	if _, err := Finalize(result, feature.Vector{"w": 1}); err == nil {
		t.Error("expected Finalize to fail: root X has no derivation")
	}
}

func TestFinalizePrunesDanglingFutureWork(t *testing.T) {
	// X's rule needs a derivation for Y, but no grammar rule covers Y,
	// so X's only edge must be pruned and the whole composition fails.
	result := compile(t, "(X [Y]) ||| y0 ||| w=1\n", "(X (Y bar))")
	if _, err := Finalize(result, feature.Vector{"w": 1}); err == nil {
		t.Error("expected Finalize to fail: Y has no derivation, so X's edge should be pruned")
	}
}
