package translate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hkvist/t2s/feature"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestTranslateWithLoadedGrammar(t *testing.T) {
	dir := t.TempDir()
	gfile := writeTempFile(t, dir, "g.txt", "(X foo) ||| FOO ||| w=2\n")

	tr, err := New(WithGrammarFile(gfile), WithWeights(feature.Vector{"w": 3}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	hg, ok, err := tr.Translate("(X foo)", nil)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if !ok {
		t.Fatal("expected a successful translation")
	}
	goal, ok := hg.Goal()
	if !ok {
		t.Fatal("expected a goal node")
	}
	if hg.Nodes[goal].Weight != 6 {
		t.Errorf("goal weight = %v, want 6", hg.Nodes[goal].Weight)
	}
}

func TestTranslateFallsBackToPassThrough(t *testing.T) {
	// No grammar loaded at all covers "(X foo)" — only the synthesized
	// pass-through identity rule can produce a derivation.
	tr, err := New(WithPassThrough(true), WithWeights(feature.Vector{feature.PassThrough: 1}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	hg, ok, err := tr.Translate("(X foo)", nil)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if !ok {
		t.Fatal("expected pass-through to produce a derivation")
	}
	if len(hg.Edges) == 0 {
		t.Fatal("expected at least one edge from the pass-through grammar")
	}
}

func TestTranslateWithoutPassThroughFailsOnUncoveredInput(t *testing.T) {
	tr, err := New(WithWeights(feature.Vector{"w": 1}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, ok, err := tr.Translate("(X foo)", nil)
	if err != nil {
		t.Fatalf("Translate returned an error, want ok=false, err=nil: %v", err)
	}
	if ok {
		t.Fatal("expected no derivation without a grammar or pass-through")
	}
}

func TestSentenceCompleteDropsPassThroughGrammar(t *testing.T) {
	tr, err := New(WithPassThrough(true), WithWeights(feature.Vector{feature.PassThrough: 1}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, _, err := tr.Translate("(X foo)", nil); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	before := len(tr.grammars)
	tr.SentenceComplete()
	if len(tr.grammars) != before-1 {
		t.Fatalf("grammars after SentenceComplete = %d, want %d", len(tr.grammars), before-1)
	}

	// A second sentence re-synthesizes its own pass-through grammar and
	// the count after completing it returns to the same baseline.
	if _, _, err := tr.Translate("(Y bar)", nil); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	afterSecond := len(tr.grammars)
	tr.SentenceComplete()
	if len(tr.grammars) != afterSecond-1 {
		t.Fatalf("grammars after second SentenceComplete = %d, want %d", len(tr.grammars), afterSecond-1)
	}
}

func TestWithFeatureDictionaryLoadsWeights(t *testing.T) {
	dir := t.TempDir()
	dict := writeTempFile(t, dir, "weights.txt", "# comment\nw=4\n\nPassThrough=1\n")
	gfile := writeTempFile(t, dir, "g.txt", "(X foo) ||| FOO ||| w=2\n")

	tr, err := New(WithGrammarFile(gfile), WithFeatureDictionary(dict))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	hg, ok, err := tr.Translate("(X foo)", nil)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if !ok {
		t.Fatal("expected a successful translation")
	}
	goal, _ := hg.Goal()
	if hg.Nodes[goal].Weight != 8 {
		t.Errorf("goal weight = %v, want 8 (w=2 feature * w=4 weight)", hg.Nodes[goal].Weight)
	}
}

func TestNewFailsOnMissingGrammarFile(t *testing.T) {
	if _, err := New(WithGrammarFile(filepath.Join(t.TempDir(), "nope.txt"))); err == nil {
		t.Error("expected New to fail when a grammar file doesn't exist")
	}
}

func TestNewFailsOnMissingFeatureDictionary(t *testing.T) {
	if _, err := New(WithFeatureDictionary(filepath.Join(t.TempDir(), "nope.txt"))); err == nil {
		t.Error("expected New to fail when a feature dictionary file doesn't exist")
	}
}
