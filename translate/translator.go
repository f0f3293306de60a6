// Package translate implements the translator facade (spec §4.H): it
// owns the set of loaded grammars, the optional pass-through fallback,
// and the feature weights, and ties composition + forest finalization
// together into a single Translate call per sentence.
//
// Grounded on Tree2StringTranslatorImpl (original_source's
// tree2string_translator.cc): a `root` list of grammar tries,
// add_pass_through_rules/remove_grammars bookkeeping, and the
// Translate/SentenceComplete lifecycle. Configuration follows the
// teacher's earley.NewParser(ga, opts ...Option) functional-options
// shape, including its private mode bitmask.
package translate

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"

	"github.com/hkvist/t2s/compose"
	"github.com/hkvist/t2s/feature"
	"github.com/hkvist/t2s/forest"
	"github.com/hkvist/t2s/grammar"
	"github.com/hkvist/t2s/hypergraph"
	"github.com/hkvist/t2s/passthrough"
	"github.com/hkvist/t2s/symbol"
	"github.com/hkvist/t2s/tree"
)

// tracer traces with key 't2s.translate'.
func tracer() tracing.Trace {
	return tracing.Select("t2s.translate")
}

// T traces to the global syntax tracer.
func T() tracing.Trace {
	return gtrace.SyntaxTracer
}

const (
	optionPassThrough uint = 1 << iota
)

// SentenceMetadata carries per-sentence side information a caller may
// want to thread through a decoding pipeline. The core never reads it
// (spec §9 Open Question 3 — kept only for interface compatibility with
// a fuller decoder built around this facade).
type SentenceMetadata struct {
	SentenceID int
	SourceText string
}

// Translator is the facade spec §4.H describes: one Table shared by
// every grammar and input tree it ever sees, a list of loaded grammar
// tries, and the weight vector used to reweight a composed forest.
type Translator struct {
	table   *symbol.Table
	grammars []*grammar.Root
	weights feature.Vector
	mode    uint

	// removeGrammars counts how many trailing entries of grammars were
	// appended by CreatePassThroughRules for the sentence currently (or
	// most recently) in progress; SentenceComplete trims them back off,
	// mirroring Tree2StringTranslatorImpl::RemoveGrammars.
	removeGrammars int
}

// Option configures a Translator at construction time. Options run in
// the order given and may fail (e.g. a grammar file that doesn't parse),
// in which case New returns the first error encountered.
type Option func(tr *Translator) error

// New builds a Translator, interning every category/word name any
// WithGrammarFile option's grammar mentions into one shared symbol
// table.
func New(opts ...Option) (*Translator, error) {
	tr := &Translator{
		table: symbol.NewTable(),
	}
	for _, opt := range opts {
		if err := opt(tr); err != nil {
			return nil, err
		}
	}
	tracer().Debugf("translate: initialized with %d grammar(s), pass-through=%v", len(tr.grammars), tr.hasMode(optionPassThrough))
	return tr, nil
}

func (tr *Translator) hasMode(m uint) bool {
	return tr.mode&m != 0
}

// WithGrammarFile loads one SRC ||| TGT ||| FEATS grammar file (spec
// §6) and appends it to the translator's grammar list. Repeatable, like
// cdec's "-g" conf option the teacher's conf list (`conf["grammar"]`)
// models.
func WithGrammarFile(path string) Option {
	return func(tr *Translator) error {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("translate: opening grammar file %q: %w", path, err)
		}
		defer f.Close()
		root, err := grammar.LoadRules(f, tr.table)
		if err != nil {
			return fmt.Errorf("translate: loading grammar file %q: %w", path, err)
		}
		tr.grammars = append(tr.grammars, root)
		return nil
	}
}

// WithPassThrough enables (or disables) synthesizing an identity
// pass-through grammar for every sentence translated, so composition
// always has at least one fallback derivation (spec §4.E).
func WithPassThrough(enable bool) Option {
	return func(tr *Translator) error {
		if enable {
			tr.mode |= optionPassThrough
		} else {
			tr.mode &^= optionPassThrough
		}
		return nil
	}
}

// WithWeights sets the feature weight vector the forest finalizer dots
// against every edge's feature vector (spec §4.G.3).
func WithWeights(weights feature.Vector) Option {
	return func(tr *Translator) error {
		tr.weights = weights.Clone()
		return nil
	}
}

// WithFeatureDictionary loads a weight vector from a "name=value" text
// file, one feature per line — the on-disk counterpart of WithWeights,
// for driving a Translator from a saved model file instead of
// constructing a feature.Vector in code.
func WithFeatureDictionary(path string) Option {
	return func(tr *Translator) error {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("translate: opening feature dictionary %q: %w", path, err)
		}
		defer f.Close()
		weights, err := parseFeatureDictionary(f)
		if err != nil {
			return fmt.Errorf("translate: parsing feature dictionary %q: %w", path, err)
		}
		tr.weights = weights
		return nil
	}
}

// Translate parses input as a tree fragment (spec §6), composes it
// against every loaded grammar (plus a synthesized pass-through grammar
// if enabled), and finalizes the resulting forest. It reports false
// (with a nil error) when composition or finalization finds no
// derivation, matching Tree2StringTranslatorImpl::Translate's bool
// return rather than treating "no parse" as an error.
func (tr *Translator) Translate(input string, meta *SentenceMetadata) (*hypergraph.Forest, bool, error) {
	tr.removeGrammars = 0

	inputTree, err := tree.ParseInto(input, tr.table)
	if err != nil {
		return nil, false, fmt.Errorf("translate: parsing input %q: %w", input, err)
	}

	if tr.hasMode(optionPassThrough) {
		tr.grammars = append(tr.grammars, passthrough.Synthesize(inputTree))
		tr.removeGrammars++
	}

	result, err := compose.Compose(tr.grammars, inputTree)
	if err != nil {
		tracer().Debugf("translate: no derivation for %q: %v", input, err)
		return nil, false, nil
	}

	hg, err := forest.Finalize(result, tr.weights)
	if err != nil {
		tracer().Debugf("translate: no derivation for %q: %v", input, err)
		return nil, false, nil
	}

	tracer().Infof("translate: %q produced a forest with %d node(s)", input, len(hg.Nodes))
	return hg, true, nil
}

// SentenceComplete drops the pass-through grammar (if any) this
// translator synthesized for the sentence just translated, mirroring
// Tree2StringTranslatorImpl::RemoveGrammars. Call it once per sentence,
// after Translate, before translating the next one.
func (tr *Translator) SentenceComplete() {
	if tr.removeGrammars == 0 {
		return
	}
	if tr.removeGrammars > len(tr.grammars) {
		panic("translate: removeGrammars exceeds the loaded grammar count")
	}
	tr.grammars = tr.grammars[:len(tr.grammars)-tr.removeGrammars]
	tr.removeGrammars = 0
}
