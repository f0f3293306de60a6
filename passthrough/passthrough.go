// Package passthrough implements the pass-through rule synthesizer
// (spec §4.E): given an input tree, it builds a throwaway grammar trie
// holding one identity rule per subtree of the tree, so that composition
// always has at least one derivation to fall back on.
//
// Grounded on Tree2StringTranslatorImpl::CreatePassThroughRules:
// for each node of the input tree it synthesizes a 1-level rule whose
// RHS is the node's own children, written as bare frontier positions
// (never literal descent — cdec always writes "[cat]", even for a child
// that happens to be a subtree in the real input), and whose target
// side repeats the same children with left-to-right indexed variables.
package passthrough

import (
	"fmt"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"

	"github.com/hkvist/t2s/feature"
	"github.com/hkvist/t2s/grammar"
	"github.com/hkvist/t2s/symbol"
	"github.com/hkvist/t2s/tree"
)

// tracer traces with key 't2s.passthrough'.
func tracer() tracing.Trace {
	return tracing.Select("t2s.passthrough")
}

// T traces to the global syntax tracer.
func T() tracing.Trace {
	return gtrace.SyntaxTracer
}

// initialState mirrors grammar.initialState: this core supports only
// transducer state 0 (spec §9 Open Questions).
const initialState uint32 = 0

// Synthesize builds a fresh grammar trie holding one pass-through rule
// per node of t, each tagged with feature.PassThrough = 1.0.
func Synthesize(t *tree.Fragment) *grammar.Root {
	root := grammar.NewRoot()
	for nodeIdx, node := range t.Nodes {
		rule := ruleFor(t, node)
		tokens := tokensFor(node)
		root.Insert(initialState, tokens, rule)
		tracer().Debugf("passthrough: node %d (%s): arity %d", nodeIdx, t.Table.Name(node.LHS.ID()), rule.Arity)
	}
	return root
}

// tokensFor returns the trie path a pass-through rule's synthetic
// fragment walks: the node's LHS, then every RHS child re-tagged as a
// bare frontier (nonterminal children never descend literally).
func tokensFor(node tree.Node) []symbol.Symbol {
	toks := make([]symbol.Symbol, 0, len(node.RHS)+1)
	toks = append(toks, node.LHS)
	for _, child := range node.RHS {
		if child.IsTerminal() {
			toks = append(toks, child)
			continue
		}
		toks = append(toks, child.AsFrontier())
	}
	return toks
}

// ruleFor builds the identity rule for one input-tree node: source and
// target sides are the same children, in the same order, with
// nonterminal children replaced by left-to-right indexed variables on
// the target side.
func ruleFor(t *tree.Fragment, node tree.Node) *grammar.Rule {
	target := make([]grammar.TargetSym, 0, len(node.RHS))
	varIdx := 0
	for _, child := range node.RHS {
		if child.IsTerminal() {
			target = append(target, grammar.TargetSym{Terminal: t.Table.Name(child.ID())})
			continue
		}
		target = append(target, grammar.TargetSym{IsVariable: true, VarIndex: varIdx})
		varIdx++
	}
	return &grammar.Rule{
		LHS:    node.LHS.ID(),
		Arity:  varIdx,
		Target: target,
		Features: feature.Vector{
			feature.PassThrough: 1.0,
		},
	}
}

// Describe renders the source side of a node's synthesized rule as
// "(LHS [C1] w2 [C3])", for tracing and tests. The target side is not
// included.
func Describe(t *tree.Fragment, node tree.Node) string {
	s := "(" + t.Table.Name(node.LHS.ID())
	for _, child := range node.RHS {
		if child.IsTerminal() {
			s += " " + t.Table.Name(child.ID())
		} else {
			s += " [" + t.Table.Name(child.ID()) + "]"
		}
	}
	return fmt.Sprintf("%s)", s)
}
