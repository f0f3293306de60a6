// Package grammar implements the grammar trie (spec §4.C/§4.D): a
// transducer-state-indexed trie over the flat symbol stream of a rule's
// source-side tree fragment, with translation rules attached at the
// trie node a fragment's tokens walk to.
//
// The shape follows Tree2StringGrammarNode from tree2string_translator.cc
// (a map keyed by symbol, plus a rules slice at every node) with the
// top-level map keyed by transducer state instead of being folded into
// the same symbol space, matching this repo's symbol.Symbol encoding
// where a transducer state is not itself a Symbol.
package grammar

import (
	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/hkvist/t2s/feature"
	"github.com/hkvist/t2s/symbol"
)

// Rule is one translation rule attached at a trie node: the target-side
// output template and the weighted feature vector CreateEdge copies onto
// the hypergraph edge it produces.
type Rule struct {
	// LHS is the source-side head category id.
	LHS uint32
	// Arity is the number of RHS nonterminal positions the rule consumes;
	// it must equal len(future_work) wherever the rule fires (spec §4.F).
	Arity int
	// Target holds the output template: a mix of literal target words
	// and nonterminal slots, indexed by the order variables are visited
	// during composition (the rhse/rhsf convention of
	// CreateEdge/CreatePassThroughRules).
	Target []TargetSym
	// Features is the rule's static feature vector, copied verbatim onto
	// every hypergraph edge this rule produces.
	Features feature.Vector
}

// TargetSym is one token of a rule's target-side template.
type TargetSym struct {
	// Terminal holds the literal surface word; valid iff !IsVariable.
	Terminal string
	// VarIndex selects which RHS nonterminal (in visitation order) to
	// substitute; valid iff IsVariable.
	VarIndex int
	IsVariable bool
}

// TrieNode is one node of the grammar trie: transitions keyed by the
// exact Symbol value seen (so an RHSFrontier and an RHSEntry transition
// of the same category id are distinct children, as spec §4.F's
// independent variable/exact matches require), plus the rules that
// complete here.
type TrieNode struct {
	id    int
	next  map[symbol.Symbol]*TrieNode
	Rules *arraylist.List
}

var trieNodeSeq int

func newTrieNode() *TrieNode {
	trieNodeSeq++
	return &TrieNode{
		id:    trieNodeSeq,
		next:  make(map[symbol.Symbol]*TrieNode),
		Rules: arraylist.New(),
	}
}

// ID returns a small integer identifying this node within its process,
// stable for the node's lifetime. The composition engine's dedup key
// uses it in place of the node's pointer so that dedup keys stay plain,
// hashable values.
func (n *TrieNode) ID() int {
	return n.id
}

// Step returns the child reached by consuming sym, if any.
func (n *TrieNode) Step(sym symbol.Symbol) (*TrieNode, bool) {
	child, ok := n.next[sym]
	return child, ok
}

// HasRules reports whether any rule completes at this node.
func (n *TrieNode) HasRules() bool {
	return n.Rules.Size() > 0
}

// child returns (creating if necessary) the child reached by consuming
// sym, used while inserting a rule's fragment token stream.
func (n *TrieNode) child(sym symbol.Symbol) *TrieNode {
	c, ok := n.next[sym]
	if !ok {
		c = newTrieNode()
		n.next[sym] = c
	}
	return c
}

// Root is the top of one grammar: a trie keyed first by transducer state
// (spec's `g.next[transducer_state]`), then by symbol.
type Root struct {
	states map[uint32]*TrieNode
}

// NewRoot returns an empty grammar trie.
func NewRoot() *Root {
	return &Root{states: make(map[uint32]*TrieNode)}
}

// State returns the trie node for transducer state q, if this grammar
// defines any rules reachable in that state.
func (r *Root) State(q uint32) (*TrieNode, bool) {
	n, ok := r.states[q]
	return n, ok
}

// stateNode returns (creating if necessary) the trie node for state q.
func (r *Root) stateNode(q uint32) *TrieNode {
	n, ok := r.states[q]
	if !ok {
		n = newTrieNode()
		r.states[q] = n
	}
	return n
}

// Insert walks (creating as needed) the trie path for tokens, starting
// from transducer state q, and attaches rule at the resulting node.
func (r *Root) Insert(q uint32, tokens []symbol.Symbol, rule *Rule) {
	cur := r.stateNode(q)
	for _, sym := range tokens {
		cur = cur.child(sym)
	}
	cur.Rules.Add(rule)
}
