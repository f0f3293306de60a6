// Package compose implements the composition engine (spec §4.F): a
// queue-driven breadth-first search that simultaneously walks an input
// tree fragment and one or more grammar tries, memoizing
// (input_node_idx, transducer_state) pairs so that shared sub-derivations
// collapse into a single hypergraph node instead of being duplicated.
//
// Grounded on lr/earley.Parser's own queue+dedup architecture (a FIFO
// worklist of items, paired with a seen-set keyed by a structhash
// digest of each item) and, for the exact transition rules fired at
// each step, on Tree2StringTranslatorImpl::Translate's while(!q.empty())
// loop in tree2string_translator.cc.
package compose

import (
	"github.com/hkvist/t2s/grammar"
	"github.com/hkvist/t2s/tree"
)

// TransducerState identifies "continue the transducer at input subtree
// rooted at InputNodeIdx, in transducer state State." This core only
// ever produces State == 0 (spec §9 Open Questions: multi-state
// transducers are future work), but the field is kept so the type's
// shape matches what a future transition-aware rule format would need.
type TransducerState struct {
	InputNodeIdx int
	State        uint32
}

// ParserState is the composition engine's work-queue item: a position
// in the input tree paired with a position in a grammar trie.
type ParserState struct {
	InIter     tree.Iterator
	Task       TransducerState
	FutureWork []TransducerState
	Node       *grammar.TrieNode
}

// dedupKey is the plain, structhash-friendly projection of a ParserState
// used to populate the "only create items one time" set U. It mirrors
// earley.go's hash(item, state) helper, swapping in this package's own
// fields.
type dedupKey struct {
	NodeID int
	Task   TransducerState
	Future []TransducerState
	Pos    tree.Position
}

func keyOf(s ParserState) dedupKey {
	return dedupKey{
		NodeID: s.Node.ID(),
		Task:   s.Task,
		Future: s.FutureWork,
		Pos:    s.InIter.Pos(),
	}
}
