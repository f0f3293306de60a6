package tree

import "github.com/hkvist/t2s/symbol"

// Node is one subtree of a Fragment: its head symbol and the flat list
// of its children's position symbols (terminals pass through; a
// nonterminal child is either symbol.RHSFrontier, with no further
// expansion stored in the fragment, or symbol.RHSEntry, whose subtree
// is reachable via Fragment.ChildOf).
type Node struct {
	LHS symbol.Symbol
	RHS []symbol.Symbol
}

// Fragment is an ordered preorder token stream representing a
// (possibly nested) tree, together with a node table for random access.
// Construct one with Parse.
type Fragment struct {
	Nodes  []Node
	Table  *symbol.Table
	stream []symbol.Symbol

	nodeStart     []int       // node index -> stream index of its LHS token
	nodeClose     []int       // node index -> stream index of its Close token
	childAt       map[int]int // stream index of an RHSEntry token -> child node index
	matchingClose map[int]int // stream index of an RHSEntry token -> stream index of the Close token ending that child's subtree
}

// RootLHS returns the head symbol of the fragment's root subtree.
func (f *Fragment) RootLHS() symbol.Symbol {
	return f.Nodes[0].LHS
}

// ChildOf returns the node index a child position (begun via an
// Iterator positioned at an RHSEntry symbol) opens.
func (f *Fragment) ChildOf(streamPos int) (int, bool) {
	idx, ok := f.childAt[streamPos]
	return idx, ok
}

// Begin returns an iterator positioned at the LHS token of the subtree
// rooted at nodeIdx. A grammar trie's first transition out of a
// transducer-state root is keyed by a rule's own LHS symbol (see
// grammar.Root.Insert), so a fresh composition walk over an input
// subtree must present that same LHS symbol as its first Current()
// before moving on to the subtree's children.
func (f *Fragment) Begin(nodeIdx int) Iterator {
	return Iterator{
		frag:    f,
		pos:     f.nodeStart[nodeIdx],
		nodeEnd: f.nodeClose[nodeIdx],
	}
}
