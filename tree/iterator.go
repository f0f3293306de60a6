package tree

import "github.com/hkvist/t2s/symbol"

// Iterator is a cheap, copyable cursor over one subtree's children, as
// described in spec §3/§4.B. Two iterators compare equal with == iff
// they reference the same fragment and are at the same logical
// position, matching §3's "Equality: ... iterator equality is positional".
type Iterator struct {
	frag      *Fragment
	pos       int
	nodeEnd   int
	truncated bool
}

// AtEnd reports whether the iterator has consumed every child of its
// subtree.
func (it Iterator) AtEnd() bool {
	return it.pos >= it.nodeEnd
}

// Position is an Iterator's hashable positional identity, exposed for
// building dedup keys (spec §3: "iterator equality is positional").
// Two iterators with equal Position values behave identically from here
// on, regardless of how they were reached.
type Position struct {
	Pos       int
	NodeEnd   int
	Truncated bool
}

// Pos returns it's Position.
func (it Iterator) Pos() Position {
	return Position{Pos: it.pos, NodeEnd: it.nodeEnd, Truncated: it.truncated}
}

// Current returns the symbol under the cursor ("*in_iter"). Calling it
// when AtEnd is true is a caller error.
func (it Iterator) Current() symbol.Symbol {
	sym := it.frag.stream[it.pos]
	if it.truncated {
		return sym.AsFrontier()
	}
	return sym
}

// NodeIdx returns the node index of the current position's enclosing
// subtree, i.e. the node whose Begin produced (a descendant of) this
// iterator's starting position. It matches cdec's it.node_idx(), used
// to build the TransducerState task a ParserState is working on.
func (it Iterator) NodeIdx() int {
	for i, close := range it.frag.nodeClose {
		if close == it.nodeEnd {
			return i
		}
	}
	panic("tree: iterator has no enclosing node")
}

// Truncate returns a copy of it that, for one subsequent Advance,
// reinterprets the current RHSEntry position as its bare-frontier
// projection and skips the entire subtree in one step. It does not
// itself move the cursor (see package doc).
func (it Iterator) Truncate() Iterator {
	cp := it
	cp.truncated = true
	return cp
}

// ChildNode returns the node index of the subtree about to be entered.
// Valid only when Current() is (untruncated) an RHSEntry symbol.
func (it Iterator) ChildNode() int {
	idx, ok := it.frag.childAt[it.pos]
	if !ok {
		panic("tree: ChildNode called at a non-subtree position")
	}
	return idx
}

// Advance returns the iterator stepped one position ("++in_iter"),
// transparently skipping any structural close markers that belong to a
// subtree nested below this iterator's own level. If the iterator was
// truncated, the step instead skips past the entire subtree at the
// current position.
func (it Iterator) Advance() Iterator {
	var next int
	if it.truncated {
		close, ok := it.frag.matchingClose[it.pos]
		if !ok {
			panic("tree: Advance truncated at a non-subtree position")
		}
		next = close + 1
	} else {
		next = it.pos + 1
	}
	for next < it.nodeEnd && it.frag.stream[next].IsClose() {
		next++
	}
	return Iterator{frag: it.frag, pos: next, nodeEnd: it.nodeEnd}
}
