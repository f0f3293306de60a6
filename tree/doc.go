// Package tree implements tree fragments: the common textual syntax shared
// by grammar rule left-hand sides and input parse trees,
// "(LHS child1 child2 …)" with bare words as terminals and "[X]" as a
// frontier (variable) position, together with the linear iterator the
// composition engine walks.
//
// A Fragment stores its tokens as one flat preorder stream (mirroring
// cdec::TreeFragment's own internal representation, as used by
// tree2string_translator.cc) plus a parallel node table giving O(1)
// access to a subtree's head symbol and children. Every nonterminal
// child position is tagged symbol.RHSEntry if it is immediately
// followed by the LHS token of its own subtree, or symbol.RHSFrontier
// if it is a bare "[X]" leaf with no further expansion. Iterator.Truncate
// reinterprets an RHSEntry position as its RHSFrontier projection without
// moving the cursor; a subsequent Advance then skips the whole subtree,
// which is how the composition engine tries a "treat this child as an
// opaque variable" match and a "match this child's literal internal
// structure" match as two independent continuations from the same point.
package tree

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 't2s.tree'.
func tracer() tracing.Trace {
	return tracing.Select("t2s.tree")
}

// T traces to the global syntax tracer, for call sites that have not yet
// selected a specific tracer.
func T() tracing.Trace {
	return gtrace.SyntaxTracer
}
