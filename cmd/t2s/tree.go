package main

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/hkvist/t2s/hypergraph"
)

// bestDerivationTree renders the Viterbi-best derivation rooted at node
// as a pterm.TreeNode, recursing into each chosen edge's tail. Grounded
// on trepl/repl.go's leveledElem/indentedListFrom: that walks a
// TeREx GCons s-expr into a pterm.TreeNode tree the same way this walks
// a hypergraph derivation.
func bestDerivationTree(hg *hypergraph.Forest, node int) pterm.TreeNode {
	n := hg.Nodes[node]
	t := pterm.TreeNode{Text: fmt.Sprintf("%s [%.3g]", n.Label, n.Weight)}
	edge := bestEdge(hg, node)
	if edge == nil {
		return t
	}
	t.Text += " " + ruleSummary(edge)
	for _, tail := range edge.Tail {
		t.Children = append(t.Children, bestDerivationTree(hg, tail))
	}
	return t
}

// bestEdge returns the edge incoming to node whose score (its own weight
// plus the sum of its tail nodes' weights) matches the node's own
// Weight — the derivation Reweight picked as best. Returns nil for a
// node with no incoming edges at all (shouldn't happen after pruning,
// but tree.go is display code, not an invariant enforcer).
func bestEdge(hg *hypergraph.Forest, node int) *hypergraph.Edge {
	var best *hypergraph.Edge
	for _, e := range hg.Edges {
		if e.Head != node {
			continue
		}
		score := e.Weight
		for _, t := range e.Tail {
			score += hg.Nodes[t].Weight
		}
		if score == hg.Nodes[node].Weight {
			best = e
			break
		}
	}
	return best
}

// ruleSummary renders a rule's target template as the flat string a
// human reads a derivation by, e.g. "-> saw [1] the [2]".
func ruleSummary(e *hypergraph.Edge) string {
	s := "->"
	for _, sym := range e.Rule.Target {
		if sym.IsVariable {
			s += fmt.Sprintf(" [%d]", sym.VarIndex+1)
		} else {
			s += " " + sym.Terminal
		}
	}
	return s
}
