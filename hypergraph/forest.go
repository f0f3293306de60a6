// Package hypergraph implements the minimal hypergraph the composition
// engine builds into and the forest finalizer operates on (spec §4.F/
// §4.G): nodes labeled by category, edges carrying a rule's tail-node
// list and feature vector, topological sort from a goal node,
// reweighting, and dead-edge pruning.
//
// Shaped like lr/sppf.Forest's node/edge split, but flattened to a
// single tail-edge model: a tree-to-string rule's arity already fixes
// how many children an edge has, so there is no need for sppf's
// separate symbol-node/rhs-node layering (that split exists there to
// let an SPPF share rhs-nodes across ambiguous binarized items; this
// hypergraph shares whole nodes directly, keyed by the translator's own
// TransducerState, before an edge is ever added).
package hypergraph

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"

	"github.com/hkvist/t2s/feature"
	"github.com/hkvist/t2s/grammar"
)

// Node is a hypergraph node: one memoized TransducerState, labeled by
// the category of the input subtree it covers.
type Node struct {
	ID       int
	Label    string // head category name of the covered input subtree
	NodeHash uint64 // hash of the TransducerState this node was interned for
	Weight   float64
}

// Edge is one hyperedge: a rule firing with a concrete tail-node list.
type Edge struct {
	ID       int
	Head     int
	Tail     []int
	Rule     *grammar.Rule
	Features feature.Vector
	Weight   float64
}

// Forest is a hypergraph under construction or finalized.
type Forest struct {
	Nodes []*Node
	Edges []*Edge

	incoming map[int][]*Edge // head node id -> edges headed there
	goal     int
	hasGoal  bool
}

// New returns an empty forest.
func New() *Forest {
	return &Forest{incoming: make(map[int][]*Edge)}
}

// AddNode appends a new node and returns it.
func (f *Forest) AddNode(label string, nodeHash uint64) *Node {
	n := &Node{ID: len(f.Nodes), Label: label, NodeHash: nodeHash}
	f.Nodes = append(f.Nodes, n)
	return n
}

// AddEdge appends a new edge headed at head with the given tail, rule,
// and feature vector.
func (f *Forest) AddEdge(head int, tail []int, rule *grammar.Rule, features feature.Vector) *Edge {
	e := &Edge{ID: len(f.Edges), Head: head, Tail: tail, Rule: rule, Features: features}
	f.Edges = append(f.Edges, e)
	f.incoming[head] = append(f.incoming[head], e)
	return e
}

// SetGoal marks nodeID as the composition's tree_top goal.
func (f *Forest) SetGoal(nodeID int) {
	f.goal = nodeID
	f.hasGoal = true
}

// Goal returns the goal node id, if one was set.
func (f *Forest) Goal() (int, bool) {
	return f.goal, f.hasGoal
}

// TopoSortFromGoal returns node ids in an order where every edge's tail
// nodes precede its head, restricted to nodes reachable backward from
// the goal (spec §4.G step 2). It fails if no goal was set.
func (f *Forest) TopoSortFromGoal() ([]int, error) {
	if !f.hasGoal {
		return nil, fmt.Errorf("hypergraph: no goal node set")
	}
	var order []int
	visited := make(map[int]bool)
	var visit func(id int)
	visit = func(id int) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, e := range f.incoming[id] {
			for _, t := range e.Tail {
				visit(t)
			}
		}
		order = append(order, id)
	}
	visit(f.goal)
	return order, nil
}

// Reweight sets every edge's Weight to the dot product of its feature
// vector with weights (spec §4.G step 3), and every node's Weight to
// the max over its incoming edges' (edge weight + sum of tail weights) —
// the Viterbi-best derivation score, the simplest reweighting a
// finalizer can offer a downstream decoder without implementing a full
// semiring framework (out of scope per spec §1).
func (f *Forest) Reweight(weights feature.Vector) error {
	order, err := f.TopoSortFromGoal()
	if err != nil {
		return err
	}
	for _, e := range f.Edges {
		e.Weight = e.Features.Dot(weights)
	}
	for _, id := range order {
		n := f.Nodes[id]
		best := float64(0)
		first := true
		for _, e := range f.incoming[id] {
			score := e.Weight
			for _, t := range e.Tail {
				score += f.Nodes[t].Weight
			}
			if first || score > best {
				best = score
				first = false
			}
		}
		n.Weight = best
	}
	return nil
}

// PruneDeadEdges removes every edge that references a node with no
// surviving derivation, iterating to a fixpoint (spec §4.G step 4). It
// reports false if the goal node itself ends up with no derivation.
func (f *Forest) PruneDeadEdges() bool {
	alive := f.liveNodes()
	keep := f.Edges[:0:0]
	newIncoming := make(map[int][]*Edge)
	for _, e := range f.Edges {
		if !alive[e.Head] {
			continue
		}
		tailOK := true
		for _, t := range e.Tail {
			if !alive[t] {
				tailOK = false
				break
			}
		}
		if !tailOK {
			continue
		}
		keep = append(keep, e)
		newIncoming[e.Head] = append(newIncoming[e.Head], e)
	}
	f.Edges = keep
	f.incoming = newIncoming
	return f.hasGoal && alive[f.goal]
}

// liveNodes computes the set of nodes with at least one derivation: a
// node is live if some edge headed there has an empty tail (a fully
// terminal rule) or a tail made entirely of already-live nodes. This is
// the same least-fixpoint computation as removing unproductive
// nonterminals from a context-free grammar.
func (f *Forest) liveNodes() map[int]bool {
	live := make(map[int]bool, len(f.Nodes))
	changed := true
	for changed {
		changed = false
		for _, e := range f.Edges {
			if live[e.Head] {
				continue
			}
			ok := true
			for _, t := range e.Tail {
				if !live[t] {
					ok = false
					break
				}
			}
			if ok {
				live[e.Head] = true
				changed = true
			}
		}
	}
	return live
}

// ReachableSet returns the node ids reachable backward from the goal,
// ordered by id, as a gods treeset — used by tracing to describe a
// forest without walking Go maps in nondeterministic order.
func (f *Forest) ReachableSet() *treeset.Set {
	set := treeset.NewWith(utils.IntComparator)
	if !f.hasGoal {
		return set
	}
	order, _ := f.TopoSortFromGoal()
	for _, id := range order {
		set.Add(id)
	}
	return set
}
