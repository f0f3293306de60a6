package compose

import (
	"fmt"
	"hash/fnv"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"

	"github.com/hkvist/t2s/grammar"
	"github.com/hkvist/t2s/hypergraph"
	"github.com/hkvist/t2s/tree"
)

// tracer traces with key 't2s.compose'.
func tracer() tracing.Trace {
	return tracing.Select("t2s.compose")
}

// T traces to the global syntax tracer.
func T() tracing.Trace {
	return gtrace.SyntaxTracer
}

// initialState is the only transducer state this core's grammars index
// rules under (spec §9 Open Questions).
const initialState uint32 = 0

// Result is a raw, not-yet-finalized hypergraph plus the TransducerState
// the forest finalizer should look up as its goal.
type Result struct {
	Forest      *hypergraph.Forest
	Goal        TransducerState
	GoalNode    int
	HasGoalNode bool
}

// Compose runs the BFS composition engine of spec §4.F: it walks input
// against every grammar in grammars simultaneously, producing a raw
// hypergraph. Compose itself never sorts, reweights, or prunes the
// forest — that is the forest package's job (spec §4.G).
func Compose(grammars []*grammar.Root, input *tree.Fragment) (*Result, error) {
	q := linkedlistqueue.New()
	seen := make(map[string]bool)
	x2hg := make(map[TransducerState]*hypergraph.Node)
	hg := hypergraph.New()

	goal := TransducerState{InputNodeIdx: 0, State: initialState}

	for _, g := range grammars {
		node, ok := g.State(initialState)
		if !ok {
			continue
		}
		s := ParserState{
			InIter: input.Begin(0),
			Task:   goal,
			Node:   node,
		}
		if markSeen(seen, s) {
			q.Enqueue(s)
		}
	}
	if q.Empty() {
		return nil, fmt.Errorf("compose: no grammar defines transducer state %d", initialState)
	}

	for !q.Empty() {
		v, _ := q.Dequeue()
		s := v.(ParserState)

		if s.InIter.AtEnd() {
			completeSubtree(s, grammars, input, hg, x2hg, q, seen)
			continue
		}

		sym := s.InIter.Current()
		switch {
		case sym.IsLHS():
			if child, ok := s.Node.Step(sym); ok {
				enqueue(q, seen, ParserState{
					InIter:     s.InIter.Advance(),
					Task:       s.Task,
					FutureWork: s.FutureWork,
					Node:       child,
				})
			}
		case sym.IsRHS():
			variable := s.InIter.Truncate()
			exactChild, hasExact := s.Node.Step(sym)
			varChild, hasVar := s.Node.Step(variable.Current())
			if hasVar {
				newTask := TransducerState{InputNodeIdx: s.InIter.ChildNode(), State: initialState}
				enqueue(q, seen, ParserState{
					InIter:     variable.Advance(),
					Task:       s.Task,
					FutureWork: appendTask(s.FutureWork, newTask),
					Node:       varChild,
				})
			}
			if hasExact {
				enqueue(q, seen, ParserState{
					InIter:     s.InIter.Advance(),
					Task:       s.Task,
					FutureWork: s.FutureWork,
					Node:       exactChild,
				})
			}
		case sym.IsTerminal():
			if child, ok := s.Node.Step(sym); ok {
				enqueue(q, seen, ParserState{
					InIter:     s.InIter.Advance(),
					Task:       s.Task,
					FutureWork: s.FutureWork,
					Node:       child,
				})
			}
		default:
			panic(fmt.Sprintf("compose: unreachable token kind for symbol %v", sym))
		}
	}

	tracer().Debugf("compose: produced %d node(s), %d edge(s)", len(hg.Nodes), len(hg.Edges))
	result := &Result{Forest: hg, Goal: goal}
	if n, ok := x2hg[goal]; ok {
		result.GoalNode, result.HasGoalNode = n.ID, true
	}
	return result, nil
}

// completeSubtree implements spec §4.F Case 1: the iterator has
// consumed a whole subtree, so any rules attached at s.Node now apply to
// the input subtree s.Task covers.
func completeSubtree(
	s ParserState,
	grammars []*grammar.Root,
	input *tree.Fragment,
	hg *hypergraph.Forest,
	x2hg map[TransducerState]*hypergraph.Node,
	q *linkedlistqueue.Queue,
	seen map[string]bool,
) {
	if !s.Node.HasRules() {
		return
	}
	head := internNode(hg, x2hg, input, s.Task)
	tail := make([]int, len(s.FutureWork))
	for i, n := range s.FutureWork {
		tail[i] = internNode(hg, x2hg, input, n).ID
	}
	for _, v := range s.Node.Rules.Values() {
		r := v.(*grammar.Rule)
		if len(tail) != r.Arity {
			panic(fmt.Sprintf("compose: rule arity %d does not match matched tail length %d", r.Arity, len(tail)))
		}
		hg.AddEdge(head.ID, tail, r, r.Features)
	}
	for _, n := range s.FutureWork {
		for _, g := range grammars {
			node, ok := g.State(n.State)
			if !ok {
				continue
			}
			child := ParserState{
				InIter: input.Begin(n.InputNodeIdx),
				Task:   n,
				Node:   node,
			}
			enqueue(q, seen, child)
		}
	}
}

// internNode interns (or creates) the hypergraph node for t, labeled
// with the head category of the input subtree it covers.
func internNode(hg *hypergraph.Forest, x2hg map[TransducerState]*hypergraph.Node, input *tree.Fragment, t TransducerState) *hypergraph.Node {
	if n, ok := x2hg[t]; ok {
		return n
	}
	label := input.Table.Name(input.Nodes[t.InputNodeIdx].LHS.ID())
	n := hg.AddNode(label, nodeHash(t))
	x2hg[t] = n
	return n
}

// nodeHash reduces a TransducerState's structhash digest to a uint64,
// mirroring cdec's std::hash<TransducerState> specialization: every node
// created for the same TransducerState gets the same stable identity.
func nodeHash(t TransducerState) uint64 {
	digest, err := structhash.Hash(t, 1)
	if err != nil {
		panic(err)
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(digest))
	return h.Sum64()
}

func appendTask(work []TransducerState, t TransducerState) []TransducerState {
	out := make([]TransducerState, len(work)+1)
	copy(out, work)
	out[len(work)] = t
	return out
}

func enqueue(q *linkedlistqueue.Queue, seen map[string]bool, s ParserState) {
	if markSeen(seen, s) {
		q.Enqueue(s)
	}
}

func markSeen(seen map[string]bool, s ParserState) bool {
	digest, err := structhash.Hash(keyOf(s), 1)
	if err != nil {
		panic(err)
	}
	if seen[digest] {
		return false
	}
	seen[digest] = true
	return true
}
