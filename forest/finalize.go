// Package forest implements the forest finalizer (spec §4.G): it takes
// the raw hypergraph a composition run produced and turns it into a
// translation forest proper — look up the goal, sort it topologically,
// reweight every edge against a model, and prune dead edges so only
// subtrees with an actual derivation remain.
//
// Grounded on Tree2StringTranslatorImpl::Translate's tail: after the
// while(!q.empty()) loop drains, cdec looks up root_node via x2hg,
// then builds the final Hypergraph (topo sort + pruning are done by
// cdec's own Hypergraph class, out of scope per spec §1 — this package
// is that missing piece, built to the minimal API spec §4.G assumes).
package forest

import (
	"fmt"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"

	"github.com/hkvist/t2s/compose"
	"github.com/hkvist/t2s/feature"
	"github.com/hkvist/t2s/hypergraph"
)

// tracer traces with key 't2s.forest'.
func tracer() tracing.Trace {
	return tracing.Select("t2s.forest")
}

// T traces to the global syntax tracer.
func T() tracing.Trace {
	return gtrace.SyntaxTracer
}

// Finalize runs spec §4.G's four steps over a raw composition Result.
// It reports failure if the goal has no hypergraph node at all, or if
// pruning eliminates every derivation reaching it.
func Finalize(result *compose.Result, weights feature.Vector) (*hypergraph.Forest, error) {
	hg := result.Forest

	if !result.HasGoalNode {
		return nil, fmt.Errorf("forest: no hypergraph node for goal %+v", result.Goal)
	}
	hg.SetGoal(result.GoalNode)

	if _, err := hg.TopoSortFromGoal(); err != nil {
		return nil, fmt.Errorf("forest: topological sort failed: %w", err)
	}

	if err := hg.Reweight(weights); err != nil {
		return nil, fmt.Errorf("forest: reweighting failed: %w", err)
	}

	if ok := hg.PruneDeadEdges(); !ok {
		return nil, fmt.Errorf("forest: goal has no surviving derivation after pruning")
	}

	tracer().Debugf("forest: nodes reachable from goal: %v", hg.ReachableSet())
	tracer().Debugf("forest: finalized %d node(s), %d edge(s)", len(hg.Nodes), len(hg.Edges))
	return hg, nil
}
