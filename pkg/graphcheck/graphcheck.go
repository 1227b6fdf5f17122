// Package graphcheck implements the Graph Phase: it does not
// build an in-memory graph (that stays an optional agent-side concern) but
// counts nodes and edges under a knowledge_id/job_id and validates that every
// transition references screens present in the set, reporting discrepancies
// as non-fatal errors.
package graphcheck

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
)

// Report summarizes the graph phase's findings. It never causes the
// workflow to fail — Discrepancies is informational.
type Report struct {
	NodeCounts map[knowledge.EntityKind]int
	EdgeCount int
	Discrepancies []string
}

// Checker counts nodes/edges and validates referential integrity for one
// (knowledge_id, job_id).
type Checker struct {
	Store *store.Store
}

var nodeKinds = []knowledge.EntityKind{
	knowledge.KindScreen,
	knowledge.KindTask,
	knowledge.KindAction,
	knowledge.KindBusinessFunction,
	knowledge.KindWorkflow,
	knowledge.KindUserFlow,
}

func (c *Checker) Check(ctx context.Context, knowledgeID, jobID string) (*Report, error) {
	report := &Report{NodeCounts: make(map[knowledge.EntityKind]int, len(nodeKinds))}

	screens, err := store.QueryByKnowledge(ctx, c.Store, knowledge.KindScreen, knowledgeID, jobID, func() *knowledge.Screen { return &knowledge.Screen{} })
	if err != nil {
		return nil, fmt.Errorf("loading screens: %w", err)
	}
	report.NodeCounts[knowledge.KindScreen] = len(screens)

	transitions, err := store.QueryByKnowledge(ctx, c.Store, knowledge.KindTransition, knowledgeID, jobID, func() *knowledge.Transition { return &knowledge.Transition{} })
	if err != nil {
		return nil, fmt.Errorf("loading transitions: %w", err)
	}
	report.EdgeCount = len(transitions)

	for _, kind := range nodeKinds {
		if kind == knowledge.KindScreen {
			continue // already counted above
		}
		n, err := countKind(ctx, c.Store, kind, knowledgeID, jobID)
		if err != nil {
			return nil, fmt.Errorf("counting %s: %w", kind, err)
		}
		report.NodeCounts[kind] = n
	}

	report.Discrepancies = findDiscrepancies(screens, transitions)

	return report, nil
}

// findDiscrepancies reports every transition whose from/to screen id is
// empty or absent from screens. Pulled out as a pure function so it is
// testable without a store.
func findDiscrepancies(screens []*knowledge.Screen, transitions []*knowledge.Transition) []string {
	screenIDs := make(map[string]bool, len(screens))
	for _, s := range screens {
		screenIDs[s.EntityID] = true
	}

	var discrepancies []string
	for _, t := range transitions {
		if t.FromScreenID == "" || !screenIDs[t.FromScreenID] {
			discrepancies = append(discrepancies, fmt.Sprintf("transition %s references unknown from_screen_id %q", t.EntityID, t.FromScreenID))
		}
		if t.ToScreenID == "" || !screenIDs[t.ToScreenID] {
			discrepancies = append(discrepancies, fmt.Sprintf("transition %s references unknown to_screen_id %q", t.EntityID, t.ToScreenID))
		}
	}
	return discrepancies
}

// countKind loads entities of a kind only to measure cardinality; the graph
// phase needs counts, not the entities themselves, but QueryByKnowledge's
// generic shape requires materializing them.
func countKind(ctx context.Context, s *store.Store, kind knowledge.EntityKind, knowledgeID, jobID string) (int, error) {
	switch kind {
	case knowledge.KindTask:
		items, err := store.QueryByKnowledge(ctx, s, kind, knowledgeID, jobID, func() *knowledge.Task { return &knowledge.Task{} })
		return len(items), err
	case knowledge.KindAction:
		items, err := store.QueryByKnowledge(ctx, s, kind, knowledgeID, jobID, func() *knowledge.Action { return &knowledge.Action{} })
		return len(items), err
	case knowledge.KindBusinessFunction:
		items, err := store.QueryByKnowledge(ctx, s, kind, knowledgeID, jobID, func() *knowledge.BusinessFunction { return &knowledge.BusinessFunction{} })
		return len(items), err
	case knowledge.KindWorkflow:
		items, err := store.QueryByKnowledge(ctx, s, kind, knowledgeID, jobID, func() *knowledge.OperationalWorkflow { return &knowledge.OperationalWorkflow{} })
		return len(items), err
	case knowledge.KindUserFlow:
		items, err := store.QueryByKnowledge(ctx, s, kind, knowledgeID, jobID, func() *knowledge.UserFlow { return &knowledge.UserFlow{} })
		return len(items), err
	default:
		return 0, fmt.Errorf("unsupported kind %s", kind)
	}
}
