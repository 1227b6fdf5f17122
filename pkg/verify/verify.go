// Package verify implements the Verification & Enrichment phase.
// Verification re-queries each extracted screen and task by id and records
// a discrepancy for any that are missing. Enrichment, given that
// discrepancy list, would apply corrections — but degrades gracefully to a
// no-op because this pipeline has no discrepancy store of its own.
package verify

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
)

// VerificationResult reports which screen/task ids, out of the full set
// extracted for a (knowledge_id, job_id), could not be re-queried.
type VerificationResult struct {
	DiscrepancyIDs []string
}

// EnrichmentResult reports how many entities enrichment touched. In this
// pipeline it is always zero — see package doc.
type EnrichmentResult struct {
	EnrichmentsApplied int
	UpdatedEntityIDs []string
}

// Verifier re-queries persisted screens and tasks by id.
type Verifier struct {
	Store *store.Store
}

// Verify loads every screen and task for (knowledgeID, jobID), then
// re-queries each by its own entity_id; any that vanish between the load
// and the re-query (e.g. a concurrent resync deleted them) is recorded as
// a discrepancy.
func (v *Verifier) Verify(ctx context.Context, knowledgeID, jobID string) (*VerificationResult, error) {
	screens, err := store.QueryByKnowledge(ctx, v.Store, knowledge.KindScreen, knowledgeID, jobID, func() *knowledge.Screen { return &knowledge.Screen{} })
	if err != nil {
		return nil, fmt.Errorf("loading screens: %w", err)
	}
	tasks, err := store.QueryByKnowledge(ctx, v.Store, knowledge.KindTask, knowledgeID, jobID, func() *knowledge.Task { return &knowledge.Task{} })
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	var result VerificationResult

	for _, s := range screens {
		exists, err := v.Store.EntityExists(ctx, knowledge.KindScreen, s.EntityID)
		if err != nil {
			return nil, fmt.Errorf("re-querying screen %s: %w", s.EntityID, err)
		}
		if !exists {
			result.DiscrepancyIDs = append(result.DiscrepancyIDs, s.EntityID)
		}
	}
	for _, t := range tasks {
		exists, err := v.Store.EntityExists(ctx, knowledge.KindTask, t.EntityID)
		if err != nil {
			return nil, fmt.Errorf("re-querying task %s: %w", t.EntityID, err)
		}
		if !exists {
			result.DiscrepancyIDs = append(result.DiscrepancyIDs, t.EntityID)
		}
	}

	return &result, nil
}

// Enricher applies corrections for discrepancies found during Verify.
type Enricher struct {
	Store *store.Store
}

// Enrich is a deliberate no-op: this pipeline has no discrepancy store to
// drive corrections from, so it degrades gracefully and reports zero
// enrichments. The discrepancy ids are still returned unchanged so a
// caller can act on them directly if it chooses.
func (en *Enricher) Enrich(ctx context.Context, discrepancyIDs []string) (*EnrichmentResult, error) {
	return &EnrichmentResult{EnrichmentsApplied: 0, UpdatedEntityIDs: nil}, nil
}
