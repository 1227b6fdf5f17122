package phases

import (
	"context"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/verify"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow/activity"
)

// EnrichmentPhase applies corrections for the discrepancies the preceding
// VerificationPhase recorded. It degrades to a no-op (see pkg/verify) but
// still reports the count "returns counts of enrichments
// applied" contract.
type EnrichmentPhase struct {
	Enricher *verify.Enricher
	Verification *VerificationPhase
}

func (p *EnrichmentPhase) Phase() knowledge.Phase { return knowledge.PhaseEnrichment }

func (p *EnrichmentPhase) Run(ctx context.Context, ac activity.Context, in workflow.Input) (int, error) {
	var discrepancyIDs []string
	if p.Verification != nil {
		discrepancyIDs = p.Verification.DiscrepancyIDs()
	}
	result, err := p.Enricher.Enrich(ctx, discrepancyIDs)
	if err != nil {
		return 0, err
	}
	return result.EnrichmentsApplied, nil
}
