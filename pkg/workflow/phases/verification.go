package phases

import (
	"context"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/verify"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow/activity"
)

// VerificationPhase re-queries every extracted screen and task by id and
// records a discrepancy for any that are missing.
type VerificationPhase struct {
	Verifier *verify.Verifier
	discrepancyIDs []string
}

func (p *VerificationPhase) Phase() knowledge.Phase { return knowledge.PhaseVerification }

// DiscrepancyIDs returns the ids recorded by the most recent Run, consumed
// by EnrichmentPhase in the next orchestrator step.
func (p *VerificationPhase) DiscrepancyIDs() []string { return p.discrepancyIDs }

func (p *VerificationPhase) Run(ctx context.Context, ac activity.Context, in workflow.Input) (int, error) {
	result, err := p.Verifier.Verify(ctx, in.KnowledgeID, in.JobID)
	if err != nil {
		return 0, err
	}
	p.discrepancyIDs = result.DiscrepancyIDs
	return len(result.DiscrepancyIDs), nil
}
