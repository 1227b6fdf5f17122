package phases

import (
	"context"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/graphcheck"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow/activity"
)

// GraphPhase counts nodes/edges and validates referential integrity. It
// never fails the workflow on a discrepancy — only logs it.
type GraphPhase struct {
	Checker *graphcheck.Checker
}

func (p *GraphPhase) Phase() knowledge.Phase { return knowledge.PhaseGraph }

func (p *GraphPhase) Run(ctx context.Context, ac activity.Context, in workflow.Input) (int, error) {
	report, err := p.Checker.Check(ctx, in.KnowledgeID, in.JobID)
	if err != nil {
		return 0, err
	}
	for _, d := range report.Discrepancies {
		ac.Log.Warn("graph discrepancy", "knowledge_id", in.KnowledgeID, "job_id", in.JobID, "detail", d)
	}
	total := report.EdgeCount
	for _, n := range report.NodeCounts {
		total += n
	}
	return total, nil
}
