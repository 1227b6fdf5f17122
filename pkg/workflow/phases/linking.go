package phases

import (
	"context"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/linker"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow/activity"
)

// LinkingPhase runs the five bidirectional linking passes over every
// extracted entity of the job.
type LinkingPhase struct {
	Linker *linker.Linker
}

func (p *LinkingPhase) Phase() knowledge.Phase { return knowledge.PhaseLinking }

func (p *LinkingPhase) Run(ctx context.Context, ac activity.Context, in workflow.Input) (int, error) {
	if err := p.Linker.Link(ctx, in.KnowledgeID, in.JobID); err != nil {
		return 0, err
	}
	return 1, nil
}
