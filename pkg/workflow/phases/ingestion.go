// Package phases implements the seven PhaseRunners the orchestrator in
// pkg/workflow drives in knowledge.OrderedPhases order, wiring together
// pkg/ingest, pkg/extract, pkg/linker, pkg/graphcheck, pkg/crawler, and
// pkg/verify behind the workflow.PhaseRunner interface.
package phases

import (
	"context"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/ingest"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow/activity"
)

// IngestionPhase runs every source through the router and persists results.
type IngestionPhase struct {
	Router *ingest.Router
}

func (p *IngestionPhase) Phase() knowledge.Phase { return knowledge.PhaseIngestion }

func (p *IngestionPhase) Run(ctx context.Context, ac activity.Context, in workflow.Input) (int, error) {
	sources := make([]ingest.Source, len(in.Sources))
	for i, s := range in.Sources {
		sources[i] = ingest.Source{URLOrPath: s.URLOrPath, Name: s.Name, Type: s.Type}
	}

	results, err := p.Router.RunAll(ctx, ac, in.WorkflowID, in.JobID, in.KnowledgeID, sources)
	if err != nil {
		return len(results), err
	}
	return len(results), nil
}
