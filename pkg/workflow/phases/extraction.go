package phases

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/extract"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow/activity"
)

// ExtractionPhase runs the six-extractor bank plus the user-flow
// synthesizer over every successful ingestion of the job.
type ExtractionPhase struct {
	Screens *extract.ScreenExtractor
	Tasks *extract.TaskExtractor
	Actions *extract.ActionExtractor
	Transitions *extract.TransitionExtractor
	Business *extract.BusinessFunctionExtractor
	Workflows *extract.OperationalWorkflowExtractor
	UserFlows *extract.UserFlowSynthesizer
}

func (p *ExtractionPhase) Phase() knowledge.Phase { return knowledge.PhaseExtraction }

func (p *ExtractionPhase) Run(ctx context.Context, ac activity.Context, in workflow.Input) (int, error) {
	ingestions, err := ac.Store.LoadIngestionResults(ctx, in.KnowledgeID, in.JobID)
	if err != nil {
		return 0, fmt.Errorf("loading ingestion results: %w", err)
	}

	var ingestionIDs []string
	for _, r := range ingestions {
		if r.Success {
			ingestionIDs = append(ingestionIDs, r.IngestionID)
		}
	}

	websiteID := workflow.DeriveWebsiteID(in.Sources)
	total := 0

	screens, err := p.Screens.Extract(ctx, ingestionIDs, websiteID, in.KnowledgeID, in.JobID)
	if err != nil {
		return total, fmt.Errorf("screen extraction: %w", err)
	}
	total += store.BulkSaveEntities(ctx, p.Screens.Store, knowledge.KindScreen, screens.Entities).Saved

	tasks, err := p.Tasks.Extract(ctx, ingestionIDs, websiteID, in.KnowledgeID, in.JobID)
	if err != nil {
		return total, fmt.Errorf("task extraction: %w", err)
	}
	total += store.BulkSaveEntities(ctx, p.Tasks.Store, knowledge.KindTask, tasks.Entities).Saved

	actions, err := p.Actions.Extract(ctx, ingestionIDs, websiteID, in.KnowledgeID, in.JobID)
	if err != nil {
		return total, fmt.Errorf("action extraction: %w", err)
	}
	total += store.BulkSaveEntities(ctx, p.Actions.Store, knowledge.KindAction, actions.Entities).Saved

	transitions, err := p.Transitions.Extract(ctx, ingestionIDs, websiteID, in.KnowledgeID, in.JobID)
	if err != nil {
		return total, fmt.Errorf("transition extraction: %w", err)
	}
	total += store.BulkSaveEntities(ctx, p.Transitions.Store, knowledge.KindTransition, transitions.Entities).Saved

	businessFns, err := p.Business.Extract(ctx, ingestionIDs, websiteID, in.KnowledgeID, in.JobID)
	if err != nil {
		return total, fmt.Errorf("business function extraction: %w", err)
	}
	total += store.BulkSaveEntities(ctx, p.Business.Store, knowledge.KindBusinessFunction, businessFns.Entities).Saved

	ops, err := p.Workflows.Extract(ctx, ingestionIDs, websiteID, in.KnowledgeID, in.JobID)
	if err != nil {
		return total, fmt.Errorf("operational workflow extraction: %w", err)
	}
	total += store.BulkSaveEntities(ctx, p.Workflows.Store, knowledge.KindWorkflow, ops.Entities).Saved

	flows, err := p.UserFlows.Synthesize(ctx, in.KnowledgeID, in.JobID, websiteID)
	if err != nil {
		return total, fmt.Errorf("user flow synthesis: %w", err)
	}
	total += store.BulkSaveEntities(ctx, p.UserFlows.Store, knowledge.KindUserFlow, flows).Saved

	return total, nil
}
