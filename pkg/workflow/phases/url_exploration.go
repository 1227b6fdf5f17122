package phases

import (
	"context"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/urlexplore"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow/activity"
)

// URLExplorationPhase runs deeper live-DOM exploration for every website
// source in the job, three at a time,. It is a no-op when
// none of the job's sources are website URLs.
type URLExplorationPhase struct {
	Explorer *urlexplore.Explorer
}

func (p *URLExplorationPhase) Phase() knowledge.Phase { return knowledge.PhaseURLExploration }

func (p *URLExplorationPhase) Run(ctx context.Context, ac activity.Context, in workflow.Input) (int, error) {
	var targets []urlexplore.Target
	for _, s := range in.Sources {
		if s.Type != knowledge.SourceTypeWebsite && s.Type != knowledge.SourceTypeWebsiteDocumentation {
			continue
		}
		targets = append(targets, urlexplore.Target{URL: s.URLOrPath, ExtractedFrom: "documentation"})
	}
	if len(targets) == 0 {
		return 0, nil
	}

	results, err := p.Explorer.ExploreAll(ctx, in.WorkflowID, in.JobID, in.KnowledgeID, targets)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, r := range results {
		total += r.ScreensFound + r.ActionsFound + r.TasksFound
		for _, e := range r.Errors {
			ac.Log.Warn("url exploration error", "url", r.URL, "error", e)
		}
	}
	return total, nil
}
