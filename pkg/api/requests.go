package api

import (
	apierrors "github.com/codeready-toolchain/knowledgepipeline/internal/errors"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow"
)

// startOptions mirrors the "options" object workflow input.
// These options are decoded but not validated, and toInput does not pass
// any of them into workflow.Input: the crawler and explorer run with the
// process-wide internal/config.CrawlConfig.
type startOptions struct {
	MaxPages int `json:"max_pages"`
	MaxDepth int `json:"max_depth"`
	Credentials *credential `json:"credentials"`
	WebsiteURL string `json:"website_url"`
	WebsiteURLs []string `json:"website_urls"`
	ExplorationMaxPages int `json:"exploration_max_pages"`
	ExplorationMaxDepth int `json:"exploration_max_depth"`
	ExtractThumbnails bool `json:"extract_thumbnails"`
}

type credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
	LoginURL string `json:"login_url"`
}

// startRequest is the body of POST /jobs.
type startRequest struct {
	JobID string `json:"job_id" binding:"required"`
	KnowledgeID string `json:"knowledge_id" binding:"required"`
	SourceType string `json:"source_type"`
	SourceURL string `json:"source_url"`
	SourceURLs []string `json:"source_urls"`
	SourceName string `json:"source_name"`
	SourceNames []string `json:"source_names"`
	Options startOptions `json:"options"`
}

// toInput validates "exactly one of source_url or source_urls"
// and builds the workflow.Input the orchestrator actually runs.
func (r *startRequest) toInput(workflowID string) (workflow.Input, error) {
	hasSingle := r.SourceURL != ""
	hasMulti := len(r.SourceURLs) > 0
	if hasSingle == hasMulti {
		return workflow.Input{}, apierrors.NewValidationError("source_url", "exactly one of source_url or source_urls is required")
	}

	srcType := knowledge.SourceType(r.SourceType)

	var sources []workflow.Source
	if hasSingle {
		sources = append(sources, workflow.Source{URLOrPath: r.SourceURL, Name: r.SourceName, Type: srcType})
	} else {
		names := r.SourceNames
		for i, u := range r.SourceURLs {
			name := ""
			if i < len(names) {
				name = names[i]
			}
			sources = append(sources, workflow.Source{URLOrPath: u, Name: name, Type: srcType})
		}
	}

	return workflow.Input{
		WorkflowID: workflowID,
		JobID: r.JobID,
		KnowledgeID: r.KnowledgeID,
		Sources: sources,
	}, nil
}

// assistRequest is the body of POST /assist: a high-level instruction the
// agent-assistance endpoint translates into a browser action sequence.
type assistRequest struct {
	Instruction string `json:"instruction" binding:"required"`
	CurrentURL string `json:"current_url"`
}
