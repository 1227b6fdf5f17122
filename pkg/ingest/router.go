// Package ingest routes sources to the right ingester by extension-based
// auto-detection, fans out batches of at most five concurrently, and
// applies the partial-success/failure policy.
package ingest

import (
	"context"
	"path"
	"strings"
	"sync"

	"github.com/codeready-toolchain/knowledgepipeline/internal/telemetry"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow/activity"
)

const batchSize = 5

var (
	videoExtensions = map[string]bool{".mp4": true, ".webm": true, ".mov": true, ".avi": true, ".mkv": true}
	docExtensions = map[string]bool{".pdf": true, ".md": true, ".txt": true, ".html": true, ".rst": true, ".docx": true, ".doc": true}
)

// Source mirrors workflow.Source without importing pkg/workflow, avoiding an
// import cycle between the orchestrator and its phase implementations.
type Source struct {
	URLOrPath string
	Name string
	Type knowledge.SourceType
}

// Ingester produces one IngestionResult from a single source.
type Ingester interface {
	Ingest(ctx context.Context, ac activity.Context, workflowID, jobID, knowledgeID string, src Source) (*knowledge.IngestionResult, error)
}

// Router dispatches sources to the ingester registered for their detected
// or explicit SourceType.
type Router struct {
	Documentation Ingester
	Video Ingester
	Website Ingester
}

// Detect applies the extension-based auto-detection rule.
func Detect(src Source) knowledge.SourceType {
	if src.Type != "" {
		return src.Type
	}
	lower := strings.ToLower(src.URLOrPath)
	ext := path.Ext(lower)
	switch {
	case videoExtensions[ext]:
		return knowledge.SourceTypeVideo
	case docExtensions[ext]:
		return knowledge.SourceTypeDocumentation
	case strings.HasPrefix(lower, "file://"):
		return knowledge.SourceTypeDocumentation
	case strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://"):
		return knowledge.SourceTypeWebsite
	default:
		return knowledge.SourceTypeWebsiteDocumentation
	}
}

func (r *Router) ingesterFor(t knowledge.SourceType) Ingester {
	switch t {
	case knowledge.SourceTypeVideo:
		return r.Video
	case knowledge.SourceTypeWebsite, knowledge.SourceTypeWebsiteDocumentation:
		return r.Website
	default:
		return r.Documentation
	}
}

// RunAll ingests every source in batches of batchSize, persisting each
// result immediately. It returns the completed results plus an error only
// when every source failed ("if all sources fail the workflow fails").
func (r *Router) RunAll(ctx context.Context, ac activity.Context, workflowID, jobID, knowledgeID string, sources []Source) ([]*knowledge.IngestionResult, error) {
	log := telemetry.WorkflowLogger(workflowID, jobID, knowledgeID)
	results := make([]*knowledge.IngestionResult, len(sources))

	for start := 0; start < len(sources); start += batchSize {
		end := start + batchSize
		if end > len(sources) {
			end = len(sources)
		}
		batch := sources[start:end]

		var wg sync.WaitGroup
		for i, src := range batch {
			i, src := i, src
			wg.Add(1)
			go func() {
				defer wg.Done()
				ingester := r.ingesterFor(Detect(src))
				result, err := ingester.Ingest(ctx, ac, workflowID, jobID, knowledgeID, src)
				if err != nil {
					log.Error("ingestion failed", "source", src.Name, "error", err)
					result = &knowledge.IngestionResult{
						IngestionID: DeriveIngestionID(workflowID, src.URLOrPath, jobID),
						KnowledgeID: knowledgeID,
						JobID: jobID,
						SourceType: Detect(src),
						Success: false,
						Errors: []string{err.Error()},
					}
				} else if len(result.Chunks) == 0 {
					result.Success = false
					result.Errors = append(result.Errors, "zero chunks produced")
				} else if len(result.Errors) > 0 {
					result.Success = true // partial success: chunks exist despite non-fatal errors
				}
				if err := ac.Store.SaveIngestionResult(ctx, result); err != nil {
					log.Error("failed to persist ingestion result", "source", src.Name, "error", err)
				}
				results[start+i] = result
			}()
		}
		wg.Wait()
	}

	anySucceeded := false
	for _, r := range results {
		if r != nil && r.Success {
			anySucceeded = true
			break
		}
	}
	if !anySucceeded && len(sources) > 0 {
		return results, errAllSourcesFailed
	}
	return results, nil
}

var errAllSourcesFailed = &allSourcesFailedError{}

type allSourcesFailedError struct{}

func (e *allSourcesFailedError) Error() string { return "all ingestion sources failed" }

// DeriveIngestionID derives the deterministic ingestion id used throughout
// the pipeline — duplicated here (rather than imported from pkg/workflow)
// to keep pkg/ingest free of a dependency on the orchestrator package.
func DeriveIngestionID(workflowID, sourceURL, jobID string) string {
	return deriveIngestionID(workflowID, sourceURL, jobID)
}
