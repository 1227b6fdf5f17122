package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/llm"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
)

// OperationalWorkflowExtractor is LLM-backed. Each workflow has ordered
// steps with {action, screen, precondition, postcondition, error_handling}.
type OperationalWorkflowExtractor struct {
	Store *store.Store
	LLM llm.Client
}

const workflowSystemPrompt = `You identify end-to-end operational workflows — ordered sequences of user
actions across one or more screens that accomplish a business goal. Respond
with a single JSON object: {"workflows": [{"name": ".",
"business_function": ".", "steps": [{"order": 1, "action": ".",
"screen": ".", "precondition": ".", "postcondition": ".",
"error_handling": "."}]}]}. No prose outside the JSON object.`

type workflowLLMResponse struct {
	Workflows []struct {
		Name string `json:"name"`
		BusinessFunction string `json:"business_function"`
		Steps []knowledge.WorkflowStep `json:"steps"`
	} `json:"workflows"`
}

func (e *OperationalWorkflowExtractor) Extract(ctx context.Context, ingestionIDs []string, websiteID, knowledgeID, jobID string) (Result[*knowledge.OperationalWorkflow], error) {
	chunks, err := e.Store.LoadChunks(ctx, ingestionIDs)
	if err != nil {
		return Result[*knowledge.OperationalWorkflow]{}, fmt.Errorf("loading chunks: %w", err)
	}

	var corpus strings.Builder
	for _, c := range chunks {
		corpus.WriteString(fmt.Sprintf("[%s]\n%s\n\n", c.ChunkType, c.Content))
	}

	var result Result[*knowledge.OperationalWorkflow]
	if e.LLM == nil {
		result.Errors = append(result.Errors, "workflow extraction: no LLM client configured")
		return result, nil
	}
	raw, err := e.LLM.Complete(ctx, workflowSystemPrompt, corpus.String())
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, nil
	}

	var parsed workflowLLMResponse
	if err := llm.ParseJSON(raw, &parsed); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("parsing workflow response: %v; raw: %s", err, raw))
		return result, nil
	}

	seen := map[string]bool{}
	for _, w := range parsed.Workflows {
		name, ok := minLength(w.Name, 3)
		if !ok || len(w.Steps) == 0 {
			continue
		}
		key := normalizeName(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		result.Entities = append(result.Entities, &knowledge.OperationalWorkflow{
				Envelope: knowledge.Envelope{
					EntityID: uuid.NewString(),
					KnowledgeID: knowledgeID,
					JobID: jobID,
					WebsiteID: websiteID,
				},
				Name: name,
				BusinessFunction: w.BusinessFunction,
				Steps: w.Steps,
			})
	}

	result.Success = len(result.Entities) > 0
	return result, nil
}
