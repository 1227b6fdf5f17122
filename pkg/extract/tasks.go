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

// TaskExtractor is LLM + rule: the LLM proposes steps and descriptions, then
// rule-based post-processing enforces step linearity and detects iterator
// language.
type TaskExtractor struct {
	Store *store.Store
	LLM llm.Client
}

const taskSystemPrompt = `You extract discrete user tasks from product documentation and exploration
transcripts. Respond with a single JSON object: {"tasks": [{"name": ".",
"description": ".", "category": ".", "complexity": "simple|moderate|complex",
"steps": [{"step_id": "s1", "order": 1, "type": "action", "required": true}],
"page_url": ".", "screen_context": "."}]}. No prose outside the JSON object.`

type taskLLMResponse struct {
	Tasks []struct {
		Name string `json:"name"`
		Description string `json:"description"`
		Category string `json:"category"`
		Complexity string `json:"complexity"`
		Steps []knowledge.TaskStep `json:"steps"`
		PageURL string `json:"page_url"`
		ScreenContext string `json:"screen_context"`
	} `json:"tasks"`
}

var iteratorCues = map[knowledge.IteratorType][]string{
	knowledge.IteratorForEach: {"for each", "for every"},
	knowledge.IteratorWhile: {"while"},
	knowledge.IteratorUntil: {"until"},
}

func (e *TaskExtractor) Extract(ctx context.Context, ingestionIDs []string, websiteID, knowledgeID, jobID string) (Result[*knowledge.Task], error) {
	chunks, err := e.Store.LoadChunks(ctx, ingestionIDs)
	if err != nil {
		return Result[*knowledge.Task]{}, fmt.Errorf("loading chunks: %w", err)
	}

	var corpus strings.Builder
	for _, c := range chunks {
		corpus.WriteString(fmt.Sprintf("[%s]\n%s\n\n", c.ChunkType, c.Content))
	}

	var result Result[*knowledge.Task]
	if e.LLM == nil {
		result.Errors = append(result.Errors, "task extraction: no LLM client configured")
		return result, nil
	}
	raw, err := e.LLM.Complete(ctx, taskSystemPrompt, corpus.String())
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, nil
	}

	var parsed taskLLMResponse
	if err := llm.ParseJSON(raw, &parsed); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("parsing task extraction response: %v; raw: %s", err, raw))
		return result, nil
	}

	seen := map[string]bool{}
	for _, t := range parsed.Tasks {
		name, ok := minLength(t.Name, 3)
		if !ok {
			continue
		}
		key := normalizeName(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		if !knowledge.StepsAreDAG(t.Steps) {
			result.Errors = append(result.Errors, fmt.Sprintf("task %q has non-linear step references, skipped", name))
			continue
		}

		task := &knowledge.Task{
			Envelope: knowledge.Envelope{
				EntityID: uuid.NewString(),
				KnowledgeID: knowledgeID,
				JobID: jobID,
				WebsiteID: websiteID,
			},
			Name: name,
			Description: cleanText(t.Description),
			Category: t.Category,
			Complexity: t.Complexity,
			Steps: t.Steps,
			IteratorSpec: detectIterator(t.Description),
			PageURL: t.PageURL,
			ScreenContext: t.ScreenContext,
		}
		result.Entities = append(result.Entities, task)
	}

	result.Success = len(result.Entities) > 0
	return result, nil
}

// detectIterator scans description text for loop language ("for each",
// "while", "until") and emits an IteratorSpec.
func detectIterator(description string) knowledge.IteratorSpec {
	lower := strings.ToLower(description)
	for kind, cues := range iteratorCues {
		for _, cue := range cues {
			if strings.Contains(lower, cue) {
				return knowledge.IteratorSpec{Type: kind, TerminationCondition: cue}
			}
		}
	}
	return knowledge.IteratorSpec{Type: knowledge.IteratorNone}
}
