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

// BusinessFunctionExtractor is LLM-backed. The prompt emphasizes
// multi-paragraph business_reasoning/business_impact and records which
// screens the model mentioned for later linking.
type BusinessFunctionExtractor struct {
	Store *store.Store
	LLM llm.Client
}

const businessFunctionSystemPrompt = `You identify business-level capabilities exposed by a product from its
documentation and UI exploration transcripts. For each capability, write an
extensive, multi-paragraph business_reasoning (why this capability exists)
and business_impact (what breaks or degrades without it). Respond with a
single JSON object: {"functions": [{"name": ".", "category": ".",
"description": ".", "business_reasoning": ".", "business_impact": ".",
"business_requirements": ["."], "screens_mentioned": ["."]}]}. No prose
outside the JSON object.`

type businessLLMResponse struct {
	Functions []struct {
		Name string `json:"name"`
		Category string `json:"category"`
		Description string `json:"description"`
		BusinessReasoning string `json:"business_reasoning"`
		BusinessImpact string `json:"business_impact"`
		BusinessRequirements []string `json:"business_requirements"`
		ScreensMentioned []string `json:"screens_mentioned"`
	} `json:"functions"`
}

const minBusinessRequirementLength = 10

func (e *BusinessFunctionExtractor) Extract(ctx context.Context, ingestionIDs []string, websiteID, knowledgeID, jobID string) (Result[*knowledge.BusinessFunction], error) {
	chunks, err := e.Store.LoadChunks(ctx, ingestionIDs)
	if err != nil {
		return Result[*knowledge.BusinessFunction]{}, fmt.Errorf("loading chunks: %w", err)
	}

	var corpus strings.Builder
	for _, c := range chunks {
		corpus.WriteString(fmt.Sprintf("[%s]\n%s\n\n", c.ChunkType, c.Content))
	}

	var result Result[*knowledge.BusinessFunction]
	if e.LLM == nil {
		result.Errors = append(result.Errors, "business function extraction: no LLM client configured")
		return result, nil
	}
	raw, err := e.LLM.Complete(ctx, businessFunctionSystemPrompt, corpus.String())
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, nil
	}

	var parsed businessLLMResponse
	if err := llm.ParseJSON(raw, &parsed); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("parsing business function response: %v; raw: %s", err, raw))
		return result, nil
	}

	seen := map[string]bool{}
	for _, f := range parsed.Functions {
		name, ok := minLength(f.Name, 3)
		if !ok {
			continue
		}
		key := normalizeName(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		var requirements []string
		for _, r := range f.BusinessRequirements {
			if cleaned, ok := minLength(r, minBusinessRequirementLength); ok {
				requirements = append(requirements, cleaned)
			}
		}

		result.Entities = append(result.Entities, &knowledge.BusinessFunction{
				Envelope: knowledge.Envelope{
					EntityID: uuid.NewString(),
					KnowledgeID: knowledgeID,
					JobID: jobID,
					WebsiteID: websiteID,
				},
				Name: name,
				Category: f.Category,
				Description: cleanText(f.Description),
				BusinessReasoning: cleanText(f.BusinessReasoning),
				BusinessImpact: cleanText(f.BusinessImpact),
				BusinessRequirements: requirements,
				ScreensMentioned: f.ScreensMentioned,
			})
	}

	result.Success = len(result.Entities) > 0
	return result, nil
}
