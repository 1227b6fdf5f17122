package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/crawler"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
)

// ActionExtractor is rule-based: pattern matching across chunks, plus
// direct construction from exploration forms (every field becomes a
// "fill" action, every form yields a submit task-sized action).
type ActionExtractor struct {
	Store *store.Store
	Forms []crawler.Form // forms discovered during the URL exploration phase, if any
}

var actionCueRe = regexp.MustCompile(`(?i)\b(click|tap|select|choose|submit|type|enter|navigate to|go to)\b\s+(?:the\s+|on\s+)?([A-Za-z0-9 _'"-]{2,40})`)

func (e *ActionExtractor) Extract(ctx context.Context, ingestionIDs []string, websiteID, knowledgeID, jobID string) (Result[*knowledge.Action], error) {
	chunks, err := e.Store.LoadChunks(ctx, ingestionIDs)
	if err != nil {
		return Result[*knowledge.Action]{}, fmt.Errorf("loading chunks: %w", err)
	}

	seen := map[string]bool{}
	var result Result[*knowledge.Action]

	for _, c := range chunks {
		for _, m := range actionCueRe.FindAllStringSubmatch(c.Content, -1) {
			verb, target := strings.ToLower(m[1]), strings.TrimSpace(m[2])
			name, ok := minLength(fmt.Sprintf("%s %s", verb, target), 5)
			if !ok {
				continue
			}
			key := normalizeName(name)
			if seen[key] {
				continue
			}
			seen[key] = true

			result.Entities = append(result.Entities, &knowledge.Action{
					Envelope: knowledge.Envelope{
						EntityID: uuid.NewString(),
						KnowledgeID: knowledgeID,
						JobID: jobID,
						WebsiteID: websiteID,
					},
					Name: name,
					ActionType: actionTypeForVerb(verb),
					ConfidenceScore: 0.5,
				})
		}
	}

	for _, form := range e.Forms {
		for _, field := range form.Fields {
			if field == "" {
				continue
			}
			name, ok := minLength(fmt.Sprintf("fill %s", field), 5)
			if !ok {
				continue
			}
			key := normalizeName(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			result.Entities = append(result.Entities, &knowledge.Action{
					Envelope: knowledge.Envelope{
						EntityID: uuid.NewString(),
						KnowledgeID: knowledgeID,
						JobID: jobID,
						WebsiteID: websiteID,
					},
					Name: name,
					ActionType: knowledge.ActionTypeText,
					TargetSelector: field,
					BrowserUseAction: true,
					ConfidenceScore: 0.6,
				})
		}
		submitName, ok := minLength(fmt.Sprintf("submit %s", form.Action), 5)
		if ok && !seen[normalizeName(submitName)] {
			seen[normalizeName(submitName)] = true
			result.Entities = append(result.Entities, &knowledge.Action{
					Envelope: knowledge.Envelope{
						EntityID: uuid.NewString(),
						KnowledgeID: knowledgeID,
						JobID: jobID,
						WebsiteID: websiteID,
					},
					Name: submitName,
					ActionType: knowledge.ActionClick,
					TargetSelector: form.Action,
					BrowserUseAction: true,
					ConfidenceScore: 0.6,
				})
		}
	}

	result.Success = len(result.Entities) > 0
	return result, nil
}

func actionTypeForVerb(verb string) knowledge.ActionType {
	switch verb {
	case "click", "tap", "submit":
		return knowledge.ActionClick
	case "select", "choose":
		return knowledge.ActionSelectOption
	case "type", "enter":
		return knowledge.ActionTypeText
	case "navigate to", "go to":
		return knowledge.ActionNavigate
	default:
		return knowledge.ActionClick
	}
}
