package extract

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
)

// TransitionExtractor scans for navigational cues ("from X, clicking Y
// leads to Z") and emits transitions referencing source/target screens by
// name — the linker resolves names to ids in a later pass.
type TransitionExtractor struct {
	Store *store.Store
}

var navigationCueRe = regexp.MustCompile(`(?i)from\s+(?:the\s+)?([A-Za-z0-9 _'"-]{2,40})(?:\s+screen)?,?\s*(?:clicking|tapping|selecting)\s+(?:the\s+)?([A-Za-z0-9 _'"-]{2,40})\s+(?:leads to|navigates to|opens|goes to)\s+(?:the\s+)?([A-Za-z0-9 _'"-]{2,40})`)

func (e *TransitionExtractor) Extract(ctx context.Context, ingestionIDs []string, websiteID, knowledgeID, jobID string) (Result[*knowledge.Transition], error) {
	chunks, err := e.Store.LoadChunks(ctx, ingestionIDs)
	if err != nil {
		return Result[*knowledge.Transition]{}, fmt.Errorf("loading chunks: %w", err)
	}

	seen := map[string]bool{}
	var result Result[*knowledge.Transition]

	for _, c := range chunks {
		for _, m := range navigationCueRe.FindAllStringSubmatch(c.Content, -1) {
			from, elementHint, to := cleanText(m[1]), cleanText(m[2]), cleanText(m[3])
			key := normalizeName(from) + "->" + normalizeName(to)
			if seen[key] {
				continue
			}
			seen[key] = true

			result.Entities = append(result.Entities, &knowledge.Transition{
					Envelope: knowledge.Envelope{
						EntityID: uuid.NewString(),
						KnowledgeID: knowledgeID,
						JobID: jobID,
						WebsiteID: websiteID,
					},
					FromScreenName: from,
					ToScreenName: to,
					TriggeredBy: knowledge.Trigger{ActionType: "click", ElementID: elementHint},
					ReliabilityScore: 0.5,
				})
		}
	}

	result.Success = len(result.Entities) > 0
	return result, nil
}
