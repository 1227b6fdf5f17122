package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
)

// ScreenExtractor is rule-based: it walks chunks for section headings and
// UI-element cues, derives url_patterns, and builds a state signature
// distinguishing near-identical screens.
type ScreenExtractor struct {
	Store *store.Store
}

var (
	headingLineRe = regexp.MustCompile(`(?m)^(File:.+ \| Section: (.+))$`)
	uiElementRe = regexp.MustCompile(`(?i)\b(button|input|form|dropdown|menu|dialog|modal|table|link)\b[^.]{0,60}`)
	urlRe = regexp.MustCompile(`https?://[^\s)]+`)
)

const screenConfidenceFloor = 0.3

func (e *ScreenExtractor) Extract(ctx context.Context, ingestionIDs []string, websiteID, knowledgeID, jobID string) (Result[*knowledge.Screen], error) {
	chunks, err := e.Store.LoadChunks(ctx, ingestionIDs)
	if err != nil {
		return Result[*knowledge.Screen]{}, fmt.Errorf("loading chunks: %w", err)
	}

	seen := map[string]*knowledge.Screen{}
	var result Result[*knowledge.Screen]

	for _, c := range chunks {
		sectionTitles := headingLineRe.FindAllStringSubmatch(c.Content, -1)
		name := deriveScreenName(sectionTitles, c)
		if name == "" {
			continue
		}
		key := normalizeName(name)

		screen, exists := seen[key]
		if !exists {
			screen = &knowledge.Screen{
				Envelope: knowledge.Envelope{
					EntityID: uuid.NewString(),
					KnowledgeID: knowledgeID,
					JobID: jobID,
					WebsiteID: websiteID,
				},
				Name: cleanText(name),
				ContentType: knowledge.ContentTypeWebUI,
			}
			seen[key] = screen
		}

		for _, u := range urlRe.FindAllString(c.Content, -1) {
			screen.URLPatterns = appendUnique(screen.URLPatterns, u)
		}
		for _, m := range uiElementRe.FindAllString(c.Content, -1) {
			screen.UIElements = appendUnique(screen.UIElements, strings.TrimSpace(m))
			screen.StateSignature.RequiredIndicators = appendUnique(screen.StateSignature.RequiredIndicators, strings.ToLower(strings.TrimSpace(m)))
		}
	}

	for _, screen := range seen {
		screen.ConfidenceScore = confidenceFor(screen)
		if screen.ConfidenceScore < screenConfidenceFloor {
			continue
		}
		screen.StateSignature.NegativeIndicators = negativeIndicatorsFor(screen, seen)
		result.Entities = append(result.Entities, screen)
	}

	result.Success = len(result.Entities) > 0
	return result, nil
}

func deriveScreenName(sectionTitles [][]string, c knowledge.Chunk) string {
	if len(sectionTitles) > 0 {
		parts := strings.Split(sectionTitles[0][2], " > ")
		return parts[len(parts)-1]
	}
	return c.SectionTitle
}

// confidenceFor scores a screen by how much distinguishing evidence it
// accumulated: more UI elements and URL patterns raise confidence.
func confidenceFor(s *knowledge.Screen) float64 {
	score := 0.2 + 0.1*float64(len(s.UIElements)) + 0.15*float64(len(s.URLPatterns))
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// negativeIndicatorsFor collects the required indicators of other screens
// that this screen does NOT share, distinguishing near-identical screens.
func negativeIndicatorsFor(s *knowledge.Screen, all map[string]*knowledge.Screen) []string {
	own := map[string]bool{}
	for _, i := range s.StateSignature.RequiredIndicators {
		own[i] = true
	}
	var negatives []string
	for _, other := range all {
		if other == s {
			continue
		}
		for _, i := range other.StateSignature.RequiredIndicators {
			if !own[i] {
				negatives = appendUnique(negatives, i)
			}
		}
	}
	return negatives
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
