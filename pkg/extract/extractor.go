// Package extract implements the six-extractor bank and the user-flow
// synthesizer: each extractor shares the
// (chunks, website_id, knowledge_id, job_id) → (entities, errors, success)
// contract, loads chunks from every specified ingestion id, and persists
// its entities with (knowledge_id, job_id) stamps.
package extract

import (
	"context"
	"regexp"
	"strings"
)

// Result is the shared extractor return shape, generic over the entity type
// so each concrete extractor gets strong typing at the call site.
type Result[T any] struct {
	Entities []T
	Errors []string
	Success bool
}

// Extractor is implemented by every concrete extractor in this package.
type Extractor[T any] interface {
	Extract(ctx context.Context, ingestionIDs []string, websiteID, knowledgeID, jobID string) (Result[T], error)
}

var (
	markdownBoldRe = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	markdownBulletRe = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
)

// cleanText strips markdown bullets and bold/italic emphasis as a
// post-processing pass shared by every extractor.
func cleanText(s string) string {
	s = markdownBoldRe.ReplaceAllString(s, "$1$2")
	s = markdownBulletRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// normalizeName lowercases and collapses whitespace, the key used for
// dedup-by-normalized-name across every extractor.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// minLength enforces a minimum string length post-processing rule (e.g.
// business requirements ≥ 10 chars); returns ok=false when too short.
func minLength(s string, n int) (string, bool) {
	cleaned := cleanText(s)
	return cleaned, len(cleaned) >= n
}
