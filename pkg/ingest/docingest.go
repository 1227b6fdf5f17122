package ingest

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/chunking"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow/activity"
)

// DocumentationIngester parses documentation sources into a canonical
// intermediate form and chunks them via pkg/chunking.
type DocumentationIngester struct {
	Splitter *chunking.Splitter
}

var (
	pageNumberRe = regexp.MustCompile(`(?m)^\s*(Page\s+)?\d+\s*(/\s*\d+)?\s*$`)
	htmlTagRe = regexp.MustCompile(`<[^>]+>`)
)

func (d *DocumentationIngester) Ingest(ctx context.Context, ac activity.Context, workflowID, jobID, knowledgeID string, src Source) (*knowledge.IngestionResult, error) {
	started := time.Now()
	ingestionID := deriveIngestionID(workflowID, src.URLOrPath, jobID)

	raw, err := readSource(src.URLOrPath)
	if err != nil {
		return nil, fmt.Errorf("reading source %s: %w", src.Name, err)
	}

	content := cleanDocument(raw, src.URLOrPath)
	chunks := d.Splitter.Split(ingestionID, content, knowledge.ChunkTypeDocumentation)
	for i := range chunks {
		chunks[i].Content = breadcrumb(src.Name, chunks[i].SectionTitle) + "\n\n" + chunks[i].Content
	}
	chunks = append(chunks, summaryChunk(ingestionID, src.Name, chunks))

	total := 0
	for _, c := range chunks {
		total += c.TokenCount
	}

	result := &knowledge.IngestionResult{
		IngestionID: ingestionID,
		KnowledgeID: knowledgeID,
		JobID: jobID,
		SourceType: knowledge.SourceTypeDocumentation,
		Chunks: chunks,
		TotalTokens: total,
		StartedAt: started,
		CompletedAt: time.Now(),
		Success: len(chunks) > 0,
	}
	return result, nil
}

// readSource loads raw bytes from a file:// URL or bare path. HTTP(S)
// documentation sources are fetched by the website ingester instead.
func readSource(urlOrPath string) (string, error) {
	path := strings.TrimPrefix(urlOrPath, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// cleanDocument strips page numbers and, for HTML sources, tags — the
// "cleans headers/footers/page numbers on PDF" step. Full
// per-format parsing (PDF text extraction, DOCX) is left to a dedicated
// parser library at the call site; this function operates on already
// decoded text.
func cleanDocument(raw, sourceName string) string {
	text := raw
	if strings.HasSuffix(strings.ToLower(sourceName), ".html") {
		text = htmlTagRe.ReplaceAllString(text, "")
	}
	text = pageNumberRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func breadcrumb(name, sectionTitle string) string {
	if sectionTitle == "" {
		return fmt.Sprintf("File: %s", name)
	}
	return fmt.Sprintf("File: %s | Section: %s", name, sectionTitle)
}

// summaryChunk emits the tail comprehensive-summary chunk with basic
// statistics over the document.
func summaryChunk(ingestionID, name string, chunks []knowledge.Chunk) knowledge.Chunk {
	totalTokens := 0
	for _, c := range chunks {
		totalTokens += c.TokenCount
	}
	return knowledge.Chunk{
		ChunkID: fmt.Sprintf("%s-summary", ingestionID),
		IngestionID: ingestionID,
		ChunkIndex: len(chunks),
		Content: fmt.Sprintf("Document %s: %d chunks, %d total tokens.", name, len(chunks), totalTokens),
		TokenCount: 0,
		ChunkType: knowledge.ChunkTypeDocumentationSummary,
	}
}
