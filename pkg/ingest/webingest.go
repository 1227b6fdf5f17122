package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/chunking"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/crawler"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow/activity"
)

// WebsiteIngester crawls a start URL and chunks every page's text content,
// wiring pkg/crawler's output into pkg/chunking.
type WebsiteIngester struct {
	Splitter *chunking.Splitter
	Robots crawler.RobotsChecker
}

func (w *WebsiteIngester) Ingest(ctx context.Context, ac activity.Context, workflowID, jobID, knowledgeID string, src Source) (*knowledge.IngestionResult, error) {
	started := time.Now()
	ingestionID := deriveIngestionID(workflowID, src.URLOrPath, jobID)

	c, err := crawler.New(ac.Browser, *ac.Config.Crawl, w.Robots, src.URLOrPath)
	if err != nil {
		return nil, fmt.Errorf("initializing crawler for %s: %w", src.Name, err)
	}

	pages, err := c.Crawl(ctx)
	if err != nil && len(pages) == 0 {
		return nil, fmt.Errorf("crawling %s: %w", src.Name, err)
	}

	var allChunks []knowledge.Chunk
	for _, page := range pages {
		text := stripTags(page.HTML)
		pageChunks := w.Splitter.Split(ingestionID, text, knowledge.ChunkTypeWebpage)
		for i := range pageChunks {
			pageChunks[i].ChunkID = fmt.Sprintf("%s-p%d-c%d", ingestionID, page.Depth, len(allChunks)+i)
			pageChunks[i].ChunkIndex = len(allChunks) + i
			pageChunks[i].SectionTitle = page.URL
		}
		allChunks = append(allChunks, pageChunks...)
	}

	total := 0
	for _, c := range allChunks {
		total += c.TokenCount
	}

	result := &knowledge.IngestionResult{
		IngestionID: ingestionID,
		KnowledgeID: knowledgeID,
		JobID: jobID,
		SourceType: knowledge.SourceTypeWebsite,
		SourceMetadata: map[string]interface{}{
			"pages_crawled": len(pages),
			"start_url": src.URLOrPath,
		},
		Chunks: allChunks,
		TotalTokens: total,
		StartedAt: started,
		CompletedAt: time.Now(),
		Success: len(allChunks) > 0,
	}
	return result, nil
}

func stripTags(html string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
