package chunking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
)

func newTestSplitter(t *testing.T, maxTokens int) *Splitter {
	t.Helper()
	counter, err := NewCounter()
	require.NoError(t, err)
	return NewSplitter(counter, maxTokens)
}

func TestSplit_MonotonicChunkIndex(t *testing.T) {
	sp := newTestSplitter(t, 50)
	content := "# Intro\n\nSome short paragraph one.\n\n# Next\n\nAnother short paragraph two."

	chunks := sp.Split("ing-1", content, knowledge.ChunkTypeDocumentation)
	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.Equal(t, i, c.ChunkIndex)
		assert.Equal(t, "ing-1", c.IngestionID)
	}
}

func TestSplit_RespectsTokenBudget(t *testing.T) {
	sp := newTestSplitter(t, 20)
	content := strings.Repeat("This is a reasonably long sentence about pipelines. ", 20)

	chunks := sp.Split("ing-2", content, knowledge.ChunkTypeWebpage)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, c.TokenCount, 40, "chunk should stay near budget even with sentence-boundary fallback overhead")
	}
}

func TestSplit_PreservesCodeBlocks(t *testing.T) {
	sp := newTestSplitter(t, 100)
	content := "# Setup\n\nRun this:\n\n```go\nfunc main() {\n\tprintln(\"hi\")\n}\n```\n\nThen continue."

	chunks := sp.Split("ing-3", content, knowledge.ChunkTypeDocumentation)
	var joined strings.Builder
	for _, c := range chunks {
		joined.WriteString(c.Content)
	}
	assert.Contains(t, joined.String(), "```go")
	assert.Contains(t, joined.String(), "func main()")
}

func TestSplit_HeadingBreadcrumb(t *testing.T) {
	sp := newTestSplitter(t, 200)
	content := "# Guide\n\n## Configuration\n\nSet the value here."

	chunks := sp.Split("ing-4", content, knowledge.ChunkTypeDocumentation)
	require.NotEmpty(t, chunks)
	assert.Contains(t, chunks[0].SectionTitle, "Guide")
	assert.Contains(t, chunks[0].SectionTitle, "Configuration")
}

func TestSplit_EmptyContent(t *testing.T) {
	sp := newTestSplitter(t, 100)
	chunks := sp.Split("ing-5", "", knowledge.ChunkTypeDocumentation)
	assert.Empty(t, chunks)
}
