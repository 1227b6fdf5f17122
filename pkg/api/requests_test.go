package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRequest_ToInput_ExactlyOneSourceRequired(t *testing.T) {
	t.Run("neither set is invalid", func(t *testing.T) {
		req := startRequest{JobID: "job-1", KnowledgeID: "kb-1"}
		_, err := req.toInput("wf-1")
		require.Error(t, err)
	})

	t.Run("both set is invalid", func(t *testing.T) {
		req := startRequest{JobID: "job-1", KnowledgeID: "kb-1", SourceURL: "https://a.test", SourceURLs: []string{"https://b.test"}}
		_, err := req.toInput("wf-1")
		require.Error(t, err)
	})

	t.Run("single source_url builds one source", func(t *testing.T) {
		req := startRequest{JobID: "job-1", KnowledgeID: "kb-1", SourceURL: "https://a.test", SourceName: "docs"}
		input, err := req.toInput("wf-1")
		require.NoError(t, err)
		require.Len(t, input.Sources, 1)
		assert.Equal(t, "https://a.test", input.Sources[0].URLOrPath)
		assert.Equal(t, "docs", input.Sources[0].Name)
		assert.Equal(t, "wf-1", input.WorkflowID)
	})

	t.Run("source_urls builds one source per url, names paired by index", func(t *testing.T) {
		req := startRequest{
			JobID:       "job-1",
			KnowledgeID: "kb-1",
			SourceURLs:  []string{"https://a.test", "https://b.test"},
			SourceNames: []string{"a"},
		}
		input, err := req.toInput("wf-1")
		require.NoError(t, err)
		require.Len(t, input.Sources, 2)
		assert.Equal(t, "a", input.Sources[0].Name)
		assert.Equal(t, "", input.Sources[1].Name)
	})
}
