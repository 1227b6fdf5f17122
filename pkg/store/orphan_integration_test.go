//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/knowledgepipeline/internal/dbtest"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
)

// Gated behind the integration build tag the way tarsy separates fast unit
// tests from testcontainer-backed ones — `go test -tags=integration ./...`
// is the opt-in.
func TestClaimOrphanedWorkflows(t *testing.T) {
	pool := dbtest.NewPool(t)
	s := store.New(pool, nil)
	ctx := context.Background()

	now := time.Now()
	stale := &knowledge.WorkflowState{
		WorkflowID: "wf-stale", JobID: "job-1", KnowledgeID: "kb-1",
		Status: knowledge.JobRunning, Phase: knowledge.PhaseExtraction,
		CreatedAt: now.Add(-time.Hour), UpdatedAt: now.Add(-time.Hour),
	}
	fresh := &knowledge.WorkflowState{
		WorkflowID: "wf-fresh", JobID: "job-2", KnowledgeID: "kb-1",
		Status: knowledge.JobRunning, Phase: knowledge.PhaseIngestion,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.SaveWorkflowState(ctx, stale))
	require.NoError(t, s.SaveWorkflowState(ctx, fresh))

	claimed, err := s.ClaimOrphanedWorkflows(ctx, 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, []string{"wf-stale"}, claimed)

	reloaded, err := s.LoadWorkflowState(ctx, "wf-stale")
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, knowledge.JobFailed, reloaded.Status)
	assert.Contains(t, reloaded.Errors, "orphaned: no heartbeat from owning worker")

	untouched, err := s.LoadWorkflowState(ctx, "wf-fresh")
	require.NoError(t, err)
	require.NotNil(t, untouched)
	assert.Equal(t, knowledge.JobRunning, untouched.Status)

	second, err := s.ClaimOrphanedWorkflows(ctx, 5*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, second)
}
