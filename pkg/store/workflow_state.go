package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
)

// SaveWorkflowState upserts the orchestration snapshot for one job, the
// record the REST progress endpoint and the resume path both read from.
func (s *Store) SaveWorkflowState(ctx context.Context, ws *knowledge.WorkflowState) error {
	progress, err := json.Marshal(ws.Progress)
	if err != nil {
		return fmt.Errorf("marshaling progress: %w", err)
	}
	errs, err := json.Marshal(ws.Errors)
	if err != nil {
		return fmt.Errorf("marshaling errors: %w", err)
	}
	meta, err := json.Marshal(ws.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO workflow_states
			(workflow_id, job_id, knowledge_id, status, phase, current_activity, progress, errors, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (workflow_id) DO UPDATE SET
			status           = EXCLUDED.status,
			phase            = EXCLUDED.phase,
			current_activity = EXCLUDED.current_activity,
			progress         = EXCLUDED.progress,
			errors           = EXCLUDED.errors,
			metadata         = EXCLUDED.metadata,
			updated_at       = EXCLUDED.updated_at
	`, ws.WorkflowID, ws.JobID, ws.KnowledgeID, string(ws.Status), string(ws.Phase),
		ws.CurrentActivity, progress, errs, meta, ws.CreatedAt, ws.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving workflow state %s: %w", ws.WorkflowID, err)
	}
	return nil
}

// LoadWorkflowState returns the current snapshot for workflowID, or nil if
// no such workflow has ever run.
func (s *Store) LoadWorkflowState(ctx context.Context, workflowID string) (*knowledge.WorkflowState, error) {
	var ws knowledge.WorkflowState
	var status, phase string
	var progress, errs, meta []byte

	err := s.pool.QueryRow(ctx, `
		SELECT workflow_id, job_id, knowledge_id, status, phase, current_activity, progress, errors, metadata, created_at, updated_at
		FROM workflow_states WHERE workflow_id = $1
	`, workflowID).Scan(&ws.WorkflowID, &ws.JobID, &ws.KnowledgeID, &status, &phase,
		&ws.CurrentActivity, &progress, &errs, &meta, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("loading workflow state %s: %w", workflowID, err)
	}

	ws.Status = knowledge.JobStatus(status)
	ws.Phase = knowledge.Phase(phase)
	if err := json.Unmarshal(progress, &ws.Progress); err != nil {
		return nil, fmt.Errorf("unmarshaling progress: %w", err)
	}
	if err := json.Unmarshal(errs, &ws.Errors); err != nil {
		return nil, fmt.Errorf("unmarshaling errors: %w", err)
	}
	if err := json.Unmarshal(meta, &ws.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshaling metadata: %w", err)
	}
	return &ws, nil
}

// LatestWorkflowForKnowledge returns the most recently created workflow_id
// for knowledgeID, used to resolve "the current job" when a caller queries
// by knowledge_id alone.
func (s *Store) LatestWorkflowForKnowledge(ctx context.Context, knowledgeID string) (string, error) {
	var workflowID string
	err := s.pool.QueryRow(ctx, `
		SELECT workflow_id FROM workflow_states
		WHERE knowledge_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, knowledgeID).Scan(&workflowID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("resolving latest workflow for knowledge %s: %w", knowledgeID, err)
	}
	return workflowID, nil
}
