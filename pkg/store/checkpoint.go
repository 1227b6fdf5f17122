package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
)

// SaveCheckpoint upserts the checkpoint for (workflowID, phase), keeping at
// most one row per phase.
func (s *Store) SaveCheckpoint(ctx context.Context, cp knowledge.Checkpoint) error {
	items, err := json.Marshal(cp.ItemsProcessed)
	if err != nil {
		return fmt.Errorf("marshaling checkpoint items for phase %s: %w", cp.Phase, err)
	}

	_, err = s.pool.Exec(ctx, `
 INSERT INTO checkpoints (workflow_id, phase, items_processed, resume_token, created_at)
 VALUES ($1, $2, $3, $4, $5)
 ON CONFLICT (workflow_id, phase) DO UPDATE SET
 items_processed = EXCLUDED.items_processed,
 resume_token = EXCLUDED.resume_token,
 created_at = EXCLUDED.created_at
		`, cp.WorkflowID, string(cp.Phase), items, cp.ResumeToken, cp.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving checkpoint for phase %s: %w", cp.Phase, err)
	}
	return nil
}

// LoadCheckpoint returns the checkpoint for (workflowID, phase), or nil if
// the phase has never started.
func (s *Store) LoadCheckpoint(ctx context.Context, workflowID string, phase knowledge.Phase) (*knowledge.Checkpoint, error) {
	var cp knowledge.Checkpoint
	cp.WorkflowID = workflowID
	cp.Phase = phase
	var items []byte
	err := s.pool.QueryRow(ctx, `
 SELECT items_processed, resume_token, created_at FROM checkpoints
 WHERE workflow_id = $1 AND phase = $2
		`, workflowID, string(phase)).Scan(&items, &cp.ResumeToken, &cp.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("loading checkpoint for phase %s: %w", phase, err)
	}
	if err := json.Unmarshal(items, &cp.ItemsProcessed); err != nil {
		return nil, fmt.Errorf("unmarshaling checkpoint items for phase %s: %w", phase, err)
	}
	return &cp, nil
}

// LatestPhase returns the furthest phase (by knowledge.OrderedPhases order)
// that has a checkpoint for workflowID.
func (s *Store) LatestPhase(ctx context.Context, workflowID string) (knowledge.Phase, bool, error) {
	rows, err := s.pool.Query(ctx, `
 SELECT phase FROM checkpoints WHERE workflow_id = $1
		`, workflowID)
	if err != nil {
		return "", false, fmt.Errorf("loading checkpoint phases: %w", err)
	}
	defer rows.Close()

	seen := make(map[knowledge.Phase]bool)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return "", false, err
		}
		seen[knowledge.Phase(p)] = true
	}
	if err := rows.Err(); err != nil {
		return "", false, err
	}

	var latest knowledge.Phase
	found := false
	for _, p := range knowledge.OrderedPhases {
		if seen[p] {
			latest = p
			found = true
		}
	}
	return latest, found, nil
}
