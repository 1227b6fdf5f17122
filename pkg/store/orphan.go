package store

import (
	"context"
	"fmt"
	"time"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
)

// ClaimOrphanedWorkflows atomically claims every workflow still marked
// running whose last update is older than staleAfter — the crash-recovery
// half of "any job a crashed worker left claimed" (pkg/workflow's package
// doc) — and marks each failed for operator follow-up. FOR UPDATE SKIP
// LOCKED keeps two pool instances from claiming (and double-failing) the
// same row, the same locking discipline tarsy's queue.Worker.claimNextSession
// uses via ent, translated to raw SQL since this store has no generated
// client (see DESIGN.md).
func (s *Store) ClaimOrphanedWorkflows(ctx context.Context, staleAfter time.Duration) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		WITH stale AS (
			SELECT workflow_id FROM workflow_states
			WHERE status = 'running' AND updated_at < $1
			FOR UPDATE SKIP LOCKED
		)
		UPDATE workflow_states ws
		SET status = $2, updated_at = $3,
		    errors = errors || '["orphaned: no heartbeat from owning worker"]'::jsonb
		FROM stale
		WHERE ws.workflow_id = stale.workflow_id
		RETURNING ws.workflow_id
	`, time.Now().Add(-staleAfter), string(knowledge.JobFailed), time.Now())
	if err != nil {
		return nil, fmt.Errorf("claiming orphaned workflows: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning orphaned workflow id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
