package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

// HashInput derives the deterministic input_hash keyed on in the
// activity_execution_log table: an activity with an identical input never
// re-executes within the same workflow run.
func HashInput(input any) (string, error) {
	b, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("hashing activity input: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// idempotencyCacheTTL bounds how long a Redis hit is trusted before falling
// back to Postgres as the source of truth — Redis is a speed-up, not a
// second ledger.
const idempotencyCacheTTL = 30 * time.Minute

// AlreadyExecuted reports whether (workflowID, activityName, inputHash) has a
// recorded successful execution, checking Redis first and falling back to
// Postgres on a cache miss.
func (s *Store) AlreadyExecuted(ctx context.Context, workflowID, activityName, inputHash string) (bool, []byte, error) {
	key := idempotencyKey(workflowID, activityName, inputHash)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			return true, cached, nil
		}
		if !errors.Is(err, redis.Nil) {
			// Redis unavailable: degrade to Postgres rather than fail the activity.
			_ = err
		}
	}

	var output []byte
	var success bool
	err := s.pool.QueryRow(ctx, `
 SELECT output, success FROM activity_execution_log
 WHERE workflow_id = $1 AND activity_name = $2 AND input_hash = $3
		`, workflowID, activityName, inputHash).Scan(&output, &success)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil, nil
		}
		return false, nil, fmt.Errorf("querying activity execution log: %w", err)
	}
	if !success {
		return false, nil, nil
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, output, idempotencyCacheTTL).Err()
	}
	return true, output, nil
}

// RecordExecution writes the outcome of an activity invocation to the
// idempotency log, warming the Redis cache on success.
func (s *Store) RecordExecution(ctx context.Context, workflowID, activityName, inputHash string, output []byte, success bool, execErr error) error {
	var errText string
	if execErr != nil {
		errText = execErr.Error()
	}

	_, err := s.pool.Exec(ctx, `
 INSERT INTO activity_execution_log (workflow_id, activity_name, input_hash, output, success, error)
 VALUES ($1, $2, $3, $4, $5, $6)
 ON CONFLICT (workflow_id, activity_name, input_hash) DO UPDATE SET
 output = EXCLUDED.output, success = EXCLUDED.success, error = EXCLUDED.error
		`, workflowID, activityName, inputHash, output, success, errText)
	if err != nil {
		return fmt.Errorf("recording activity execution: %w", err)
	}

	if success && s.cache != nil {
		key := idempotencyKey(workflowID, activityName, inputHash)
		_ = s.cache.Set(ctx, key, output, idempotencyCacheTTL).Err()
	}
	return nil
}

func idempotencyKey(workflowID, activityName, inputHash string) string {
	return "idem:" + workflowID + ":" + activityName + ":" + inputHash
}
