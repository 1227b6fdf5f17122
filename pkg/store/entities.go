package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	pipelineerrors "github.com/codeready-toolchain/knowledgepipeline/internal/errors"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
)

// Envelope is implemented by every knowledge entity type, exposing a pointer
// to its shared Envelope so the generic save/query helpers below can stamp
// and read knowledge_id/job_id/entity_id without per-kind boilerplate.
type Envelope interface {
	Env() *knowledge.Envelope
}

// BulkResult mirrors the {saved, failed, total} contract.
type BulkResult struct {
	Saved int
	Failed int
	Total int
}

// SaveEntity upserts a single entity by (entity_id, kind), writing its
// knowledge_id, job_id and website_id and stamping created_at (when unset)
// and updated_at. Callers assign entity ids themselves (see pkg/extract); an
// entity with an empty entity_id is rejected with a validation error.
func SaveEntity[T Envelope](ctx context.Context, s *Store, kind knowledge.EntityKind, e T) error {
	env := e.Env()
	if env.EntityID == "" {
		return pipelineerrors.NewValidationError("entity_id", "must be set before saving")
	}
	now := time.Now()
	if env.CreatedAt.IsZero() {
		env.CreatedAt = now
	}
	env.UpdatedAt = now

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling entity %s: %w", env.EntityID, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO knowledge_entities (entity_id, kind, knowledge_id, job_id, website_id, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (entity_id, kind) DO UPDATE SET
			knowledge_id = EXCLUDED.knowledge_id,
			job_id = EXCLUDED.job_id,
			website_id = EXCLUDED.website_id,
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
	`, env.EntityID, string(kind), env.KnowledgeID, env.JobID, env.WebsiteID, payload, env.CreatedAt, env.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting entity %s: %w", env.EntityID, err)
	}
	return nil
}

// BulkSaveEntities saves entities in input order, continuing past individual
// failures and reporting the {saved, failed, total} tally.
func BulkSaveEntities[T Envelope](ctx context.Context, s *Store, kind knowledge.EntityKind, entities []T) BulkResult {
	result := BulkResult{Total: len(entities)}
	for _, e := range entities {
		if err := SaveEntity(ctx, s, kind, e); err != nil {
			result.Failed++
			continue
		}
		result.Saved++
	}
	return result
}

// QueryByKnowledge returns all entities of kind for knowledgeID. If jobID is
// non-empty, it filters strictly to that job; otherwise it resolves the
// latest job_id for knowledgeID (max(created_at)) first.
func QueryByKnowledge[T Envelope](ctx context.Context, s *Store, kind knowledge.EntityKind, knowledgeID, jobID string, newT func() T) ([]T, error) {
	effectiveJobID := jobID
	if effectiveJobID == "" {
		latest, err := LatestJobID(ctx, s, knowledgeID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, nil
			}
			return nil, err
		}
		effectiveJobID = latest
	}

	rows, err := s.pool.Query(ctx, `
		SELECT payload FROM knowledge_entities
		WHERE kind = $1 AND knowledge_id = $2 AND job_id = $3
		ORDER BY created_at ASC
	`, string(kind), knowledgeID, effectiveJobID)
	if err != nil {
		return nil, fmt.Errorf("querying %s entities: %w", kind, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		t := newT()
		if err := json.Unmarshal(payload, t); err != nil {
			return nil, fmt.Errorf("unmarshaling %s entity: %w", kind, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// LatestJobID resolves the job_id with the most recent created_at for
// knowledgeID, across all entity kinds.
func LatestJobID(ctx context.Context, s *Store, knowledgeID string) (string, error) {
	var jobID string
	err := s.pool.QueryRow(ctx, `
		SELECT job_id FROM knowledge_entities
		WHERE knowledge_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, knowledgeID).Scan(&jobID)
	return jobID, err
}

// EntityExists reports whether an entity with entityID and kind is still
// present, regardless of knowledge_id/job_id — the existence check the
// verification phase re-queries against.
func (s *Store) EntityExists(ctx context.Context, kind knowledge.EntityKind, entityID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM knowledge_entities WHERE entity_id = $1 AND kind = $2)
	`, entityID, string(kind)).Scan(&exists)
	return exists, err
}

// CountEntities counts all entities, of every kind together, for
// (knowledgeID, jobID).
func CountEntities(ctx context.Context, s *Store, knowledgeID, jobID string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM knowledge_entities WHERE knowledge_id = $1 AND job_id = $2
	`, knowledgeID, jobID).Scan(&n)
	return n, err
}

// DeleteByKnowledge deletes every entity and ingestion result for
// knowledgeID — used by resync before writing the new job's entities.
// Returns the number of entity rows deleted.
func DeleteByKnowledge(ctx context.Context, s *Store, knowledgeID string) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM knowledge_entities WHERE knowledge_id = $1`, knowledgeID)
	if err != nil {
		return 0, fmt.Errorf("deleting entities: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM ingestion_results WHERE knowledge_id = $1`, knowledgeID); err != nil {
		return 0, fmt.Errorf("deleting ingestion results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return tag.RowsAffected, nil
}
