package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
)

// SaveIngestionResult persists the ingestion envelope and every one of its
// chunks atomically, so a chunk is never orphaned from its ingestion result.
func (s *Store) SaveIngestionResult(ctx context.Context, r *knowledge.IngestionResult) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling ingestion result: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
 INSERT INTO ingestion_results (ingestion_id, knowledge_id, job_id, source_type, payload, success)
 VALUES ($1, $2, $3, $4, $5, $6)
 ON CONFLICT (ingestion_id) DO UPDATE SET
 payload = EXCLUDED.payload, success = EXCLUDED.success, updated_at = now
		`, r.IngestionID, r.KnowledgeID, r.JobID, string(r.SourceType), payload, r.Success)
	if err != nil {
		return fmt.Errorf("upserting ingestion result: %w", err)
	}

	for _, c := range r.Chunks {
		chunkPayload, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshaling chunk %s: %w", c.ChunkID, err)
		}
		_, err = tx.Exec(ctx, `
 INSERT INTO content_chunks (chunk_id, ingestion_id, chunk_index, chunk_type, payload)
 VALUES ($1, $2, $3, $4, $5)
 ON CONFLICT (chunk_id) DO UPDATE SET payload = EXCLUDED.payload
			`, c.ChunkID, r.IngestionID, c.ChunkIndex, string(c.ChunkType), chunkPayload)
		if err != nil {
			return fmt.Errorf("upserting chunk %s: %w", c.ChunkID, err)
		}
	}

	return tx.Commit(ctx)
}

// LoadChunks loads every chunk belonging to the given ingestion ids, ordered
// by ingestion_id and then chunk_index, the chunk set extraction runs
// against for a given knowledge/job pair.
func (s *Store) LoadChunks(ctx context.Context, ingestionIDs []string) ([]knowledge.Chunk, error) {
	if len(ingestionIDs) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, `
 SELECT payload FROM content_chunks
 WHERE ingestion_id = ANY($1)
 ORDER BY ingestion_id, chunk_index ASC
		`, ingestionIDs)
	if err != nil {
		return nil, fmt.Errorf("loading chunks: %w", err)
	}
	defer rows.Close()

	var out []knowledge.Chunk
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var c knowledge.Chunk
		if err := json.Unmarshal(payload, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// LoadIngestionResults loads every ingestion result for (knowledgeID, jobID).
func (s *Store) LoadIngestionResults(ctx context.Context, knowledgeID, jobID string) ([]knowledge.IngestionResult, error) {
	rows, err := s.pool.Query(ctx, `
 SELECT payload FROM ingestion_results WHERE knowledge_id = $1 AND job_id = $2
		`, knowledgeID, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []knowledge.IngestionResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var r knowledge.IngestionResult
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
