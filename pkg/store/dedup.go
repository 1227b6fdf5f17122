package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// LookupByContentHash returns the ingestion_id already recorded for
// contentHash, or "" if the source has never been ingested — the dedup
// check performs before re-ingesting a source.
func (s *Store) LookupByContentHash(ctx context.Context, contentHash string) (string, error) {
	var ingestionID string
	err := s.pool.QueryRow(ctx, `
 SELECT ingestion_id FROM ingestion_metadata WHERE content_hash = $1
		`, contentHash).Scan(&ingestionID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("looking up content hash: %w", err)
	}
	return ingestionID, nil
}

// RecordContentHash registers that sourceURL, hashing to contentHash, was
// ingested as ingestionID — first write wins, matching the "same content
// hash never re-ingests" invariant.
func (s *Store) RecordContentHash(ctx context.Context, contentHash, sourceURL, ingestionID string) error {
	_, err := s.pool.Exec(ctx, `
 INSERT INTO ingestion_metadata (content_hash, source_url, ingestion_id)
 VALUES ($1, $2, $3)
 ON CONFLICT (content_hash) DO NOTHING
		`, contentHash, sourceURL, ingestionID)
	if err != nil {
		return fmt.Errorf("recording content hash: %w", err)
	}
	return nil
}
