// Package store implements the persistence-layer contracts:
// upsert-by-natural-key, bulk save preserving order, query by knowledge_id
// (optionally job_id), an idempotency log, a checkpoint store, and
// ingestion dedup. It is backed by PostgreSQL (via pgx) for durability and
// Redis for a fast idempotency-log read path in front of it, following the
// two-tier pattern tarsy uses for WebSocket catchup (Postgres of record,
// a faster path for the hot read).
package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Store bundles the document store and idempotency cache. A single instance
// is constructed at startup and threaded through the activity context.
type Store struct {
	pool *pgxpool.Pool
	cache *redis.Client
}

// New constructs a Store from an already-connected pool and cache client.
func New(pool *pgxpool.Pool, cache *redis.Client) *Store {
	return &Store{pool: pool, cache: cache}
}

// Pool exposes the underlying connection pool for health checks.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Ping verifies both backing stores are reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return err
	}
	if s.cache != nil {
		return s.cache.Ping(ctx).Err()
	}
	return nil
}
