// Package dbtest spins up a disposable PostgreSQL testcontainer and applies
// the embedded migrations, mirroring tarsy's test/util.SetupTestDatabase —
// minus the ent client, since this module's store is hand-written pgx (see
// internal/database's package doc for why).
package dbtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/codeready-toolchain/knowledgepipeline/internal/config"
	"github.com/codeready-toolchain/knowledgepipeline/internal/database"
)

// NewPool starts a postgres:17-alpine container, runs migrations against it,
// and returns the pool; the container and pool are released through
// t.Cleanup.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("pipeline_test"),
		postgres.WithUsername("pipeline_test"),
		postgres.WithPassword("pipeline_test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "starting postgres testcontainer")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.PostgresConfig{
		Host:         host,
		Port:         port.Int(),
		User:         "pipeline_test",
		Password:     "pipeline_test",
		Database:     "pipeline_test",
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 1,
	}

	client, err := database.NewClient(ctx, cfg)
	require.NoError(t, err, "connecting and migrating test database")
	t.Cleanup(client.Close)

	return client.Pool
}

// ConnString is exposed for callers (e.g. redis-free store tests) that want
// to open their own pgx connection rather than share the pooled one.
func ConnString(cfg config.PostgresConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode)
}
