// Package pgtest starts a throwaway PostgreSQL for integration tests.
package pgtest

import (
	"context"
	"sync"
	"testing"
	"time"

	"granabox/pkg/config"
	"granabox/pkg/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

var (
	once     sync.Once
	dsn      string
	startErr error
)

// DSN returns the connection string of a migrated database shared by the
// whole test binary. The container is reaped when the binary exits.
func DSN(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	once.Do(func() {
		dsn, startErr = start(context.Background())
	})
	require.NoError(t, startErr)
	return dsn
}

// Pool returns a pool on an empty database. Identities restart at 1.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, &config.DatabaseConfig{URL: DSN(t), MaxConns: 5}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE transactions, categories RESTART IDENTITY CASCADE")
	require.NoError(t, err)
	return pool
}

func start(ctx context.Context) (string, error) {
	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("granabox"),
		tcpostgres.WithUsername("granabox"),
		tcpostgres.WithPassword("granabox"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return "", err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", err
	}
	if err := postgres.Migrate(connStr); err != nil {
		return "", err
	}
	return connStr, nil
}
