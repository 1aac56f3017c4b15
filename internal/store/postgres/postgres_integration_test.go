//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aoserver/aoserver/internal/store/postgres"
)

func startContainer(t *testing.T) postgres.Config {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("aoserver_test"),
		tcpostgres.WithUsername("aoserver_test"),
		tcpostgres.WithPassword("aoserver_test"),
		tcpostgres.WithInitScripts("../../migrate/migrations/0001_init.up.sql"),
		testcontainers.WithWaitStrategyAndDeadline(2*time.Minute,
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return postgres.Config{
		Host:     host,
		Port:     port.Int(),
		Database: "aoserver_test",
		User:     "aoserver_test",
		Password: "aoserver_test",
		SSLMode:  "disable",
	}
}

func TestIpidIsStableAcrossCalls(t *testing.T) {
	cfg := startContainer(t)
	store, err := postgres.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	first, err := store.Ipid(context.Background(), "10.0.0.1")
	require.NoError(t, err)

	second, err := store.Ipid(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := store.Ipid(context.Background(), "10.0.0.2")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestAddHdidIsIdempotent(t *testing.T) {
	cfg := startContainer(t)
	store, err := postgres.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	ipid, err := store.Ipid(context.Background(), "10.0.0.3")
	require.NoError(t, err)

	require.NoError(t, store.AddHdid(context.Background(), "abc123", ipid))
	require.NoError(t, store.AddHdid(context.Background(), "abc123", ipid))
}
