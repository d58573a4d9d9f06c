//go:build integration

package probe

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/platinummonkey/ragstack/pkg/config"
)

func TestPostgresProbe_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("ragdb"),
		postgres.WithUsername("rag"),
		postgres.WithPassword("rag"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	defer func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	}()

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	port, err := strconv.Atoi(mapped.Port())
	require.NoError(t, err)

	cfg := config.PostgresSettings{Host: host, Port: port, Username: "rag", Password: "rag", DB: "ragdb"}

	p, err := NewPostgresProbe(cfg, "disable")
	require.NoError(t, err)
	defer p.Close()
	assert.NoError(t, p.Check(ctx))

	cfg.Password = "wrong"
	bad, err := NewPostgresProbe(cfg, "disable")
	require.NoError(t, err)
	defer bad.Close()
	assert.Error(t, bad.Check(ctx))
}

func TestMinioProbe_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "minioadmin",
				"MINIO_ROOT_PASSWORD": "minioadmin",
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start MinIO container")
	defer func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate MinIO container: %v", err)
		}
	}()

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	cfg := config.MinioSettings{Host: host + ":" + port.Port(), Username: "minioadmin", Password: "minioadmin"}

	p, err := NewMinioProbe(ctx, cfg, "us-east-1")
	require.NoError(t, err)
	assert.NoError(t, p.Check(ctx))

	cfg.Password = "not-the-password"
	bad, err := NewMinioProbe(ctx, cfg, "us-east-1")
	require.NoError(t, err)
	assert.Error(t, bad.Check(ctx))
}
