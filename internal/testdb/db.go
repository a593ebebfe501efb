// Package testdb starts a disposable postgres for store tests.
package testdb

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"

	"github.com/pageza/recipe-share/backend/config"
	"github.com/pageza/recipe-share/backend/internal/database"
	"github.com/pageza/recipe-share/backend/internal/repository"
)

// TestDB wraps a migrated postgres store and the container behind it
type TestDB struct {
	Store     repository.Store
	Config    *config.Config
	Container testcontainers.Container
}

// Close cleans up the test database
func (td *TestDB) Close() error {
	if td.Store != nil {
		_ = td.Store.Close()
	}
	if td.Container != nil {
		return td.Container.Terminate(context.Background())
	}
	return nil
}

// SetupPostgres starts a postgres container and opens a migrated store
// against it. The test is skipped when docker is not available.
func SetupPostgres(t *testing.T) *TestDB {
	t.Helper()
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		).WithDeadline(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("failed to start postgres container: %v", err)
	}
	testDB := &TestDB{Container: container}
	t.Cleanup(func() {
		if err := testDB.Close(); err != nil {
			t.Logf("Error cleaning up test database: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	testDB.Config = &config.Config{
		Environment: config.Test,
		StoreDriver: config.StorePostgres,
		DBHost:      host,
		DBPort:      port.Port(),
		DBUser:      "test",
		DBPassword:  "test",
		DBName:      "test",
		DBSSLMode:   "disable",
	}

	testDB.Store, err = database.OpenStore(ctx, testDB.Config, zaptest.NewLogger(t))
	require.NoError(t, err)
	return testDB
}
