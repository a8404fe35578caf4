//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/seunfola/repohealth/internal/healthstore"
	"github.com/seunfola/repohealth/schema"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestRepohealthWithMySQL tests the record store against a MySQL backend.
func TestRepohealthWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "repohealth",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/repohealth?parseTime=true", host, port.Port())

	verifyStoreBackend(t, schema.MySQLBackend, connStr)
	verifyStoreCommands(t, "mysql", connStr)
}

// TestRepohealthWithPostgres tests the record store against a PostgreSQL backend.
func TestRepohealthWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	verifyStoreBackend(t, schema.PostgreSQLBackend, connStr)
	verifyStoreCommands(t, "postgresql", connStr)
}

// verifyStoreBackend runs migrations and a full record round trip against the backend.
func verifyStoreBackend(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	ctx := context.Background()

	err := healthstore.Migrate(backend, connStr, -1)
	require.NoError(t, err)

	store, err := healthstore.NewStore(backend, connStr)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	rec := &schema.HealthRecord{
		RepoID:           "golang/go",
		Owner:            "golang",
		Repo:             "go",
		Name:             "go",
		Stars:            120000,
		Forks:            17000,
		OpenIssues:       9000,
		LastPushed:       time.Now().UTC().Truncate(time.Second),
		CommitActivity:   []int{10, 20, 30},
		DependencyHealth: 100,
		OverallHealth:    schema.OverallHealth{Score: 92, Label: schema.ExcellentHealth},
		AnalyzedAt:       time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, store.Upsert(ctx, rec))

	got, err := store.Get(ctx, "golang/go")
	require.NoError(t, err)
	require.Equal(t, rec.Stars, got.Stars)
	require.Equal(t, rec.OverallHealth, got.OverallHealth)

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	status, err := store.GetStatus()
	require.NoError(t, err)
	require.Equal(t, 1, status.TotalRecords)

	require.NoError(t, store.Clear(ctx))
}

// verifyStoreCommands exercises the store subcommands via the built binary.
func verifyStoreCommands(t *testing.T, backend, connStr string) {
	_ = os.Setenv("REPOHEALTH_STORE_BACKEND", backend)
	_ = os.Setenv("REPOHEALTH_STORE_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("REPOHEALTH_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("REPOHEALTH_STORE_DB_CONNECT") }()

	require.NoError(t, runRepohealthCommand(t, "store", "migrate"))
	require.NoError(t, runRepohealthCommand(t, "store", "status"))
	require.NoError(t, runRepohealthCommand(t, "store", "clear"))
}
