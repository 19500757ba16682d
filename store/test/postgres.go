package test

import (
	"os"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	testUser     = "testuser"
	testPassword = "testpassword"
	// pgvectorImage ships PostgreSQL with the vector extension preinstalled.
	pgvectorImage = "pgvector/pgvector:pg16"
)

// GetPostgresDSN returns a DSN for PostgreSQL testing.
// POSTGRES_TEST_DSN wins; otherwise a fresh container is started and terminated with the test.
func GetPostgresDSN(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("POSTGRES_TEST_DSN"); dsn != "" {
		return dsn
	}

	pgContainer, err := postgres.Run(t.Context(),
		pgvectorImage,
		postgres.WithDatabase("studybuddy_test"),
		postgres.WithUsername(testUser),
		postgres.WithPassword(testPassword),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, pgContainer)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(t.Context(), "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	return connStr
}
