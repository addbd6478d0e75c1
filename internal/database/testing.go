package database

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/yourusername/set-predictor/internal/config"
)

// TestDatabaseEnv names the variables integration tests read their connection from
const (
	TestDatabaseHostEnv = "SET_PREDICTOR_TEST_DB_HOST"
	TestDatabasePortEnv = "SET_PREDICTOR_TEST_DB_PORT"
	TestDatabaseNameEnv = "SET_PREDICTOR_TEST_DB_NAME"
	TestDatabaseUserEnv = "SET_PREDICTOR_TEST_DB_USER"
	TestDatabasePassEnv = "SET_PREDICTOR_TEST_DB_PASSWORD"
)

// SetupTestDB connects to the integration database, skipping the test when
// none is configured
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	host := os.Getenv(TestDatabaseHostEnv)
	if host == "" {
		t.Skipf("integration test - set %s to run", TestDatabaseHostEnv)
	}

	port := 5432
	if p := os.Getenv(TestDatabasePortEnv); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil {
			t.Fatalf("invalid %s: %v", TestDatabasePortEnv, err)
		}
		port = parsed
	}

	cfg := &config.DatabaseConfig{
		Enabled:        true,
		Host:           host,
		Port:           port,
		Name:           os.Getenv(TestDatabaseNameEnv),
		User:           os.Getenv(TestDatabaseUserEnv),
		Password:       os.Getenv(TestDatabasePassEnv),
		SSLMode:        "disable",
		MaxConnections: 2,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	return db
}

// TeardownTestDB empties the override table and closes the connection
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.Exec(ctx, "TRUNCATE stat_overrides"); err != nil {
		t.Logf("warning: failed to truncate stat_overrides: %v", err)
	}
	db.Close()
}
