// Package testutil provides shared helpers for integration tests.
// Helpers skip the calling test when TEST_DATABASE_URL is not set, so unit
// tests run without a database.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq" // PostgreSQL driver

	"stock_backend/internal/database"
)

// EnvDatabaseURL names the variable holding the integration database DSN.
const EnvDatabaseURL = "TEST_DATABASE_URL"

// NewSQLDB opens a *sql.DB against TEST_DATABASE_URL and closes it when the test finishes.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// MustMigrate opens the database named by dsn and applies the embedded
// migrations. It panics on failure; use it from TestMain.
func MustMigrate(dsn string) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		panic("testutil.MustMigrate: open: " + err.Error())
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		panic("testutil.MustMigrate: " + err.Error())
	}
}

// Truncate empties the given tables.
func Truncate(t *testing.T, db *sql.DB, tables ...string) {
	t.Helper()
	for _, table := range tables {
		if _, err := db.Exec("TRUNCATE TABLE " + table); err != nil {
			t.Fatalf("testutil.Truncate %s: %v", table, err)
		}
	}
}
