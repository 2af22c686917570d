package repositories_test

import (
	"os"
	"testing"

	"stock_backend/internal/testutil"
)

// TestMain applies the schema once when an integration database is configured.
func TestMain(m *testing.M) {
	if dsn := os.Getenv(testutil.EnvDatabaseURL); dsn != "" {
		testutil.MustMigrate(dsn)
	}
	os.Exit(m.Run())
}
