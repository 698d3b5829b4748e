package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalwizard/internal/db"
)

// NewTestDB returns a migrated sqlite database stored in t.TempDir().
// A file is used instead of :memory: so every pooled connection sees the same schema.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	database, err := db.Init("sqlite", dsn)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := db.RunMigrations(context.Background(), database.DB, "sqlite"); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database
}
