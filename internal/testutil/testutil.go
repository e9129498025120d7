// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/config"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/database"
)

// NewDB opens a migrated SQLite database in a per-test temporary directory.
func NewDB(t testing.TB) *sql.DB {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver: string(database.SQLite),
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}
	db, dialect, err := database.NewConnection(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(context.Background(), db, dialect); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
