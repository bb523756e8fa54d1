// Package dbtest opens throwaway sqlite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rpupo63/crowdconnect-backend/database"
	"gorm.io/gorm/logger"
)

// New returns a migrated database backed by a file in t.TempDir().
func New(t testing.TB) database.Database {
	t.Helper()

	gdb, err := database.Open(database.Options{
		Type:     "sqlite",
		DSN:      database.SQLiteDSN(filepath.Join(t.TempDir(), "test.db")),
		LogLevel: logger.Silent,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	db := database.New(gdb)
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
