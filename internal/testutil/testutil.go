package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/safar/makeup-inventory/internal/config"
	"github.com/safar/makeup-inventory/internal/database"
)

// OpenSQLite opens a private in-memory sqlite database with the schema
// applied. The database is closed when the test finishes.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()

	cfg := config.DatabaseConfig{URL: "file:" + uuid.NewString() + "?mode=memory&cache=shared"}
	db, err := database.NewConnection(&cfg)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := database.Migrate(context.Background(), db, config.DriverSQLite, database.MigrateUp); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}
