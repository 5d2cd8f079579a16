package store

import (
	"context"
	"database/sql"

	"github.com/safar/makeup-inventory/internal/database"
)

// Querier is satisfied by *sql.DB and *sql.Tx, so every statement can run
// either standalone (auto-committed) or inside a caller's transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func checkAffected(op string, result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return database.Wrap(op, err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
