package persistence

import (
	"context"
	"database/sql"
)

// Executor abstracts *sql.DB and *sql.Tx so repository methods can run inside
// or outside a transaction.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
