package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store wraps the connection pool with typed accessors for every table in
// the prediction schema. All mutating derived-table writes use
// insert-or-update-on-conflict so a re-run converges instead of duplicating.
type Store struct {
	pg PgPool
}

func New(pg PgPool) *Store {
	return &Store{pg: pg}
}
