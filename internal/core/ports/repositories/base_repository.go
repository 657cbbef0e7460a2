package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// Begin starts a new read-write database transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// BeginSnapshot starts a read-only repeatable-read transaction, so every
	// query inside it sees the same committed state.
	BeginSnapshot(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction
	Rollback(ctx context.Context, tx pgx.Tx) error
}
