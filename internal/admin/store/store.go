package store

import (
	"context"
	"errors"
	"time"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
)

var (
	ErrNotFound = errors.New("store: not found")
)

// Store is the root data access interface for the operation archive.
// Drivers implement it and expose repositories as methods so that
// transactional and non-transactional use share one surface.
type Store interface {
	Operations() Operations

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Operations interface {
	// UpsertOperation writes op, replacing any earlier record with its id.
	UpsertOperation(ctx context.Context, op domain.Operation) error

	GetOperation(ctx context.Context, id string) (domain.Operation, error)

	// ListOperations returns the newest archived operations first.
	ListOperations(ctx context.Context, limit int) ([]domain.Operation, error)

	// DeleteOperationsBefore drops records last updated before cutoff and
	// returns how many were removed.
	DeleteOperationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
