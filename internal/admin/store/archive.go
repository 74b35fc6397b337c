package store

import (
	"context"
	"errors"
	"time"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
)

// OperationArchive adapts a Store to the tracker's archive hook and to the
// status lookup used once an operation has left memory.
type OperationArchive struct {
	store Store
}

func NewOperationArchive(store Store) *OperationArchive {
	return &OperationArchive{store: store}
}

// SaveOperations writes ops in a single transaction.
func (a *OperationArchive) SaveOperations(ctx context.Context, ops []domain.Operation) error {
	return a.store.WithTx(ctx, func(tx Tx) error {
		for _, op := range ops {
			if err := tx.Operations().UpsertOperation(ctx, op); err != nil {
				return err
			}
		}
		return nil
	})
}

// LookupOperation returns an archived operation. ok is false when the id
// was never archived.
func (a *OperationArchive) LookupOperation(ctx context.Context, id string) (domain.Operation, bool, error) {
	op, err := a.store.Operations().GetOperation(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return domain.Operation{}, false, nil
	}
	if err != nil {
		return domain.Operation{}, false, err
	}
	return op, true, nil
}

// ListOperations returns up to limit archived operations, newest first.
func (a *OperationArchive) ListOperations(ctx context.Context, limit int) ([]domain.Operation, error) {
	return a.store.Operations().ListOperations(ctx, limit)
}

// PruneBefore drops operations last updated before cutoff.
func (a *OperationArchive) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return a.store.Operations().DeleteOperationsBefore(ctx, cutoff)
}

// Ping backs the readiness check.
func (a *OperationArchive) Ping(ctx context.Context) error { return a.store.Ping(ctx) }

func (a *OperationArchive) Close() error { return a.store.Close() }
