package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
)

type operationsRepo struct {
	q *queries
}

func (r *operationsRepo) UpsertOperation(ctx context.Context, op domain.Operation) error {
	meta, err := json.Marshal(op.Meta)
	if err != nil {
		return fmt.Errorf("encode meta for %s: %w", op.ID, err)
	}
	if op.Meta == nil {
		meta = []byte("{}")
	}
	return r.q.upsertOperation(ctx, operationRow{
		ID:        op.ID,
		Kind:      op.Kind,
		Stage:     string(op.Stage),
		Error:     mapStringNull(op.Error),
		Meta:      string(meta),
		CreatedAt: op.CreatedAt.UnixNano(),
		UpdatedAt: op.UpdatedAt.UnixNano(),
	})
}

func (r *operationsRepo) GetOperation(ctx context.Context, id string) (domain.Operation, error) {
	row, err := r.q.getOperation(ctx, id)
	if err != nil {
		return domain.Operation{}, mapNotFound(err)
	}
	return mapOperation(row)
}

func (r *operationsRepo) ListOperations(ctx context.Context, limit int) ([]domain.Operation, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.q.listOperations(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Operation, 0, len(rows))
	for _, row := range rows {
		op, err := mapOperation(row)
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return out, nil
}

func (r *operationsRepo) DeleteOperationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.q.deleteOperationsBefore(ctx, cutoff.UnixNano())
}

func mapOperation(row operationRow) (domain.Operation, error) {
	meta := map[string]any{}
	if row.Meta != "" {
		if err := json.Unmarshal([]byte(row.Meta), &meta); err != nil {
			return domain.Operation{}, fmt.Errorf("decode meta for %s: %w", row.ID, err)
		}
	}
	return domain.Operation{
		ID:        row.ID,
		Kind:      row.Kind,
		Stage:     domain.Stage(row.Stage),
		Error:     mapNullString(row.Error),
		CreatedAt: time.Unix(0, row.CreatedAt),
		UpdatedAt: time.Unix(0, row.UpdatedAt),
		Meta:      meta,
	}, nil
}
