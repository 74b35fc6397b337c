package sqlite

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type queries struct {
	db DBTX
}

func newQueries(db DBTX) *queries { return &queries{db: db} }

type operationRow struct {
	ID        string
	Kind      string
	Stage     string
	Error     sql.NullString
	Meta      string
	CreatedAt int64
	UpdatedAt int64
}

const upsertOperation = `
INSERT INTO operations (id, kind, stage, error, meta, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    kind = excluded.kind,
    stage = excluded.stage,
    error = excluded.error,
    meta = excluded.meta,
    updated_at = excluded.updated_at`

func (q *queries) upsertOperation(ctx context.Context, r operationRow) error {
	_, err := q.db.ExecContext(ctx, upsertOperation,
		r.ID, r.Kind, r.Stage, r.Error, r.Meta, r.CreatedAt, r.UpdatedAt)
	return err
}

const getOperation = `
SELECT id, kind, stage, error, meta, created_at, updated_at
FROM operations
WHERE id = ?`

func (q *queries) getOperation(ctx context.Context, id string) (operationRow, error) {
	var r operationRow
	err := q.db.QueryRowContext(ctx, getOperation, id).Scan(
		&r.ID, &r.Kind, &r.Stage, &r.Error, &r.Meta, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

const listOperations = `
SELECT id, kind, stage, error, meta, created_at, updated_at
FROM operations
ORDER BY id DESC
LIMIT ?`

func (q *queries) listOperations(ctx context.Context, limit int) ([]operationRow, error) {
	rows, err := q.db.QueryContext(ctx, listOperations, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []operationRow
	for rows.Next() {
		var r operationRow
		if err := rows.Scan(&r.ID, &r.Kind, &r.Stage, &r.Error, &r.Meta, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const deleteOperationsBefore = `DELETE FROM operations WHERE updated_at < ?`

func (q *queries) deleteOperationsBefore(ctx context.Context, cutoff int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteOperationsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
