package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/internal/admin/ops"
	"github.com/freehekimteam/quietvector/internal/admin/service"
	"github.com/freehekimteam/quietvector/pkg/slogx"
	"github.com/stretchr/testify/require"
)

type mapArchive struct {
	ops map[string]domain.Operation
	err error
}

func (a *mapArchive) LookupOperation(_ context.Context, id string) (domain.Operation, bool, error) {
	if a.err != nil {
		return domain.Operation{}, false, a.err
	}
	op, ok := a.ops[id]
	return op, ok, nil
}

func (a *mapArchive) ListOperations(_ context.Context, limit int) ([]domain.Operation, error) {
	if a.err != nil {
		return nil, a.err
	}
	out := make([]domain.Operation, 0, len(a.ops))
	for _, op := range a.ops {
		out = append(out, op)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestOpsStatus(t *testing.T) {
	ctx := context.Background()
	tracker := newTracker()
	live := tracker.Create(domain.KindSnapshotRestore, nil)

	archived := domain.Operation{
		ID:        "01JNKQ3S3M0000000000000000",
		Kind:      domain.KindSnapshotRestore,
		Stage:     domain.StageCompleted,
		CreatedAt: time.Unix(100, 0),
		UpdatedAt: time.Unix(160, 0),
		Meta:      map[string]any{"result": true},
	}
	svc := &service.OpsService{
		Tracker: tracker,
		Archive: &mapArchive{ops: map[string]domain.Operation{archived.ID: archived}},
		Logger:  slogx.Discard(),
	}

	d, err := svc.Status(ctx, live.ID)
	require.NoError(t, err)
	require.Equal(t, "created", d["stage"])
	require.Nil(t, d["error"])

	d, err = svc.Status(ctx, archived.ID)
	require.NoError(t, err)
	require.Equal(t, "completed", d["stage"])
	require.Equal(t, 160.0, d["updated_at"])

	_, err = svc.Status(ctx, "nope")
	require.ErrorIs(t, err, ops.ErrNotFound)
	require.Equal(t, "Operation not found", domain.Message(err))

	_, err = svc.Status(ctx, "01JNKQ3S3M0000000000000001")
	require.ErrorIs(t, err, ops.ErrNotFound)
}

func TestOpsStatusCapEvictedBeforeReap(t *testing.T) {
	ctx := context.Background()
	tracker := ops.NewTracker(ops.Config{MaxEntries: 1, Logger: slogx.Discard()})
	svc := &service.OpsService{
		Tracker: tracker,
		Archive: &mapArchive{ops: map[string]domain.Operation{}},
		Logger:  slogx.Discard(),
	}

	done := tracker.Create(domain.KindSnapshotRestore, nil)
	_, err := tracker.Complete(done.ID, nil)
	require.NoError(t, err)
	tracker.Create(domain.KindSnapshotRestore, nil)

	d, err := svc.Status(ctx, done.ID)
	require.NoError(t, err)
	require.Equal(t, "completed", d["stage"])
}

func TestOpsList(t *testing.T) {
	ctx := context.Background()
	tracker := newTracker()
	live := tracker.Create(domain.KindOpsApply, nil)

	archived := domain.Operation{
		ID:        "01JNKQ3S3M0000000000000000",
		Kind:      domain.KindSnapshotRestore,
		Stage:     domain.StageCompleted,
		CreatedAt: time.Unix(100, 0),
		UpdatedAt: time.Unix(160, 0),
	}
	archive := &mapArchive{ops: map[string]domain.Operation{archived.ID: archived}}
	svc := &service.OpsService{Tracker: tracker, Archive: archive, Logger: slogx.Discard()}

	list, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, live.ID, list[0].ID)

	list, err = svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, archived.ID, list[0].ID, "older ULID sorts first")
	require.Equal(t, live.ID, list[1].ID)

	archive.err = errors.New("database is locked")
	_, err = svc.List(ctx, true)
	require.Error(t, err)
}

func TestOpsStatusArchiveFailureIsNotFound(t *testing.T) {
	svc := &service.OpsService{
		Tracker: newTracker(),
		Archive: &mapArchive{err: errors.New("database is locked")},
		Logger:  slogx.Discard(),
	}
	_, err := svc.Status(context.Background(), "01JNKQ3S3M0000000000000001")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOpsStatusWithoutArchive(t *testing.T) {
	svc := &service.OpsService{Tracker: newTracker()}
	_, err := svc.Status(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)

	list, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	require.Empty(t, list)
}
