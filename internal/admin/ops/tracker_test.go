package ops_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/internal/admin/ops"
	"github.com/freehekimteam/quietvector/pkg/slogx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTracker(t *testing.T, clock *fakeClock, max int) *ops.Tracker {
	t.Helper()
	return ops.NewTracker(ops.Config{
		MaxEntries: max,
		TTL:        time.Hour,
		Logger:     slogx.Discard(),
		Now:        clock.Now,
	})
}

func stage(s domain.Stage) *domain.Stage { return &s }

func TestTrackerLifecycle(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := newTracker(t, clock, 0)

	op := tr.Create(domain.KindSnapshotRestore, map[string]any{"collection": "docs"})
	require.NotEmpty(t, op.ID)
	require.Equal(t, domain.StageCreated, op.Stage)
	require.Equal(t, op.CreatedAt, op.UpdatedAt)

	clock.Advance(time.Second)
	updated, err := tr.Update(op.ID, ops.Update{
		Stage: stage(domain.StageSaving),
		Meta:  map[string]any{"bytes_total": 1024},
	})
	require.NoError(t, err)
	require.Equal(t, domain.StageSaving, updated.Stage)
	require.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	d, err := tr.ToDict(op.ID)
	require.NoError(t, err)
	require.Equal(t, "saving", d["stage"])
	require.Equal(t, map[string]any{"collection": "docs", "bytes_total": 1024}, d["meta"])
	require.Nil(t, d["error"])

	_, err = tr.Fail(op.ID, "upload failed")
	require.NoError(t, err)
	got, ok := tr.Get(op.ID)
	require.True(t, ok)
	require.Equal(t, domain.StageFailed, got.Stage)
	require.Equal(t, "upload failed", got.Error)
}

func TestTrackerUnknownID(t *testing.T) {
	tr := newTracker(t, &fakeClock{t: time.Now()}, 0)

	_, err := tr.Update("missing", ops.Update{Stage: stage(domain.StageSaving)})
	require.ErrorIs(t, err, ops.ErrNotFound)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = tr.ToDict("missing")
	require.ErrorIs(t, err, ops.ErrNotFound)

	_, ok := tr.Get("missing")
	require.False(t, ok)
}

func TestTrackerSnapshotsDoNotAlias(t *testing.T) {
	tr := newTracker(t, &fakeClock{t: time.Now()}, 0)
	op := tr.Create("k", map[string]any{"a": 1})

	op.Meta["a"] = 2
	got, _ := tr.Get(op.ID)
	require.Equal(t, 1, got.Meta["a"])

	got.Meta["b"] = true
	again, _ := tr.Get(op.ID)
	require.NotContains(t, again.Meta, "b")
}

func TestTrackerConcurrentUpdatesAreNotLost(t *testing.T) {
	tr := newTracker(t, &fakeClock{t: time.Now()}, 0)
	op := tr.Create("k", nil)

	const writers = 64
	var wg sync.WaitGroup
	for i := range writers {
		wg.Go(func() {
			_, err := tr.Update(op.ID, ops.Update{
				Stage: stage(domain.StageUploading),
				Meta:  map[string]any{fmt.Sprintf("w%d", i): i},
			})
			assert.NoError(t, err)
		})
		wg.Go(func() {
			_, _ = tr.ToDict(op.ID)
		})
	}
	wg.Wait()

	got, ok := tr.Get(op.ID)
	require.True(t, ok)
	require.Len(t, got.Meta, writers)
	for i := range writers {
		require.Equal(t, i, got.Meta[fmt.Sprintf("w%d", i)])
	}
}

func TestTrackerListOrdered(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := newTracker(t, clock, 0)

	var ids []string
	for range 5 {
		ids = append(ids, tr.Create("k", nil).ID)
		clock.Advance(time.Millisecond)
	}

	list := tr.List()
	require.Len(t, list, 5)
	for i, op := range list {
		require.Equal(t, ids[i], op.ID)
	}
}

func TestTrackerCapEvictsOldestFinished(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := newTracker(t, clock, 3)

	a := tr.Create("k", nil)
	b := tr.Create("k", nil)
	c := tr.Create("k", nil)

	clock.Advance(time.Second)
	_, _ = tr.Complete(b.ID, nil)
	clock.Advance(time.Second)
	_, _ = tr.Fail(c.ID, "x")

	d := tr.Create("k", nil)
	require.Equal(t, 3, tr.Len())

	var listed []string
	for _, op := range tr.List() {
		listed = append(listed, op.ID)
	}
	require.Equal(t, []string{a.ID, c.ID, d.ID}, listed, "oldest finished entry goes first")

	// Evicted entries surface on the next reap for archiving.
	reaped := tr.Reap(clock.Now())
	require.Len(t, reaped, 1)
	require.Equal(t, b.ID, reaped[0].ID)
}

func TestTrackerEvictedStaysPollableUntilReleased(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := newTracker(t, clock, 1)

	done := tr.Create("k", nil)
	_, err := tr.Complete(done.ID, map[string]any{"result": true})
	require.NoError(t, err)
	tr.Create("k", nil)
	require.Equal(t, 1, tr.Len())

	d, err := tr.ToDict(done.ID)
	require.NoError(t, err)
	require.Equal(t, "completed", d["stage"])

	_, err = tr.Update(done.ID, ops.Update{})
	require.ErrorIs(t, err, ops.ErrNotFound, "pending operations are read-only")

	tr.Release(tr.Reap(clock.Now()))
	_, err = tr.ToDict(done.ID)
	require.ErrorIs(t, err, ops.ErrNotFound)
}

func TestTrackerCapNeverEvictsRunning(t *testing.T) {
	tr := newTracker(t, &fakeClock{t: time.Now()}, 2)

	tr.Create("k", nil)
	tr.Create("k", nil)
	tr.Create("k", nil)
	require.Equal(t, 3, tr.Len())
}

func TestTrackerReap(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := newTracker(t, clock, 0)

	done := tr.Create("k", nil)
	running := tr.Create("k", nil)
	_, _ = tr.Complete(done.ID, map[string]any{"result": true})

	require.Empty(t, tr.Reap(clock.Now().Add(59*time.Minute)))

	reaped := tr.Reap(clock.Now().Add(61 * time.Minute))
	require.Len(t, reaped, 1)
	require.Equal(t, done.ID, reaped[0].ID)
	require.Equal(t, domain.StageCompleted, reaped[0].Stage)

	_, ok := tr.Get(running.ID)
	require.True(t, ok)

	_, err := tr.Update(done.ID, ops.Update{})
	require.ErrorIs(t, err, ops.ErrNotFound)

	_, ok = tr.Get(done.ID)
	require.True(t, ok, "reaped but not yet released")
	tr.Release(reaped)
	_, ok = tr.Get(done.ID)
	require.False(t, ok)
}

type memArchive struct {
	mu      sync.Mutex
	ops     []domain.Operation
	saveErr error
	cutoffs []time.Time
}

func (m *memArchive) SaveOperations(_ context.Context, ops []domain.Operation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.ops = append(m.ops, ops...)
	return nil
}

func (m *memArchive) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutoffs = append(m.cutoffs, cutoff)
	var n int64
	kept := m.ops[:0]
	for _, op := range m.ops {
		if op.UpdatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, op)
	}
	m.ops = kept
	return n, nil
}

func TestReaperArchives(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := newTracker(t, clock, 0)
	archive := &memArchive{}
	r := ops.NewReaper(tr, archive, slogx.Discard(), time.Hour)

	op := tr.Create(domain.KindOpsApply, nil)
	_, _ = tr.Complete(op.ID, nil)

	require.Zero(t, r.ReapOnce(context.Background()))

	clock.Advance(2 * time.Hour)
	require.Equal(t, 1, r.ReapOnce(context.Background()))
	require.Len(t, archive.ops, 1)
	require.Equal(t, op.ID, archive.ops[0].ID)
}

func TestReaperStartStop(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := newTracker(t, clock, 0)
	archive := &memArchive{}

	op := tr.Create("k", nil)
	_, _ = tr.Complete(op.ID, nil)
	clock.Advance(2 * time.Hour)

	r := ops.NewReaper(tr, archive, slogx.Discard(), time.Hour)
	r.Start()
	r.Stop()

	require.Zero(t, tr.Len(), "stop runs a final pass")
	require.Len(t, archive.ops, 1)
}

func TestReaperRetriesFailedArchive(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := newTracker(t, clock, 0)
	archive := &memArchive{saveErr: fmt.Errorf("database is locked")}
	r := ops.NewReaper(tr, archive, slogx.Discard(), time.Hour)

	op := tr.Create("k", nil)
	_, _ = tr.Complete(op.ID, nil)
	clock.Advance(2 * time.Hour)

	require.Equal(t, 1, r.ReapOnce(context.Background()))
	_, ok := tr.Get(op.ID)
	require.True(t, ok, "kept until the archive accepts it")

	archive.mu.Lock()
	archive.saveErr = nil
	archive.mu.Unlock()

	require.Equal(t, 1, r.ReapOnce(context.Background()))
	require.Len(t, archive.ops, 1)
	_, ok = tr.Get(op.ID)
	require.False(t, ok)
	require.Zero(t, r.ReapOnce(context.Background()))
}

func TestReaperPrunesArchive(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := newTracker(t, clock, 0)
	archive := &memArchive{ops: []domain.Operation{
		{ID: "old", UpdatedAt: clock.Now().Add(-48 * time.Hour)},
		{ID: "recent", UpdatedAt: clock.Now().Add(-time.Hour)},
	}}

	r := ops.NewReaper(tr, archive, slogx.Discard(), time.Hour)
	r.ReapOnce(context.Background())
	require.Empty(t, archive.cutoffs, "zero retention keeps everything")

	r.Retention = 24 * time.Hour
	r.ReapOnce(context.Background())
	require.Equal(t, []time.Time{clock.Now().Add(-24 * time.Hour)}, archive.cutoffs)
	require.Len(t, archive.ops, 1)
	require.Equal(t, "recent", archive.ops[0].ID)
}
