// Package ops tracks asynchronous admin jobs so that clients can poll their
// progress after the originating request has returned.
package ops

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/pkg/idx"
)

const (
	DefaultMaxEntries = 1000
	DefaultTTL        = time.Hour
)

// ErrNotFound is returned for unknown operation ids.
var ErrNotFound error = &domain.Error{Kind: domain.ErrNotFound, Msg: "Operation not found"}

type Config struct {
	// MaxEntries caps the registry. Create evicts the oldest finished
	// operation to stay under it; running operations are never evicted.
	MaxEntries int
	// TTL is how long a finished operation stays pollable before Reap
	// drops it.
	TTL    time.Duration
	Logger *slog.Logger
	Now    func() time.Time
	IDs    *idx.Generator
}

// Update describes a partial change. Nil fields are left alone; Meta keys
// are merged with last-write-wins semantics.
type Update struct {
	Stage *domain.Stage
	Error *string
	Meta  map[string]any
}

type entry struct {
	mu      sync.Mutex
	op      domain.Operation
	removed bool
}

// Tracker is a concurrent registry of operations. The map is guarded by an
// RWMutex and each entry has its own lock, so updates to different
// operations never contend.
type Tracker struct {
	cfg Config

	mu      sync.RWMutex
	entries map[string]*entry

	// pending holds finished operations that left entries, through the size
	// cap or Reap, until Release confirms the archive has them. Get still
	// answers for them.
	pendMu  sync.Mutex
	pending []domain.Operation
}

func NewTracker(cfg Config) *Tracker {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.IDs == nil {
		cfg.IDs = idx.NewGenerator(nil)
	}
	return &Tracker{
		cfg:     cfg,
		entries: make(map[string]*entry),
	}
}

// Create registers a new operation in stage created.
func (t *Tracker) Create(kind string, meta map[string]any) domain.Operation {
	now := t.cfg.Now()
	op := domain.Operation{
		ID:        t.cfg.IDs.NewAt(now).String(),
		Kind:      kind,
		Stage:     domain.StageCreated,
		CreatedAt: now,
		UpdatedAt: now,
		Meta:      maps.Clone(meta),
	}
	if op.Meta == nil {
		op.Meta = map[string]any{}
	}

	t.mu.Lock()
	if len(t.entries) >= t.cfg.MaxEntries {
		t.evictOldestLocked()
	}
	t.entries[op.ID] = &entry{op: op}
	t.mu.Unlock()

	return op.Clone()
}

// evictOldestLocked drops the least recently updated finished operation.
// Caller holds t.mu for writing.
func (t *Tracker) evictOldestLocked() {
	var (
		victim   *entry
		victimID string
		oldest   time.Time
	)
	for id, e := range t.entries {
		e.mu.Lock()
		terminal, updated := e.op.Stage.Terminal(), e.op.UpdatedAt
		e.mu.Unlock()
		if !terminal {
			continue
		}
		if victim == nil || updated.Before(oldest) {
			victim, victimID, oldest = e, id, updated
		}
	}

	if victim == nil {
		t.cfg.Logger.Warn("operation registry over capacity with no finished entries",
			"entries", len(t.entries),
			"max_entries", t.cfg.MaxEntries,
		)
		return
	}

	// Queue before marking removed so a concurrent Get never misses it.
	victim.mu.Lock()
	t.addPending(victim.op.Clone())
	victim.removed = true
	victim.mu.Unlock()
	delete(t.entries, victimID)
}

// addPending queues ops for archiving, dropping the oldest beyond
// MaxEntries.
func (t *Tracker) addPending(ops ...domain.Operation) {
	t.pendMu.Lock()
	defer t.pendMu.Unlock()
	t.pending = append(t.pending, ops...)
	if over := len(t.pending) - t.cfg.MaxEntries; over > 0 {
		t.pending = slices.Delete(t.pending, 0, over)
	}
}

func (t *Tracker) lookupPending(id string) (domain.Operation, bool) {
	t.pendMu.Lock()
	defer t.pendMu.Unlock()
	for i := len(t.pending) - 1; i >= 0; i-- {
		if t.pending[i].ID == id {
			return t.pending[i].Clone(), true
		}
	}
	return domain.Operation{}, false
}

// Release forgets pending operations once they are archived, or when there
// is no archive to hand them to.
func (t *Tracker) Release(ops []domain.Operation) {
	if len(ops) == 0 {
		return
	}
	done := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		done[op.ID] = struct{}{}
	}

	t.pendMu.Lock()
	defer t.pendMu.Unlock()
	t.pending = slices.DeleteFunc(t.pending, func(op domain.Operation) bool {
		_, ok := done[op.ID]
		return ok
	})
}

func (t *Tracker) lookup(id string) (*entry, bool) {
	t.mu.RLock()
	e, ok := t.entries[id]
	t.mu.RUnlock()
	return e, ok
}

// Update applies u to the operation atomically and returns the result.
func (t *Tracker) Update(id string, u Update) (domain.Operation, error) {
	e, ok := t.lookup(id)
	if !ok {
		return domain.Operation{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return domain.Operation{}, ErrNotFound
	}

	if u.Stage != nil {
		e.op.Stage = *u.Stage
	}
	if u.Error != nil {
		e.op.Error = *u.Error
	}
	maps.Copy(e.op.Meta, u.Meta)
	e.op.UpdatedAt = t.cfg.Now()

	return e.op.Clone(), nil
}

// Advance moves the operation to stage and merges meta.
func (t *Tracker) Advance(id string, stage domain.Stage, meta map[string]any) (domain.Operation, error) {
	return t.Update(id, Update{Stage: &stage, Meta: meta})
}

// Complete finishes the operation successfully.
func (t *Tracker) Complete(id string, meta map[string]any) (domain.Operation, error) {
	return t.Advance(id, domain.StageCompleted, meta)
}

// Fail finishes the operation with an error message.
func (t *Tracker) Fail(id string, msg string) (domain.Operation, error) {
	stage := domain.StageFailed
	if msg == "" {
		msg = "unknown error"
	}
	return t.Update(id, Update{Stage: &stage, Error: &msg})
}

// Get returns a snapshot of the operation. Operations that left the
// registry but are not yet released are still returned.
func (t *Tracker) Get(id string) (domain.Operation, bool) {
	if e, ok := t.lookup(id); ok {
		e.mu.Lock()
		op, removed := e.op.Clone(), e.removed
		e.mu.Unlock()
		if !removed {
			return op, true
		}
	}
	return t.lookupPending(id)
}

// ToDict returns the wire form of the operation.
func (t *Tracker) ToDict(id string) (map[string]any, error) {
	op, ok := t.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return op.Dict(), nil
}

// List returns snapshots of the operations in the registry, oldest first.
// Pending operations are not included.
func (t *Tracker) List() []domain.Operation {
	t.mu.RLock()
	entries := make([]*entry, 0, len(t.entries))
	for _, e := range t.entries {
		entries = append(entries, e)
	}
	t.mu.RUnlock()

	out := make([]domain.Operation, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.removed {
			out = append(out, e.op.Clone())
		}
		e.mu.Unlock()
	}
	slices.SortFunc(out, func(a, b domain.Operation) int {
		return idx.Compare(idx.ID(a.ID), idx.ID(b.ID))
	})
	return out
}

// Len returns the number of tracked operations.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Reap removes finished operations not updated within TTL of now and
// returns every pending operation, including those evicted by the size cap
// and those from earlier passes that were never released.
func (t *Tracker) Reap(now time.Time) []domain.Operation {
	cutoff := now.Add(-t.cfg.TTL)

	t.mu.RLock()
	candidates := make([]string, 0)
	for id, e := range t.entries {
		e.mu.Lock()
		if e.op.Stage.Terminal() && e.op.UpdatedAt.Before(cutoff) {
			candidates = append(candidates, id)
		}
		e.mu.Unlock()
	}
	t.mu.RUnlock()

	if len(candidates) > 0 {
		t.mu.Lock()
		for _, id := range candidates {
			e, ok := t.entries[id]
			if !ok {
				continue
			}
			e.mu.Lock()
			// Re-check: the entry may have been touched since the scan.
			if e.op.Stage.Terminal() && e.op.UpdatedAt.Before(cutoff) {
				t.addPending(e.op.Clone())
				e.removed = true
				delete(t.entries, id)
			}
			e.mu.Unlock()
		}
		t.mu.Unlock()
	}

	t.pendMu.Lock()
	defer t.pendMu.Unlock()
	return slices.Clone(t.pending)
}
