package domain

import (
	"maps"
	"time"
)

// Stage is the lifecycle position of a tracked operation. The string values
// are returned verbatim to polling clients.
type Stage string

const (
	StageCreated   Stage = "created"
	StageSaving    Stage = "saving"
	StageUploading Stage = "uploading"
	StageVerifying Stage = "verifying" // reserved; the restore flow never enters it
	StageCompleted Stage = "completed"
	StageFailed    Stage = "failed"
)

// Terminal reports whether no further transitions are expected.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageFailed
}

func (s Stage) Valid() bool {
	switch s {
	case StageCreated, StageSaving, StageUploading, StageVerifying, StageCompleted, StageFailed:
		return true
	}
	return false
}

// Operation kinds.
const (
	KindSnapshotRestore  = "snapshot_restore"
	KindQdrantKeyPrepare = "qdrant_key_prepare"
	KindOpsApply         = "ops_apply"
)

// Operation is one tracked asynchronous job.
type Operation struct {
	ID        string
	Kind      string
	Stage     Stage
	Error     string // empty when the job has not failed
	CreatedAt time.Time
	UpdatedAt time.Time
	Meta      map[string]any
}

// Clone returns a copy that shares nothing mutable with o.
func (o Operation) Clone() Operation {
	o.Meta = maps.Clone(o.Meta)
	if o.Meta == nil {
		o.Meta = map[string]any{}
	}
	return o
}

// Dict renders the wire form: timestamps as float epoch seconds and a null
// error when the job has not failed.
func (o Operation) Dict() map[string]any {
	var errVal any
	if o.Error != "" {
		errVal = o.Error
	}
	meta := maps.Clone(o.Meta)
	if meta == nil {
		meta = map[string]any{}
	}
	return map[string]any{
		"id":         o.ID,
		"kind":       o.Kind,
		"stage":      string(o.Stage),
		"error":      errVal,
		"created_at": EpochSeconds(o.CreatedAt),
		"updated_at": EpochSeconds(o.UpdatedAt),
		"meta":       meta,
	}
}

// EpochSeconds converts t to fractional Unix seconds.
func EpochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
