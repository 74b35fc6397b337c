package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/internal/admin/ops"
	"github.com/freehekimteam/quietvector/internal/admin/vectorstore"
	"github.com/freehekimteam/quietvector/pkg/slogx"
)

// RestoreTempPattern names the spool files of in-flight restores.
const RestoreTempPattern = "quietvector-restore-*"

// RestoreRunner restores collections from uploaded snapshots in the
// background. The upload is spooled to a temp file first so the request can
// return as soon as the bytes are safe on disk.
type RestoreRunner struct {
	Store   vectorstore.Store
	Tracker *ops.Tracker
	Logger  *slog.Logger
	// TempDir holds spool files. Empty means os.TempDir().
	TempDir string
	// Timeout bounds the transfer to Qdrant. Zero means no timeout.
	Timeout time.Duration
	// OnFinish, when set, observes every job's terminal stage.
	OnFinish func(stage domain.Stage, elapsed time.Duration)

	wg sync.WaitGroup
}

func (r *RestoreRunner) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Start spools body and hands the restore to a background goroutine. The
// returned operation is in stage saving with meta bytes_total set.
func (r *RestoreRunner) Start(ctx context.Context, collection, filename string, body io.Reader) (domain.Operation, error) {
	if collection == "" {
		return domain.Operation{}, domain.Validation("collection is required")
	}
	filename = filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if filename == "" || filename == "." || filename == "/" {
		return domain.Operation{}, domain.Validation("file is required")
	}

	op := r.Tracker.Create(domain.KindSnapshotRestore, map[string]any{
		"collection": collection,
		"filename":   filename,
	})
	if _, err := r.Tracker.Advance(op.ID, domain.StageSaving, nil); err != nil {
		return domain.Operation{}, err
	}

	f, err := os.CreateTemp(r.TempDir, RestoreTempPattern)
	if err != nil {
		r.fail(op.ID, "failed to create spool file")
		return domain.Operation{}, fmt.Errorf("create spool file: %w", err)
	}
	path := f.Name()

	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		r.remove(path)
		r.fail(op.ID, "upload interrupted")
		return domain.Operation{}, &domain.Error{Kind: domain.ErrValidation, Msg: "Failed to read upload", Err: err}
	}

	saved, err := r.Tracker.Update(op.ID, ops.Update{Meta: map[string]any{"bytes_total": n}})
	if err != nil {
		r.remove(path)
		return domain.Operation{}, err
	}

	slogx.FromContext(ctx).Info("restore upload spooled",
		"op_id", op.ID,
		"collection", collection,
		"bytes_total", n,
	)

	r.wg.Add(1)
	go r.run(context.WithoutCancel(ctx), op.ID, collection, filename, path)

	return saved, nil
}

func (r *RestoreRunner) run(ctx context.Context, id, collection, filename, path string) {
	defer r.wg.Done()
	start := time.Now()
	logger := slogx.FromContext(ctx).With("op_id", id, "collection", collection)

	defer r.remove(path)
	defer func() {
		if p := recover(); p != nil {
			logger.Error("restore job panicked", "panic", p, "stack", string(debug.Stack()))
			r.fail(id, fmt.Sprintf("internal error: %v", p))
			r.observe(domain.StageFailed, start)
		}
	}()

	if _, err := r.Tracker.Advance(id, domain.StageUploading, nil); err != nil {
		logger.Warn("restore job lost its operation", "error", err)
		return
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	f, err := os.Open(path)
	if err != nil {
		r.fail(id, "spool file missing")
		r.observe(domain.StageFailed, start)
		return
	}
	defer f.Close()

	ok, err := r.Store.UploadSnapshot(ctx, collection, filename, f)
	if err != nil {
		msg := errorText(err)
		logger.Warn("restore failed", "error", msg, "duration_ms", time.Since(start).Milliseconds())
		r.fail(id, msg)
		r.observe(domain.StageFailed, start)
		return
	}

	if _, err := r.Tracker.Complete(id, map[string]any{"result": ok}); err != nil {
		logger.Warn("restore job lost its operation", "error", err)
		return
	}
	logger.Info("restore completed", "duration_ms", time.Since(start).Milliseconds())
	r.observe(domain.StageCompleted, start)
}

func (r *RestoreRunner) fail(id, msg string) {
	if _, err := r.Tracker.Fail(id, msg); err != nil {
		r.log().Warn("failed to mark operation failed", "op_id", id, "error", err)
	}
}

func (r *RestoreRunner) observe(stage domain.Stage, start time.Time) {
	if r.OnFinish != nil {
		r.OnFinish(stage, time.Since(start))
	}
}

func (r *RestoreRunner) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.log().Warn("failed to remove spool file", "path", path, "error", err)
	}
}

// Wait blocks until every started job has finished or ctx ends.
func (r *RestoreRunner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CleanupStale removes spool files left behind by a previous process and
// returns how many were deleted.
func (r *RestoreRunner) CleanupStale() int {
	dir := r.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	matches, err := filepath.Glob(filepath.Join(dir, RestoreTempPattern))
	if err != nil {
		return 0
	}
	removed := 0
	for _, m := range matches {
		if err := os.Remove(m); err == nil {
			removed++
		}
	}
	if removed > 0 {
		r.log().Info("removed stale restore spool files", "count", removed, "dir", dir)
	}
	return removed
}

func errorText(err error) string {
	if msg := domain.Message(err); msg != "" {
		return msg
	}
	return err.Error()
}
