package ops

import (
	"context"
	"log/slog"
	"time"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
)

const DefaultReapInterval = time.Minute

// Archive persists operations after they leave the in-memory registry.
type Archive interface {
	SaveOperations(ctx context.Context, ops []domain.Operation) error
	// PruneBefore drops archived operations last updated before cutoff.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Reaper periodically drops finished operations from the tracker and hands
// them to the archive, if one is configured.
type Reaper struct {
	Tracker  *Tracker
	Archive  Archive // optional
	Logger   *slog.Logger
	Interval time.Duration
	// Retention bounds the archive. Zero keeps archived operations forever.
	Retention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewReaper creates a reaper. If interval is 0 or negative it defaults to
// one minute.
func NewReaper(tracker *Tracker, archive Archive, logger *slog.Logger, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = DefaultReapInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reaper{
		Tracker:  tracker,
		Archive:  archive,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the reap loop in the background. Call Stop to end it.
func (r *Reaper) Start() {
	go r.run()
	r.Logger.Info("operation reaper started", "interval", r.Interval)
}

// Stop ends the loop, running one final pass so that finished operations
// reach the archive before shutdown.
func (r *Reaper) Stop() {
	close(r.stopCh)
	<-r.doneCh
	r.Logger.Info("operation reaper stopped")
}

func (r *Reaper) run() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.ReapOnce(context.Background())
		case <-r.stopCh:
			r.ReapOnce(context.Background())
			return
		}
	}
}

// ReapOnce performs a single reap pass and returns the number of
// operations handed on. Operations the archive fails to store stay pending
// and are retried on the next pass.
func (r *Reaper) ReapOnce(ctx context.Context) int {
	now := r.Tracker.cfg.Now()
	reaped := r.Tracker.Reap(now)

	if len(reaped) > 0 {
		if r.Archive == nil {
			r.Tracker.Release(reaped)
		} else if err := r.Archive.SaveOperations(ctx, reaped); err != nil {
			r.Logger.Error("failed to archive operations", "count", len(reaped), "error", err)
		} else {
			r.Tracker.Release(reaped)
		}
		r.Logger.Info("operation reap completed", "removed_operations", len(reaped))
	}

	r.prune(ctx, now)
	return len(reaped)
}

func (r *Reaper) prune(ctx context.Context, now time.Time) {
	if r.Archive == nil || r.Retention <= 0 {
		return
	}
	n, err := r.Archive.PruneBefore(ctx, now.Add(-r.Retention))
	if err != nil {
		r.Logger.Error("failed to prune operation archive", "error", err)
		return
	}
	if n > 0 {
		r.Logger.Info("operation archive pruned", "removed_operations", n, "retention", r.Retention)
	}
}
