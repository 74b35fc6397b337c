package httpx

import (
	"sync"
	"testing"
	"time"

	"github.com/freehekimteam/quietvector/pkg/slogx"
	"github.com/stretchr/testify/require"
)

// A caller that fetched a window just before Sweep deleted it must not
// record into the orphan, or the key gets a second, empty window.
func TestAllowAfterWindowSweptUnderCaller(t *testing.T) {
	var (
		mu  sync.Mutex
		now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	l := NewSlidingWindowLimiter(SlidingWindowConfig{
		Limit: 1, Window: time.Minute, StaleAfter: time.Minute, SweepInterval: time.Hour,
		Logger: slogx.Discard(), Now: clock,
	})

	require.True(t, l.Allow("a"))
	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()

	// The caller has the pointer but not yet the lock.
	stale := l.window("a")
	require.Equal(t, 1, l.Sweep())

	stale.mu.Lock()
	require.True(t, stale.removed)
	stale.mu.Unlock()

	cw := l.lockedWindow("a")
	require.NotSame(t, stale, cw)
	cw.mu.Unlock()

	require.True(t, l.Allow("a"))
	require.False(t, l.Allow("a"))
	require.Equal(t, 1, l.Count("a"))
	require.Equal(t, 1, l.Clients())
}

func TestAllowNeverExceedsLimitWhileSweeping(t *testing.T) {
	// Fresh windows are empty and immediately stale, so the sweeper races
	// every first admission.
	for range 50 {
		l := NewSlidingWindowLimiter(SlidingWindowConfig{
			Limit: 1, Window: time.Hour, StaleAfter: time.Nanosecond, SweepInterval: time.Hour,
			Logger: slogx.Discard(),
		})

		stop := make(chan struct{})
		var sweeper sync.WaitGroup
		sweeper.Go(func() {
			for {
				select {
				case <-stop:
					return
				default:
					l.Sweep()
				}
			}
		})

		var (
			workers  sync.WaitGroup
			mu       sync.Mutex
			admitted int
		)
		for range 4 {
			workers.Go(func() {
				for range 50 {
					if l.Allow("hot") {
						mu.Lock()
						admitted++
						mu.Unlock()
					}
				}
			})
		}
		workers.Wait()
		close(stop)
		sweeper.Wait()

		require.Equal(t, 1, admitted)
	}
}
