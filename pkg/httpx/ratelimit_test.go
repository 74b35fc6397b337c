package httpx_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/freehekimteam/quietvector/pkg/httpx"
	"github.com/freehekimteam/quietvector/pkg/slogx"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newClock() *testClock {
	return &testClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestClientIP(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"

		require.Equal(t, "192.168.1.1", httpx.ClientIP(req))
	})

	t.Run("prefers leftmost X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", " 203.0.113.1 , 192.168.1.1")

		require.Equal(t, "203.0.113.1", httpx.ClientIP(req))
	})

	t.Run("ignores X-Real-IP", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")

		require.Equal(t, "192.168.1.1", httpx.ClientIP(req))
	})

	t.Run("RemoteAddr without port", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.7"

		require.Equal(t, "10.0.0.7", httpx.ClientIP(req))
	})
}

func TestSlidingWindowLimiter(t *testing.T) {
	t.Run("allows up to the limit then rejects", func(t *testing.T) {
		clock := newClock()
		l := httpx.NewSlidingWindowLimiter(httpx.SlidingWindowConfig{
			Limit: 3, Window: time.Minute, Logger: slogx.Discard(), Now: clock.Now,
		})

		for i := range 3 {
			require.True(t, l.Allow("a"), "request %d should pass", i+1)
		}
		require.False(t, l.Allow("a"))
		require.Equal(t, 3, l.Count("a"), "rejections are not recorded")
	})

	t.Run("keys are independent", func(t *testing.T) {
		clock := newClock()
		l := httpx.NewSlidingWindowLimiter(httpx.SlidingWindowConfig{
			Limit: 1, Window: time.Minute, Logger: slogx.Discard(), Now: clock.Now,
		})

		require.True(t, l.Allow("a"))
		require.False(t, l.Allow("a"))
		require.True(t, l.Allow("b"))
	})

	t.Run("window slides", func(t *testing.T) {
		clock := newClock()
		l := httpx.NewSlidingWindowLimiter(httpx.SlidingWindowConfig{
			Limit: 2, Window: time.Minute, Logger: slogx.Discard(), Now: clock.Now,
		})

		require.True(t, l.Allow("a"))
		clock.Advance(30 * time.Second)
		require.True(t, l.Allow("a"))
		require.False(t, l.Allow("a"))

		// First entry is exactly one window old now.
		clock.Advance(30 * time.Second)
		require.True(t, l.Allow("a"))
		require.False(t, l.Allow("a"))
	})

	t.Run("window length stays bounded under load", func(t *testing.T) {
		clock := newClock()
		l := httpx.NewSlidingWindowLimiter(httpx.SlidingWindowConfig{
			Limit: 5, Window: time.Minute, Logger: slogx.Discard(), Now: clock.Now,
		})

		var wg sync.WaitGroup
		for range 50 {
			wg.Go(func() {
				for range 20 {
					l.Allow("hot")
				}
			})
		}
		wg.Wait()

		require.Equal(t, 5, l.Count("hot"))
	})
}

func TestSlidingWindowSweep(t *testing.T) {
	clock := newClock()
	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "test", Output: &buf})

	l := httpx.NewSlidingWindowLimiter(httpx.SlidingWindowConfig{
		Limit:         10,
		Window:        time.Minute,
		StaleAfter:    5 * time.Minute,
		SweepInterval: 5 * time.Minute,
		Logger:        logger,
		Now:           clock.Now,
	})

	for i := range 4 {
		require.True(t, l.Allow(fmt.Sprintf("10.0.0.%d", i)))
	}
	require.Equal(t, 4, l.Clients())

	clock.Advance(2 * time.Minute)
	require.True(t, l.Allow("10.0.0.0"))
	require.Zero(t, l.Sweep(), "nobody is stale yet")

	clock.Advance(4 * time.Minute)
	require.Equal(t, 3, l.Sweep())
	require.Equal(t, 1, l.Clients())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	require.Equal(t, "rate limiter cleanup completed", entry["msg"])
	require.EqualValues(t, 3, entry["removed_clients"])
}

func TestSlidingWindowSweepsOpportunistically(t *testing.T) {
	clock := newClock()
	l := httpx.NewSlidingWindowLimiter(httpx.SlidingWindowConfig{
		Limit: 10, Window: time.Minute, StaleAfter: time.Minute, SweepInterval: 5 * time.Minute,
		Logger: slogx.Discard(), Now: clock.Now,
	})

	require.True(t, l.Allow("old"))
	clock.Advance(6 * time.Minute)
	require.True(t, l.Allow("new"))
	require.Equal(t, 1, l.Clients())
}

func TestRateLimitMiddleware(t *testing.T) {
	clock := newClock()
	l := httpx.NewSlidingWindowLimiter(httpx.SlidingWindowConfig{
		Limit: 2, Window: time.Minute, Logger: slogx.Discard(), Now: clock.Now,
	})

	handler := httpx.RateLimitMiddleware(l, httpx.ClientIP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/collections", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, do().Code)
	clock.Advance(10 * time.Second)
	require.Equal(t, http.StatusOK, do().Code)

	rec := do()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.JSONEq(t, `{"error":"Rate limit exceeded"}`, rec.Body.String())
	require.Equal(t, "50", rec.Header().Get("Retry-After"))
	require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
}

func TestTokenBucketLimiter(t *testing.T) {
	t.Run("allows burst then throttles", func(t *testing.T) {
		tb := httpx.NewTokenBucketLimiter(httpx.TokenBucketConfig{
			RequestsPerWindow: 3,
			Window:            time.Minute,
			Burst:             3,
		})

		handler := tb.Middleware(httpx.ClientIP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		for i := range 3 {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.RemoteAddr = "192.168.1.1:12345"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, "request %d should succeed", i+1)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	})

	t.Run("different IPs have separate buckets", func(t *testing.T) {
		tb := httpx.NewTokenBucketLimiter(httpx.TokenBucketConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
		})

		require.True(t, tb.Allow("192.168.1.1"))
		require.False(t, tb.Allow("192.168.1.1"))
		require.True(t, tb.Allow("192.168.1.2"))
	})
}
