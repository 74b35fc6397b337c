package httpx

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/freehekimteam/quietvector/pkg/slogx"
	"golang.org/x/time/rate"
)

const (
	DefaultRateWindow     = time.Minute
	DefaultStaleAfter     = 300 * time.Second
	DefaultSweepInterval  = 5 * time.Minute
	rateLimitExceededBody = "Rate limit exceeded"
)

// KeyExtractor is a function that extracts a unique key from the request
// for rate limiting purposes.
type KeyExtractor func(*http.Request) string

// ClientIP returns the leftmost X-Forwarded-For entry, or the host part of
// the peer address when the header is absent.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return PeerHost(r)
}

// PeerHost returns the host part of r.RemoteAddr.
func PeerHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SlidingWindowConfig configures a SlidingWindowLimiter.
type SlidingWindowConfig struct {
	// Limit is the number of requests allowed per Window.
	Limit  int
	Window time.Duration
	// StaleAfter is how long a client must be idle before a sweep drops it.
	StaleAfter    time.Duration
	SweepInterval time.Duration
	Logger        *slog.Logger
	Now           func() time.Time
}

type clientWindow struct {
	mu    sync.Mutex
	stamp []time.Time
	last  time.Time
	// removed is set under mu when Sweep deletes the window; holders must
	// fetch a fresh one.
	removed bool
}

// evict drops timestamps that fell out of the window. Caller holds mu.
func (cw *clientWindow) evict(cutoff time.Time) {
	i := 0
	for i < len(cw.stamp) && !cw.stamp[i].After(cutoff) {
		i++
	}
	if i > 0 {
		cw.stamp = append(cw.stamp[:0], cw.stamp[i:]...)
	}
}

// SlidingWindowLimiter admits at most Limit requests per client within a
// trailing window. The timestamp slice for a client never grows past Limit.
type SlidingWindowLimiter struct {
	cfg SlidingWindowConfig

	mu      sync.RWMutex
	clients map[string]*clientWindow

	sweepMu   sync.Mutex
	lastSweep time.Time
}

func NewSlidingWindowLimiter(cfg SlidingWindowConfig) *SlidingWindowLimiter {
	if cfg.Limit <= 0 {
		cfg.Limit = 60
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultRateWindow
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = DefaultStaleAfter
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &SlidingWindowLimiter{
		cfg:       cfg,
		clients:   make(map[string]*clientWindow),
		lastSweep: cfg.Now(),
	}
}

func (l *SlidingWindowLimiter) Limit() int            { return l.cfg.Limit }
func (l *SlidingWindowLimiter) Window() time.Duration { return l.cfg.Window }

func (l *SlidingWindowLimiter) window(key string) *clientWindow {
	l.mu.RLock()
	cw, ok := l.clients[key]
	l.mu.RUnlock()
	if ok {
		return cw
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if cw, ok = l.clients[key]; !ok {
		cw = &clientWindow{stamp: make([]time.Time, 0, l.cfg.Limit)}
		l.clients[key] = cw
	}
	return cw
}

// lockedWindow returns key's live window with mu held.
func (l *SlidingWindowLimiter) lockedWindow(key string) *clientWindow {
	for {
		cw := l.window(key)
		cw.mu.Lock()
		if !cw.removed {
			return cw
		}
		cw.mu.Unlock()
	}
}

// Allow records a request for key and reports whether it is admitted.
// Rejected requests are not recorded.
func (l *SlidingWindowLimiter) Allow(key string) bool {
	ok, _ := l.allow(key)
	return ok
}

// allow returns the admission decision and, on rejection, the time until
// the oldest entry leaves the window.
func (l *SlidingWindowLimiter) allow(key string) (bool, time.Duration) {
	now := l.cfg.Now()
	l.maybeSweep(now)

	cw := l.lockedWindow(key)
	defer cw.mu.Unlock()

	cw.evict(now.Add(-l.cfg.Window))
	cw.last = now

	if len(cw.stamp) >= l.cfg.Limit {
		return false, cw.stamp[0].Add(l.cfg.Window).Sub(now)
	}
	cw.stamp = append(cw.stamp, now)
	return true, 0
}

// Count returns the number of requests currently inside key's window.
func (l *SlidingWindowLimiter) Count(key string) int {
	l.mu.RLock()
	cw, ok := l.clients[key]
	l.mu.RUnlock()
	if !ok {
		return 0
	}
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.evict(l.cfg.Now().Add(-l.cfg.Window))
	return len(cw.stamp)
}

// Clients returns the number of tracked client keys.
func (l *SlidingWindowLimiter) Clients() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.clients)
}

func (l *SlidingWindowLimiter) maybeSweep(now time.Time) {
	l.sweepMu.Lock()
	if now.Sub(l.lastSweep) < l.cfg.SweepInterval {
		l.sweepMu.Unlock()
		return
	}
	l.lastSweep = now
	l.sweepMu.Unlock()

	l.Sweep()
}

// Sweep drops clients with an empty window that have been idle longer than
// StaleAfter. It returns the number of clients removed.
func (l *SlidingWindowLimiter) Sweep() int {
	now := l.cfg.Now()
	cutoff := now.Add(-l.cfg.Window)
	staleBefore := now.Add(-l.cfg.StaleAfter)

	l.mu.RLock()
	keys := make([]string, 0, len(l.clients))
	for k := range l.clients {
		keys = append(keys, k)
	}
	l.mu.RUnlock()

	var stale []string
	for _, k := range keys {
		l.mu.RLock()
		cw, ok := l.clients[k]
		l.mu.RUnlock()
		if !ok {
			continue
		}
		cw.mu.Lock()
		cw.evict(cutoff)
		if len(cw.stamp) == 0 && cw.last.Before(staleBefore) {
			stale = append(stale, k)
		}
		cw.mu.Unlock()
	}

	removed := 0
	if len(stale) > 0 {
		l.mu.Lock()
		for _, k := range stale {
			cw, ok := l.clients[k]
			if !ok {
				continue
			}
			// A request may have landed between the scan and the delete.
			cw.mu.Lock()
			if len(cw.stamp) == 0 && cw.last.Before(staleBefore) {
				cw.removed = true
				delete(l.clients, k)
				removed++
			}
			cw.mu.Unlock()
		}
		l.mu.Unlock()
	}

	if removed > 0 {
		l.cfg.Logger.Info("rate limiter cleanup completed", "removed_clients", removed)
	}
	return removed
}

// RateLimitMiddleware rejects requests over the limiter's window limit with 429.
func RateLimitMiddleware(l *SlidingWindowLimiter, keyExtractor KeyExtractor) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyExtractor(r)
			if key == "" {
				slogx.FromContext(r.Context()).Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			ok, wait := l.allow(key)
			if !ok {
				retryAfter := retryAfterSeconds(wait)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Limit))
				w.Header().Set("X-RateLimit-Window", l.cfg.Window.String())

				slogx.FromContext(r.Context()).Warn("rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"retry_after", retryAfter,
				)
				WriteError(w, http.StatusTooManyRequests, rateLimitExceededBody)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func retryAfterSeconds(d time.Duration) int {
	return max(int(math.Ceil(d.Seconds())), 1)
}

// TokenBucketConfig defines a token-bucket limit.
type TokenBucketConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// TokenBucketLimiter keeps one x/time/rate limiter per key. It backs the
// login throttle, where bursts are tolerated but sustained guessing is not.
type TokenBucketLimiter struct {
	cfg      TokenBucketConfig
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit

	mu          sync.Mutex
	lastCleanup time.Time
}

func NewTokenBucketLimiter(cfg TokenBucketConfig) *TokenBucketLimiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.RequestsPerWindow <= 0 {
		cfg.RequestsPerWindow = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerWindow
	}
	return &TokenBucketLimiter{
		cfg:         cfg,
		rate:        rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		lastCleanup: time.Now(),
	}
}

func (tb *TokenBucketLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := tb.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	actual, _ := tb.limiters.LoadOrStore(key, rate.NewLimiter(tb.rate, tb.cfg.Burst))
	tb.maybeCleanup()
	return actual.(*rate.Limiter)
}

// maybeCleanup drops limiters whose bucket is full again, at most every
// five minutes.
func (tb *TokenBucketLimiter) maybeCleanup() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if time.Since(tb.lastCleanup) < 5*time.Minute {
		return
	}
	tb.lastCleanup = time.Now()

	tb.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(tb.cfg.Burst) {
			tb.limiters.Delete(key)
		}
		return true
	})
}

// Allow consumes a token for key.
func (tb *TokenBucketLimiter) Allow(key string) bool {
	return tb.getLimiter(key).Allow()
}

// Middleware throttles requests by key, answering 429 when the bucket is empty.
func (tb *TokenBucketLimiter) Middleware(keyExtractor KeyExtractor) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyExtractor(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			limiter := tb.getLimiter(key)
			if !limiter.Allow() {
				reservation := limiter.Reserve()
				delay := reservation.Delay()
				reservation.Cancel()

				retryAfter := retryAfterSeconds(delay)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(tb.cfg.RequestsPerWindow))
				w.Header().Set("X-RateLimit-Window", tb.cfg.Window.String())

				slogx.FromContext(r.Context()).Warn("login throttled",
					"key", key,
					"endpoint", r.URL.Path,
					"retry_after", retryAfter,
				)
				WriteError(w, http.StatusTooManyRequests, rateLimitExceededBody)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
