package httpx

import (
	"net/http"

	"github.com/freehekimteam/quietvector/pkg/slogx"
)

const DefaultMaxBodyBytes int64 = 1 << 20

// BodyLimitConfig sets the request body ceiling. Ceiling, when set, may
// raise or lower the limit for individual requests (e.g. upload routes).
type BodyLimitConfig struct {
	MaxBytes int64
	Ceiling  func(r *http.Request) int64
}

func (c BodyLimitConfig) limitFor(r *http.Request) int64 {
	if c.Ceiling != nil {
		if n := c.Ceiling(r); n > 0 {
			return n
		}
	}
	if c.MaxBytes > 0 {
		return c.MaxBytes
	}
	return DefaultMaxBodyBytes
}

// BodyLimitMiddleware rejects requests whose declared Content-Length
// exceeds the limit with 413. Bodies without a declared length are capped
// with http.MaxBytesReader so readers fail once they cross it.
func BodyLimitMiddleware(cfg BodyLimitConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit := cfg.limitFor(r)
			if r.ContentLength > limit {
				slogx.FromContext(r.Context()).Warn("request body too large",
					"path", r.URL.Path,
					"content_length", r.ContentLength,
					"max_bytes", limit,
				)
				WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
