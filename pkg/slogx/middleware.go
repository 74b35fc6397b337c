package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request id back to the caller.
const RequestIDHeader = "X-Request-ID"

// HTTPMiddleware is the request-identification stage: every request gets a
// fresh uuid, echoed in X-Request-ID, attached to the context logger and
// logged with its duration once the handler returns.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := uuid.NewString()

			w.Header().Set(RequestIDHeader, reqID)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			ctx := WithContext(r.Context(), base)
			ctx = WithRequestID(ctx, reqID)
			r = r.WithContext(ctx)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				FromContext(ctx).Info("Request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"duration_ms", time.Since(start).Milliseconds(),
					"status_code", status,
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
