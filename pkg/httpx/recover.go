package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/freehekimteam/quietvector/pkg/slogx"
)

// RecoverMiddleware turns a handler panic into a generic 500. The panic
// value and stack are logged, never returned to the caller.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slogx.FromContext(r.Context()).Error("unhandled panic",
				"method", r.Method,
				"path", r.URL.Path,
				"client", PeerHost(r),
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			WriteError(w, http.StatusInternalServerError, "Internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}
