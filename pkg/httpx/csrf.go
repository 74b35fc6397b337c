package httpx

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/freehekimteam/quietvector/pkg/slogx"
)

const (
	CSRFCookieName = "csrf_token"
	CSRFHeaderName = "X-CSRF-Token"
)

// CSRFConfig lists the paths that skip the double-submit check.
type CSRFConfig struct {
	ExemptPaths []string
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// CSRFMiddleware enforces the double-submit cookie pattern: state-changing
// requests must echo the csrf_token cookie in the X-CSRF-Token header.
func CSRFMiddleware(cfg CSRFConfig) Middleware {
	exempt := make(map[string]struct{}, len(cfg.ExemptPaths))
	for _, p := range cfg.ExemptPaths {
		exempt[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := exempt[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get(CSRFHeaderName)
			var cookie string
			if c, err := r.Cookie(CSRFCookieName); err == nil {
				cookie = c.Value
			}

			if header == "" || cookie == "" {
				slogx.FromContext(r.Context()).Warn("csrf token missing",
					"path", r.URL.Path,
					"method", r.Method,
					"has_header", header != "",
					"has_cookie", cookie != "",
				)
				WriteError(w, http.StatusForbidden, "CSRF token missing")
				return
			}

			if subtle.ConstantTimeCompare([]byte(header), []byte(cookie)) != 1 {
				slogx.FromContext(r.Context()).Warn("csrf token mismatch",
					"path", r.URL.Path,
					"method", r.Method,
				)
				WriteError(w, http.StatusForbidden, "CSRF token invalid")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SetCSRFCookie delivers token as a host-only, script-hidden, HTTPS-only,
// same-site-strict cookie living as long as the session token.
func SetCSRFCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
