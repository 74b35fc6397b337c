package httpx

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/freehekimteam/quietvector/pkg/jwtx"
	"github.com/freehekimteam/quietvector/pkg/slogx"
)

const APIKeyHeader = "X-Api-Key"

// AuthnConfig configures AuthnMiddleware. When RequireAPIKey is set the
// X-Api-Key header is checked before the bearer token.
type AuthnConfig struct {
	Verifier      jwtx.Verifier
	RequireAPIKey bool
	APIKey        string
}

func AuthnMiddleware(cfg AuthnConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			if cfg.RequireAPIKey {
				got := r.Header.Get(APIKeyHeader)
				if cfg.APIKey == "" || subtle.ConstantTimeCompare([]byte(got), []byte(cfg.APIKey)) != 1 {
					log.Warn("api key rejected", "path", r.URL.Path, "has_key", got != "")
					writeBearerError(w, "Unauthorized")
					return
				}
			}

			authz := r.Header.Get("Authorization")
			scheme, raw, ok := strings.Cut(authz, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				writeBearerError(w, "Missing token")
				return
			}

			claims, err := cfg.Verifier.Verify(strings.TrimSpace(raw))
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithAuth(ctx, claims)))
		})
	}
}

// writeBearerError answers 401 with an RFC 6750 challenge and the JSON
// error body.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, desc)
}
