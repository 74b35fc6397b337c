package adminsdk

import (
	"context"
	"net/http"
	"time"
)

// Session carries the credentials of one login. There is no refresh flow;
// log in again once ExpiresAt has passed.
type Session struct {
	client      *SDKClient
	accessToken string
	csrfToken   string
	expiresAt   time.Time
}

func (s *Session) AccessToken() string  { return s.accessToken }
func (s *Session) CSRFToken() string    { return s.csrfToken }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// Expired reports whether the access token has passed its expiry.
func (s *Session) Expired() bool {
	return !time.Now().Before(s.expiresAt)
}

func (s *Session) Stats(ctx context.Context) (StatsResponse, error) {
	var out StatsResponse
	err := s.doJSON(ctx, http.MethodGet, "/api/stats", nil, &out, http.StatusOK)
	return out, err
}
