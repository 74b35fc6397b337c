package adminsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the QuietVector admin API. It serves the
// unauthenticated endpoints and creates Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// APIKey is sent as X-Api-Key when the server runs with REQUIRE_API_KEY.
	APIKey string
}

// NewSDKClient creates a client with no overall request timeout, since
// snapshot transfers can run for a long time. Use contexts to bound calls.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{},
	}
}

// Login exchanges admin credentials for a Session.
func (c *SDKClient) Login(ctx context.Context, username, password, totpCode string) (*Session, error) {
	b, err := json.Marshal(LoginRequest{Username: username, Password: password, TOTPCode: totpCode})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", bytes.NewReader(b),
		map[string]string{"Content-Type": "application/json"})
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := decodeJSON(resp, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return c.NewSessionFromTokens(tok.AccessToken, tok.CSRFToken, tok.ExpiresIn), nil
}

// NewSessionFromTokens creates a Session from tokens obtained earlier.
func (c *SDKClient) NewSessionFromTokens(accessToken, csrfToken string, expiresIn int) *Session {
	return &Session{
		client:      c,
		accessToken: accessToken,
		csrfToken:   csrfToken,
		expiresAt:   time.Now().Add(time.Duration(expiresIn) * time.Second),
	}
}

// Health calls /health.
func (c *SDKClient) Health(ctx context.Context) (HealthResponse, error) {
	return c.health(ctx, "/health")
}

// Ready calls /health/ready. A degraded server answers 503, returned as
// *APIError.
func (c *SDKClient) Ready(ctx context.Context) (HealthResponse, error) {
	return c.health(ctx, "/health/ready")
}

func (c *SDKClient) health(ctx context.Context, path string) (HealthResponse, error) {
	var out HealthResponse
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return out, err
	}
	err = decodeJSON(resp, &out, http.StatusOK)
	return out, err
}
