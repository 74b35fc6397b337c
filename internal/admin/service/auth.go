package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/pkg/cryptox"
	"github.com/freehekimteam/quietvector/pkg/jwtx"
)

var (
	ErrInvalidCredentials    = domain.Unauthorized("Invalid credentials")
	ErrPasswordNotConfigured = domain.NotConfigured("Admin password not configured")
)

// CSRFTokenBytes is the amount of randomness in a CSRF token.
const CSRFTokenBytes = cryptox.TokenSize256

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	AccessToken string
	CSRFToken   string
	ExpiresIn   time.Duration
}

// AuthService authenticates the single admin account.
type AuthService struct {
	Username     string
	PasswordHash string // PHC argon2id
	// TOTPSecret enables a second factor when set.
	TOTPSecret string
	Tokens     *jwtx.HS256
	Logger     *slog.Logger
	Now        func() time.Time
}

func (s *AuthService) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Login checks the credentials and issues a session token plus a fresh
// CSRF token.
func (s *AuthService) Login(ctx context.Context, username, password, totpCode string) (LoginResult, error) {
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.Username)) != 1 {
		s.log().WarnContext(ctx, "login rejected", "reason", "unknown_user")
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := s.Reauthenticate(ctx, password, totpCode); err != nil {
		return LoginResult{}, err
	}

	token, err := s.Tokens.Issue(username)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue session token: %w", err)
	}
	csrf, err := cryptox.GenerateToken(CSRFTokenBytes)
	if err != nil {
		return LoginResult{}, err
	}

	s.log().InfoContext(ctx, "admin logged in", "username", username)
	return LoginResult{
		AccessToken: token,
		CSRFToken:   csrf,
		ExpiresIn:   s.Tokens.TTL(),
	}, nil
}

// Reauthenticate confirms the admin password (and TOTP code when enabled)
// for sensitive operations performed under an existing session.
func (s *AuthService) Reauthenticate(ctx context.Context, password, totpCode string) error {
	if s.PasswordHash == "" {
		return ErrPasswordNotConfigured
	}
	if !cryptox.CheckPassword(password, s.PasswordHash) {
		s.log().WarnContext(ctx, "login rejected", "reason", "bad_password")
		return ErrInvalidCredentials
	}
	if s.TOTPSecret != "" && !cryptox.CheckTOTP(totpCode, s.TOTPSecret, s.now()) {
		s.log().WarnContext(ctx, "login rejected", "reason", "bad_totp")
		return ErrInvalidCredentials
	}
	return nil
}
