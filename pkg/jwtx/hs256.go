package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HS256 issues and verifies HMAC-SHA256 session tokens with a shared
// server secret. It is stateless: there is no revocation list and no
// refresh, a new login mints a new token.
type HS256 struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// Option customises an HS256.
type Option func(*HS256)

// WithIssuer overrides DefaultIssuer.
func WithIssuer(iss string) Option { return func(h *HS256) { h.issuer = iss } }

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option { return func(h *HS256) { h.now = now } }

// NewHS256 returns a token service signing with secret. ttl <= 0 falls
// back to DefaultSessionTTL.
func NewHS256(secret string, ttl time.Duration, opts ...Option) (*HS256, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	h := &HS256{
		secret: []byte(secret),
		issuer: DefaultIssuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// TTL is the lifetime given to issued tokens.
func (h *HS256) TTL() time.Duration { return h.ttl }

// Issue signs a token for subject valid from now until now+TTL.
func (h *HS256) Issue(subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidClaim)
	}
	claims := NewSessionClaims(subject, h.issuer, h.ttl, h.now())
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, the algorithm, the presence of exp and sub,
// the [nbf, exp) window and the issuer.
func (h *HS256) Verify(token string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrAlgMismatch
		}
		return h.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	if err := claims.ValidateAt(h.now().UTC()); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateIssuer(h.issuer); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrAlgMismatch):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
