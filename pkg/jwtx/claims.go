package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultIssuer is the iss claim stamped on every session token.
const DefaultIssuer = "quietvector"

// DefaultSessionTTL matches the default TOKEN_EXPIRE_MINUTES.
const DefaultSessionTTL = 60 * time.Minute

// Claims are the session-token claims. Only the registered set is used;
// the admin identity travels in sub.
type Claims struct {
	jwt.RegisteredClaims
}

// NewSessionClaims builds claims with nbf = iat = now and exp = now + ttl.
func NewSessionClaims(subject, issuer string, ttl time.Duration, now time.Time) Claims {
	now = now.UTC().Truncate(time.Second)
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// ValidateAt checks exp and nbf against now. exp and sub are required.
func (c *Claims) ValidateAt(now time.Time) error {
	if c.ExpiresAt == nil || c.Subject == "" {
		return ErrInvalidClaim
	}
	if !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}

// ValidateIssuer checks iss when expected is non-empty.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}
