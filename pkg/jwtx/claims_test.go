package jwtx_test

import (
	"testing"
	"time"

	"github.com/freehekimteam/quietvector/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: jwtx.DefaultIssuer,
		},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(jwtx.DefaultIssuer))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		err := c.ValidateIssuer("other-service")
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})
}

func TestNewSessionClaims(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 500, time.UTC)
	c := jwtx.NewSessionClaims("admin", jwtx.DefaultIssuer, time.Hour, now)

	require.Equal(t, "admin", c.Subject)
	require.Equal(t, now.Truncate(time.Second), c.IssuedAt.Time)
	require.Equal(t, c.IssuedAt.Time, c.NotBefore.Time)
	require.Equal(t, now.Truncate(time.Second).Add(time.Hour), c.ExpiresAt.Time)
}

func TestValidateAt(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := jwtx.NewSessionClaims("admin", jwtx.DefaultIssuer, time.Hour, now)

	require.NoError(t, c.ValidateAt(now))
	require.ErrorIs(t, c.ValidateAt(now.Add(time.Hour)), jwtx.ErrExpired)
	require.ErrorIs(t, c.ValidateAt(now.Add(-time.Second)), jwtx.ErrNotYetValid)

	noExp := c
	noExp.ExpiresAt = nil
	require.ErrorIs(t, noExp.ValidateAt(now), jwtx.ErrInvalidClaim)

	noSub := c
	noSub.Subject = ""
	require.ErrorIs(t, noSub.ValidateAt(now), jwtx.ErrInvalidClaim)
}
