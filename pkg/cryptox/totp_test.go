package cryptox

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestGenerateTOTP(t *testing.T) {
	key, err := GenerateTOTP("QuietVector", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, key.Secret)
	require.Contains(t, key.URL, "otpauth://totp/")
	require.Contains(t, key.URL, "issuer=QuietVector")
}

func TestCheckTOTP(t *testing.T) {
	key, err := GenerateTOTP("QuietVector", "admin")
	require.NoError(t, err)

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	code, err := totp.GenerateCode(key.Secret, now)
	require.NoError(t, err)

	t.Run("accepts current code", func(t *testing.T) {
		require.True(t, CheckTOTP(code, key.Secret, now))
	})

	t.Run("accepts one step of skew", func(t *testing.T) {
		require.True(t, CheckTOTP(code, key.Secret, now.Add(30*time.Second)))
	})

	t.Run("rejects stale code", func(t *testing.T) {
		require.False(t, CheckTOTP(code, key.Secret, now.Add(5*time.Minute)))
	})

	t.Run("rejects empty input", func(t *testing.T) {
		require.False(t, CheckTOTP("", key.Secret, now))
		require.False(t, CheckTOTP(code, "", now))
	})
}
