package cryptox

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
)

func argon2IDForTest(password, salt string, t, m uint32, p uint8, n uint32) string {
	return base64.RawStdEncoding.EncodeToString(argon2.IDKey([]byte(password), []byte(salt), t, m, p, n))
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "parola-şifre-密码"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"), "hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6)
			require.Equal(t, "m=65536,t=3,p=4", parts[3])
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")

			require.NoError(t, VerifyPassword(tt.password, hash))
			require.True(t, CheckPassword(tt.password, hash))
		})
	}
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestVerifyPasswordWrongPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	require.ErrorIs(t, VerifyPassword("battery staple", hash), ErrHashMismatch)
	require.False(t, CheckPassword("battery staple", hash))
}

func TestVerifyPasswordForeignParameters(t *testing.T) {
	// Produced with m=19456,t=2,p=1 as common argon2 CLIs do.
	salt := "c29tZXNhbHRzb21lc2FsdA"
	computed := argon2IDForTest("hunter2", "somesaltsomesalt", 2, 19456, 1, 32)
	hash := "$argon2id$v=19$m=19456,t=2,p=1$" + salt + "$" + computed

	require.NoError(t, VerifyPassword("hunter2", hash))
	require.False(t, CheckPassword("hunter3", hash))
}

func TestCheckPasswordMalformedHashes(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"plain text":      "not-a-hash",
		"bcrypt":          "$2b$12$abcdefghijklmnopqrstuuKXmQqf1yP3cQ8b2YvS0H5q2b5d1O",
		"wrong version":   "$argon2id$v=16$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"bad params":      "$argon2id$v=19$m=x,t=3,p=4$c2FsdA$aGFzaA",
		"zero iterations": "$argon2id$v=19$m=65536,t=0,p=4$c2FsdA$aGFzaA",
		"bad salt":        "$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA",
		"empty hash":      "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$",
		"argon2d":         "$argon2d$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
	}

	for name, hash := range cases {
		t.Run(name, func(t *testing.T) {
			require.False(t, CheckPassword("anything", hash))
			require.Error(t, VerifyPassword("anything", hash))
		})
	}
}
