package service_test

import (
	"sync"
	"testing"
	"time"

	"github.com/freehekimteam/quietvector/internal/admin/ops"
	"github.com/freehekimteam/quietvector/internal/admin/service"
	"github.com/freehekimteam/quietvector/pkg/cryptox"
	"github.com/freehekimteam/quietvector/pkg/jwtx"
	"github.com/freehekimteam/quietvector/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const (
	testUser     = "admin"
	testPassword = "correct-horse"
)

// Hashing is deliberately slow, so every test shares one hash.
var testHash = sync.OnceValue(func() string {
	h, err := cryptox.HashPassword(testPassword)
	if err != nil {
		panic(err)
	}
	return h
})

func newAuth(t *testing.T) *service.AuthService {
	t.Helper()
	tokens, err := jwtx.NewHS256("test-secret", time.Hour)
	require.NoError(t, err)
	return &service.AuthService{
		Username:     testUser,
		PasswordHash: testHash(),
		Tokens:       tokens,
		Logger:       slogx.Discard(),
	}
}

func newTracker() *ops.Tracker {
	return ops.NewTracker(ops.Config{Logger: slogx.Discard()})
}
