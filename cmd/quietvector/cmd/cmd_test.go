package cmd

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freehekimteam/quietvector/internal/admin/app"
	"github.com/freehekimteam/quietvector/internal/admin/vectorstore"
	"github.com/freehekimteam/quietvector/pkg/cryptox"
	"github.com/freehekimteam/quietvector/pkg/slogx"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	_, err := rootCmd.ExecuteC()
	return out.String(), err
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, "correct-horse\n", "hash-password")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	require.True(t, cryptox.CheckPassword("correct-horse", hash))
	require.False(t, cryptox.CheckPassword("wrong", hash))

	_, err = run(t, "ab\n", "hash-password")
	require.ErrorContains(t, err, "at least 3")
}

func TestTOTPSecret(t *testing.T) {
	out, err := run(t, "", "totp-secret", "--account", "ops")
	require.NoError(t, err)
	require.Contains(t, out, "ADMIN_TOTP_SECRET=")
	require.Contains(t, out, "otpauth://totp/QuietVector:ops")
}

func TestRestoreAgainstServer(t *testing.T) {
	hash, err := cryptox.HashPassword("correct-horse")
	require.NoError(t, err)

	cfg := app.LoadConfig()
	cfg.Env = "development"
	cfg.JWTSecret = "test-secret"
	cfg.AdminPasswordHash = hash
	cfg.AuditLogPath = ""
	cfg.RestoreTempDir = t.TempDir()

	mem := vectorstore.NewMemory()
	a, err := app.New(cfg, app.WithVectorStore(mem), app.WithLogger(slogx.Discard()))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	snap := filepath.Join(t.TempDir(), "docs.snapshot")
	require.NoError(t, os.WriteFile(snap, []byte("snapshot-bytes"), 0o600))

	out, err := run(t, "", "restore", snap,
		"--url", "http://"+ln.Addr().String(),
		"--password", "correct-horse",
		"--collection", "docs",
		"--poll", "5ms",
		"--timeout", (10 * time.Second).String(),
	)
	require.NoError(t, err, out)
	require.Contains(t, out, `restore of "docs" completed`)

	got, ok := mem.Uploaded("docs")
	require.True(t, ok)
	require.Equal(t, "snapshot-bytes", string(got))
}
