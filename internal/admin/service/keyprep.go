package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/internal/admin/ops"
	"github.com/freehekimteam/quietvector/internal/admin/vectorstore"
)

const (
	MinQdrantKeyLen = 16
	MaxQdrantKeyLen = 256
)

var ErrKeyFileNotConfigured = domain.Validation("QDRANT_API_KEY_FILE not configured on server")

// KeyPrepareResult tells the operator how to roll the new key out.
type KeyPrepareResult struct {
	OpID              string
	ApplyInstructions []string
}

// KeyPrepareService stages a new Qdrant API key on disk. Qdrant itself only
// picks the key up after a restart, which the instructions describe.
type KeyPrepareService struct {
	Auth    *AuthService
	KeyFile string
	Store   vectorstore.Store
	Tracker *ops.Tracker
	Logger  *slog.Logger

	// ComposeFile and ServiceName only shape the returned instructions.
	ComposeFile string
	ServiceName string
}

func (s *KeyPrepareService) Prepare(ctx context.Context, newKey, password, totpCode string) (KeyPrepareResult, error) {
	key := strings.TrimSpace(newKey)
	if len(key) < MinQdrantKeyLen || len(key) > MaxQdrantKeyLen {
		return KeyPrepareResult{}, domain.Validation("new_key must be between %d and %d characters", MinQdrantKeyLen, MaxQdrantKeyLen)
	}
	if len(password) < 3 {
		return KeyPrepareResult{}, domain.Validation("admin_password must be at least 3 characters")
	}
	if err := s.Auth.Reauthenticate(ctx, password, totpCode); err != nil {
		return KeyPrepareResult{}, err
	}
	if s.KeyFile == "" {
		return KeyPrepareResult{}, ErrKeyFileNotConfigured
	}

	if err := writeSecretFile(s.KeyFile, key); err != nil {
		return KeyPrepareResult{}, fmt.Errorf("write qdrant key file: %w", err)
	}

	s.Store.Reset()

	op := s.Tracker.Create(domain.KindQdrantKeyPrepare, map[string]any{"file": s.KeyFile})
	if _, err := s.Tracker.Complete(op.ID, nil); err != nil {
		return KeyPrepareResult{}, err
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "qdrant api key prepared", "op_id", op.ID, "file", s.KeyFile)

	return KeyPrepareResult{OpID: op.ID, ApplyInstructions: s.instructions()}, nil
}

func (s *KeyPrepareService) instructions() []string {
	compose := s.ComposeFile
	if compose == "" {
		compose = "deployment/docker/docker-compose.server.yml"
	}
	svc := s.ServiceName
	if svc == "" {
		svc = "qdrant"
	}
	return []string{
		"# 1) Ensure compose env mounts key file to Qdrant or uses env reference",
		"# 2) Restart Qdrant service to apply new key:",
		fmt.Sprintf("docker compose -f %s up -d %s", compose, svc),
		"# 3) Verify: curl -H 'api-key: <NEW_KEY>' http://localhost:6333/healthz",
	}
}

// writeSecretFile writes data readable by the owner only, replacing any
// previous content atomically.
func writeSecretFile(path, data string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".qdrant-key-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
