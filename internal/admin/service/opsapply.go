package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/internal/admin/ops"
)

var ErrOpsApplyDisabled = domain.NotFound("Ops apply disabled")

// maxCommandOutput caps captured stdout and stderr each.
const maxCommandOutput = 64 << 10

type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CommandRunner runs an external command. A non-zero exit is reported in
// the result, not as an error.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Timeout time.Duration
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (CommandResult, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &limitedBuffer{buf: &stdout, max: maxCommandOutput}
	cmd.Stderr = &limitedBuffer{buf: &stderr, max: maxCommandOutput}

	err := cmd.Run()
	res := CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, err
}

type limitedBuffer struct {
	buf *bytes.Buffer
	max int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.max - b.buf.Len(); room > 0 {
		b.buf.Write(p[:min(len(p), room)])
	}
	return len(p), nil
}

type ApplyResult struct {
	Executed bool
	Command  string
	RC       int
	Stdout   string
	Stderr   string
	OpID     string
}

// OpsApplyService restarts the Qdrant compose service so a prepared key
// takes effect. It is off unless explicitly enabled.
type OpsApplyService struct {
	Auth        *AuthService
	Enabled     bool
	ComposeFile string
	ServiceName string
	Runner      CommandRunner
	Tracker     *ops.Tracker
	Logger      *slog.Logger
}

func (s *OpsApplyService) command() []string {
	svc := s.ServiceName
	if svc == "" {
		svc = "qdrant"
	}
	return []string{"docker", "compose", "-f", s.ComposeFile, "up", "-d", svc}
}

func (s *OpsApplyService) Apply(ctx context.Context, password, totpCode string, dryRun bool) (ApplyResult, error) {
	if !s.Enabled {
		return ApplyResult{}, ErrOpsApplyDisabled
	}
	if err := s.Auth.Reauthenticate(ctx, password, totpCode); err != nil {
		return ApplyResult{}, err
	}
	if s.ComposeFile == "" {
		return ApplyResult{}, domain.NotConfigured("OPS_APPLY_COMPOSE_FILE not configured on server")
	}

	argv := s.command()
	command := strings.Join(argv, " ")
	if dryRun {
		return ApplyResult{Executed: false, Command: command}, nil
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	op := s.Tracker.Create(domain.KindOpsApply, map[string]any{"command": command})

	res, err := s.Runner.Run(ctx, argv[0], argv[1:]...)
	if err != nil {
		_, _ = s.Tracker.Fail(op.ID, err.Error())
		logger.ErrorContext(ctx, "ops apply failed to start", "op_id", op.ID, "error", err)
		return ApplyResult{}, fmt.Errorf("run %q: %w", command, err)
	}

	if res.ExitCode != 0 {
		_, _ = s.Tracker.Update(op.ID, ops.Update{Meta: map[string]any{"rc": res.ExitCode}})
		_, _ = s.Tracker.Fail(op.ID, fmt.Sprintf("exit status %d", res.ExitCode))
	} else {
		_, _ = s.Tracker.Complete(op.ID, map[string]any{"rc": 0})
	}
	logger.InfoContext(ctx, "ops apply executed", "op_id", op.ID, "rc", res.ExitCode)

	return ApplyResult{
		Executed: true,
		Command:  command,
		RC:       res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		OpID:     op.ID,
	}, nil
}
