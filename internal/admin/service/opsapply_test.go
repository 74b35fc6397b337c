package service_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/internal/admin/service"
	"github.com/freehekimteam/quietvector/pkg/slogx"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	argv []string
	res  service.CommandResult
	err  error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (service.CommandResult, error) {
	f.argv = append([]string{name}, args...)
	return f.res, f.err
}

func newOpsApply(t *testing.T, runner service.CommandRunner) *service.OpsApplyService {
	t.Helper()
	return &service.OpsApplyService{
		Auth:        newAuth(t),
		Enabled:     true,
		ComposeFile: "/srv/compose.yml",
		Runner:      runner,
		Tracker:     newTracker(),
		Logger:      slogx.Discard(),
	}
}

const wantCommand = "docker compose -f /srv/compose.yml up -d qdrant"

func TestOpsApplyDryRun(t *testing.T) {
	runner := &fakeRunner{}
	svc := newOpsApply(t, runner)

	res, err := svc.Apply(context.Background(), testPassword, "", true)
	require.NoError(t, err)
	require.False(t, res.Executed)
	require.Equal(t, wantCommand, res.Command)
	require.Nil(t, runner.argv, "dry run never executes")
	require.Zero(t, svc.Tracker.Len())
}

func TestOpsApplyExecutes(t *testing.T) {
	runner := &fakeRunner{res: service.CommandResult{Stdout: "started"}}
	svc := newOpsApply(t, runner)

	res, err := svc.Apply(context.Background(), testPassword, "", false)
	require.NoError(t, err)
	require.True(t, res.Executed)
	require.Equal(t, 0, res.RC)
	require.Equal(t, "started", res.Stdout)
	require.Equal(t, []string{"docker", "compose", "-f", "/srv/compose.yml", "up", "-d", "qdrant"}, runner.argv)

	op, ok := svc.Tracker.Get(res.OpID)
	require.True(t, ok)
	require.Equal(t, domain.KindOpsApply, op.Kind)
	require.Equal(t, domain.StageCompleted, op.Stage)
}

func TestOpsApplyNonZeroExit(t *testing.T) {
	svc := newOpsApply(t, &fakeRunner{res: service.CommandResult{ExitCode: 3, Stderr: "no such service"}})

	res, err := svc.Apply(context.Background(), testPassword, "", false)
	require.NoError(t, err)
	require.Equal(t, 3, res.RC)

	op, _ := svc.Tracker.Get(res.OpID)
	require.Equal(t, domain.StageFailed, op.Stage)
	require.Equal(t, "exit status 3", op.Error)
	require.EqualValues(t, 3, op.Meta["rc"])
}

func TestOpsApplyErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		svc := newOpsApply(t, &fakeRunner{})
		svc.Enabled = false
		_, err := svc.Apply(ctx, testPassword, "", true)
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.Equal(t, "Ops apply disabled", domain.Message(err))
	})

	t.Run("bad password", func(t *testing.T) {
		_, err := newOpsApply(t, &fakeRunner{}).Apply(ctx, "wrong-password", "", true)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("runner failure", func(t *testing.T) {
		svc := newOpsApply(t, &fakeRunner{err: errors.New("docker: not found")})
		_, err := svc.Apply(ctx, testPassword, "", false)
		require.Error(t, err)

		list := svc.Tracker.List()
		require.Len(t, list, 1)
		require.Equal(t, domain.StageFailed, list[0].Stage)
	})
}

func TestExecRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	res, err := service.ExecRunner{}.Run(context.Background(), "sh", "-c", "echo out; echo err >&2; exit 4")
	require.NoError(t, err)
	require.Equal(t, 4, res.ExitCode)
	require.Equal(t, "out\n", res.Stdout)
	require.Equal(t, "err\n", res.Stderr)

	_, err = service.ExecRunner{}.Run(context.Background(), "quietvector-no-such-binary")
	require.Error(t, err)
}
