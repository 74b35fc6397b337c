package domain_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/stretchr/testify/require"
)

func TestPointIDJSON(t *testing.T) {
	var ids []domain.PointID
	require.NoError(t, json.Unmarshal([]byte(`[7, "5c56c793-69f3-4fbf-87e6-c4bf54c28c26"]`), &ids))
	require.Equal(t, domain.NumID(7), ids[0])
	require.Equal(t, domain.StrID("5c56c793-69f3-4fbf-87e6-c4bf54c28c26"), ids[1])

	out, err := json.Marshal(ids)
	require.NoError(t, err)
	require.JSONEq(t, `[7, "5c56c793-69f3-4fbf-87e6-c4bf54c28c26"]`, string(out))

	var bad domain.PointID
	require.Error(t, json.Unmarshal([]byte(`-1`), &bad))
	require.Error(t, json.Unmarshal([]byte(`1.5`), &bad))
}

func TestOperationDict(t *testing.T) {
	created := time.Unix(1700000000, 500_000_000)
	op := domain.Operation{
		ID:        "01J0000000000000000000000",
		Kind:      domain.KindSnapshotRestore,
		Stage:     domain.StageSaving,
		CreatedAt: created,
		UpdatedAt: created.Add(time.Second),
		Meta:      map[string]any{"collection": "docs"},
	}

	d := op.Dict()
	require.Equal(t, "saving", d["stage"])
	require.Nil(t, d["error"])
	require.InDelta(t, 1700000000.5, d["created_at"], 1e-6)
	require.InDelta(t, 1700000001.5, d["updated_at"], 1e-6)

	// The dict must not alias the operation's metadata.
	d["meta"].(map[string]any)["collection"] = "changed"
	require.Equal(t, "docs", op.Meta["collection"])

	op.Error = "boom"
	require.Equal(t, "boom", op.Dict()["error"])
}

func TestStage(t *testing.T) {
	require.True(t, domain.StageCompleted.Terminal())
	require.True(t, domain.StageFailed.Terminal())
	require.False(t, domain.StageUploading.Terminal())
	require.True(t, domain.StageVerifying.Valid())
	require.False(t, domain.Stage("done").Valid())
}

func TestErrors(t *testing.T) {
	err := domain.NotFound("Collection not found: %s", "docs")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NotErrorIs(t, err, domain.ErrValidation)
	require.Equal(t, "Collection not found: docs", domain.Message(err))

	cause := errors.New("connection refused")
	up := domain.Upstream(cause)
	require.ErrorIs(t, up, domain.ErrUpstream)
	require.ErrorIs(t, up, cause)
	require.Equal(t, "connection refused", domain.Message(up))

	require.Empty(t, domain.Message(cause))
}
