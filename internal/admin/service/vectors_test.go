package service_test

import (
	"context"
	"testing"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/internal/admin/service"
	"github.com/freehekimteam/quietvector/internal/admin/vectorstore"
	"github.com/stretchr/testify/require"
)

func newVectors(t *testing.T) *service.VectorService {
	t.Helper()
	store := vectorstore.NewMemory()
	require.NoError(t, store.CreateCollection(context.Background(), domain.CollectionSpec{
		Name: "docs", VectorSize: 2, Distance: domain.DistanceDot,
	}))
	return &service.VectorService{Store: store}
}

func TestVectorInsertAndSearch(t *testing.T) {
	ctx := context.Background()
	svc := newVectors(t)

	n, err := svc.Insert(ctx, "docs", []domain.Point{
		{ID: domain.NumID(1), Vector: []float32{1, 0}, Payload: map[string]any{"k": "a"}},
		{ID: domain.NumID(2), Vector: []float32{2, 0}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	res, err := svc.Search(ctx, domain.SearchQuery{Collection: "docs", Vector: []float32{1, 0}, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res, 2)
	require.Equal(t, domain.NumID(2), res[0].ID)
	require.Nil(t, res[1].Payload, "payload omitted unless asked for")

	deleted, err := svc.Delete(ctx, "docs", []domain.PointID{domain.NumID(1)})
	require.NoError(t, err)
	require.Equal(t, 1, deleted)
}

func TestVectorValidation(t *testing.T) {
	ctx := context.Background()
	svc := newVectors(t)

	_, err := svc.Insert(ctx, "docs", nil)
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Insert(ctx, "", []domain.Point{{ID: domain.NumID(1), Vector: []float32{1, 1}}})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Insert(ctx, "docs", []domain.Point{{ID: domain.NumID(1)}})
	require.ErrorIs(t, err, domain.ErrValidation)

	for _, limit := range []uint64{0, 101} {
		_, err = svc.Search(ctx, domain.SearchQuery{Collection: "docs", Vector: []float32{1, 0}, Limit: limit})
		require.ErrorIs(t, err, domain.ErrValidation, "limit %d", limit)
	}

	_, err = svc.Search(ctx, domain.SearchQuery{Collection: "missing", Vector: []float32{1, 0}, Limit: 1})
	require.ErrorIs(t, err, domain.ErrNotFound)

	n, err := svc.Delete(ctx, "docs", nil)
	require.NoError(t, err)
	require.Zero(t, n)
}
