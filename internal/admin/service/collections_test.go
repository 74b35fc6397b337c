package service_test

import (
	"context"
	"testing"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/internal/admin/service"
	"github.com/freehekimteam/quietvector/internal/admin/vectorstore"
	"github.com/stretchr/testify/require"
)

func u64(v uint64) *uint64 { return &v }

func TestCollectionCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		spec domain.CollectionSpec
		ok   bool
	}{
		{"minimal defaults to cosine", domain.CollectionSpec{Name: "a", VectorSize: 1}, true},
		{"empty name", domain.CollectionSpec{VectorSize: 3}, false},
		{"zero size", domain.CollectionSpec{Name: "a"}, false},
		{"bad distance", domain.CollectionSpec{Name: "a", VectorSize: 3, Distance: "Manhattan"}, false},
		{"ef at bounds", domain.CollectionSpec{Name: "a", VectorSize: 3, EfConstruct: u64(4)}, true},
		{"ef too small", domain.CollectionSpec{Name: "a", VectorSize: 3, EfConstruct: u64(3)}, false},
		{"ef too large", domain.CollectionSpec{Name: "a", VectorSize: 3, EfConstruct: u64(4097)}, false},
		{"m at upper bound", domain.CollectionSpec{Name: "a", VectorSize: 3, M: u64(128)}, true},
		{"m too large", domain.CollectionSpec{Name: "a", VectorSize: 3, M: u64(129)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &service.CollectionService{Store: vectorstore.NewMemory()}
			err := svc.Create(context.Background(), tt.spec)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCollectionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := &service.CollectionService{Store: vectorstore.NewMemory()}

	require.NoError(t, svc.Create(ctx, domain.CollectionSpec{Name: "docs", VectorSize: 3}))

	info, err := svc.Get(ctx, "docs")
	require.NoError(t, err)
	require.Equal(t, "Cosine", info.Distance)

	names, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"docs"}, names)

	require.ErrorIs(t, svc.Create(ctx, domain.CollectionSpec{Name: "docs", VectorSize: 3}), domain.ErrConflict)

	require.NoError(t, svc.Delete(ctx, "docs"))
	_, err = svc.Get(ctx, "docs")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "docs"), domain.ErrNotFound)
}
