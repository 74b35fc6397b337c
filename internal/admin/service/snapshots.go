package service

import (
	"context"
	"io"
	"strings"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/internal/admin/vectorstore"
)

type SnapshotService struct {
	Store vectorstore.Store
}

func (s *SnapshotService) List(ctx context.Context, collection string) ([]domain.Snapshot, error) {
	return s.Store.ListSnapshots(ctx, collection)
}

func (s *SnapshotService) Create(ctx context.Context, collection string) (domain.Snapshot, error) {
	return s.Store.CreateSnapshot(ctx, collection)
}

// Download opens a stream of the named snapshot. Names containing path
// separators are rejected before anything reaches Qdrant.
func (s *SnapshotService) Download(ctx context.Context, collection, name string) (io.ReadCloser, error) {
	if err := validateSnapshotName(name); err != nil {
		return nil, err
	}
	return s.Store.DownloadSnapshot(ctx, collection, name)
}

func validateSnapshotName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return domain.Validation("invalid snapshot name")
	}
	return nil
}
