// Package vectorstore is the narrow interface the admin services use to
// reach the vector database, with a Qdrant implementation and an in-memory
// fake.
package vectorstore

import (
	"context"
	"io"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
)

// Store exposes exactly the vector database operations the admin API needs.
// Errors are classified with the domain error kinds.
type Store interface {
	ListCollections(ctx context.Context) ([]string, error)
	GetCollection(ctx context.Context, name string) (domain.CollectionInfo, error)
	CreateCollection(ctx context.Context, spec domain.CollectionSpec) error
	DeleteCollection(ctx context.Context, name string) error

	Upsert(ctx context.Context, collection string, points []domain.Point) error
	Search(ctx context.Context, q domain.SearchQuery) ([]domain.ScoredPoint, error)
	DeletePoints(ctx context.Context, collection string, ids []domain.PointID) error

	ListSnapshots(ctx context.Context, collection string) ([]domain.Snapshot, error)
	CreateSnapshot(ctx context.Context, collection string) (domain.Snapshot, error)
	// DownloadSnapshot streams a snapshot. The caller closes the reader.
	DownloadSnapshot(ctx context.Context, collection, name string) (io.ReadCloser, error)
	// UploadSnapshot restores collection from the snapshot read from r.
	UploadSnapshot(ctx context.Context, collection, filename string, r io.Reader) (bool, error)

	Health(ctx context.Context) error
	// Reset drops any cached connection so the next call reconnects with
	// freshly loaded credentials.
	Reset()
	Close() error
}
