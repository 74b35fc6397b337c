package service

import (
	"context"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/internal/admin/vectorstore"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100
)

type VectorService struct {
	Store vectorstore.Store
}

// Insert upserts points and returns how many were written.
func (s *VectorService) Insert(ctx context.Context, collection string, points []domain.Point) (int, error) {
	if collection == "" {
		return 0, domain.Validation("collection must be at least 1 character")
	}
	if len(points) == 0 {
		return 0, domain.Validation("points must contain at least 1 item")
	}
	for i, p := range points {
		if len(p.Vector) == 0 {
			return 0, domain.Validation("points[%d].vector must not be empty", i)
		}
	}
	if err := s.Store.Upsert(ctx, collection, points); err != nil {
		return 0, err
	}
	return len(points), nil
}

// Search runs a nearest-neighbour query. Limit must be between 1 and
// MaxSearchLimit; callers apply DefaultSearchLimit when the client omits it.
func (s *VectorService) Search(ctx context.Context, q domain.SearchQuery) ([]domain.ScoredPoint, error) {
	if q.Collection == "" {
		return nil, domain.Validation("collection is required")
	}
	if len(q.Vector) == 0 {
		return nil, domain.Validation("vector must not be empty")
	}
	if q.Limit < 1 || q.Limit > MaxSearchLimit {
		return nil, domain.Validation("limit must be between 1 and %d", MaxSearchLimit)
	}
	return s.Store.Search(ctx, q)
}

func (s *VectorService) Delete(ctx context.Context, collection string, ids []domain.PointID) (int, error) {
	if collection == "" {
		return 0, domain.Validation("collection is required")
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.Store.DeletePoints(ctx, collection, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}
