package service

import (
	"context"

	"github.com/freehekimteam/quietvector/internal/admin/vectorstore"
	"golang.org/x/sync/errgroup"
)

// DefaultStatsConcurrency bounds parallel collection lookups.
const DefaultStatsConcurrency = 4

type CollectionStats struct {
	Name         string
	PointsCount  uint64
	VectorsCount uint64
}

type Stats struct {
	Collections int
	TotalPoints uint64
	Items       []CollectionStats
}

type StatsService struct {
	Store       vectorstore.Store
	Concurrency int
}

// Stats summarises every collection. Items keep the order Qdrant lists
// collections in.
func (s *StatsService) Stats(ctx context.Context) (Stats, error) {
	names, err := s.Store.ListCollections(ctx)
	if err != nil {
		return Stats{}, err
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = DefaultStatsConcurrency
	}

	items := make([]CollectionStats, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, name := range names {
		g.Go(func() error {
			info, err := s.Store.GetCollection(gctx, name)
			if err != nil {
				return err
			}
			items[i] = CollectionStats{
				Name:         name,
				PointsCount:  info.PointsCount,
				VectorsCount: info.VectorsCount,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	out := Stats{Collections: len(names), Items: items}
	for _, it := range items {
		out.TotalPoints += it.PointsCount
	}
	return out, nil
}
