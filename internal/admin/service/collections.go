package service

import (
	"context"
	"strings"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/internal/admin/vectorstore"
)

// HNSW parameter bounds accepted on collection create.
const (
	MinEfConstruct = 4
	MaxEfConstruct = 4096
	MinHnswM       = 4
	MaxHnswM       = 128
)

type CollectionService struct {
	Store vectorstore.Store
}

func (s *CollectionService) List(ctx context.Context) ([]string, error) {
	return s.Store.ListCollections(ctx)
}

func (s *CollectionService) Get(ctx context.Context, name string) (domain.CollectionInfo, error) {
	if strings.TrimSpace(name) == "" {
		return domain.CollectionInfo{}, domain.Validation("collection name is required")
	}
	return s.Store.GetCollection(ctx, name)
}

func (s *CollectionService) Create(ctx context.Context, spec domain.CollectionSpec) error {
	if spec.Distance == "" {
		spec.Distance = domain.DistanceCosine
	}
	if err := validateCollectionSpec(spec); err != nil {
		return err
	}
	return s.Store.CreateCollection(ctx, spec)
}

func (s *CollectionService) Delete(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.Validation("collection name is required")
	}
	return s.Store.DeleteCollection(ctx, name)
}

func validateCollectionSpec(spec domain.CollectionSpec) error {
	switch {
	case spec.Name == "":
		return domain.Validation("name must be at least 1 character")
	case spec.VectorSize < 1:
		return domain.Validation("vectors_size must be at least 1")
	case !spec.Distance.Valid():
		return domain.Validation("distance must be one of Cosine, Dot, Euclid")
	}
	if ef := spec.EfConstruct; ef != nil && (*ef < MinEfConstruct || *ef > MaxEfConstruct) {
		return domain.Validation("ef_construct must be between %d and %d", MinEfConstruct, MaxEfConstruct)
	}
	if m := spec.M; m != nil && (*m < MinHnswM || *m > MaxHnswM) {
		return domain.Validation("m must be between %d and %d", MinHnswM, MaxHnswM)
	}
	return nil
}
