package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/internal/admin/ops"
	"github.com/freehekimteam/quietvector/pkg/idx"
)

// ArchivedListLimit caps how many archived operations List returns.
const ArchivedListLimit = 500

// OperationArchive finds operations that have left the in-memory tracker.
type OperationArchive interface {
	LookupOperation(ctx context.Context, id string) (domain.Operation, bool, error)
	ListOperations(ctx context.Context, limit int) ([]domain.Operation, error)
}

// OpsService answers status polls, falling back to the archive for
// operations the tracker has already reaped.
type OpsService struct {
	Tracker *ops.Tracker
	Archive OperationArchive // optional
	Logger  *slog.Logger
}

func (s *OpsService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *OpsService) Status(ctx context.Context, id string) (map[string]any, error) {
	// Every operation id is a ULID; anything else cannot exist.
	if _, err := idx.Parse(id); err != nil {
		return nil, ops.ErrNotFound
	}

	d, err := s.Tracker.ToDict(id)
	if err == nil || !errors.Is(err, domain.ErrNotFound) || s.Archive == nil {
		return d, err
	}

	op, ok, aerr := s.Archive.LookupOperation(ctx, id)
	if aerr != nil {
		s.logger().WarnContext(ctx, "operation archive lookup failed", "op_id", id, "error", aerr)
		return nil, err
	}
	if !ok {
		return nil, err
	}
	return op.Dict(), nil
}

// List returns the tracked operations, oldest first. With includeArchived
// the newest ArchivedListLimit archived operations are merged in.
func (s *OpsService) List(ctx context.Context, includeArchived bool) ([]domain.Operation, error) {
	live := s.Tracker.List()
	if !includeArchived || s.Archive == nil {
		return live, nil
	}

	archived, err := s.Archive.ListOperations(ctx, ArchivedListLimit)
	if err != nil {
		return nil, fmt.Errorf("list archived operations: %w", err)
	}

	seen := make(map[string]struct{}, len(live))
	for _, op := range live {
		seen[op.ID] = struct{}{}
	}
	out := live
	for _, op := range archived {
		if _, ok := seen[op.ID]; !ok {
			out = append(out, op)
		}
	}
	slices.SortFunc(out, func(a, b domain.Operation) int {
		return idx.Compare(idx.ID(a.ID), idx.ID(b.ID))
	})
	return out, nil
}
