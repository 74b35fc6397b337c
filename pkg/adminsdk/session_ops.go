package adminsdk

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// RestoreStatus fetches one operation by id.
func (s *Session) RestoreStatus(ctx context.Context, opID string) (Operation, error) {
	var out Operation
	err := s.doJSON(ctx, http.MethodGet, "/api/snapshots/restore_status/"+url.PathEscape(opID), nil, &out, http.StatusOK)
	return out, err
}

// WaitForOperation polls the operation every interval until it completes,
// fails, or ctx ends. A failed operation is returned without error; check
// its Stage.
func (s *Session) WaitForOperation(ctx context.Context, opID string, interval time.Duration) (Operation, error) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		op, err := s.RestoreStatus(ctx, opID)
		if err != nil {
			return op, err
		}
		if op.Terminal() {
			return op, nil
		}
		select {
		case <-ctx.Done():
			return op, ctx.Err()
		case <-ticker.C:
		}
	}
}

// ListOperations lists the operations the server holds in memory.
func (s *Session) ListOperations(ctx context.Context) ([]Operation, error) {
	return s.listOperations(ctx, "/api/ops")
}

// ListAllOperations also includes the server's most recent archived
// operations.
func (s *Session) ListAllOperations(ctx context.Context) ([]Operation, error) {
	return s.listOperations(ctx, "/api/ops?include_archived=true")
}

func (s *Session) listOperations(ctx context.Context, path string) ([]Operation, error) {
	var out OperationsResponse
	if err := s.doJSON(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Operations, nil
}

func (s *Session) PrepareQdrantKey(ctx context.Context, req PrepareKeyRequest) (PrepareKeyResponse, error) {
	var out PrepareKeyResponse
	err := s.doJSON(ctx, http.MethodPost, "/api/security/qdrant_key/prepare", req, &out, http.StatusOK)
	return out, err
}

func (s *Session) OpsApply(ctx context.Context, req OpsApplyRequest) (OpsApplyResponse, error) {
	var out OpsApplyResponse
	err := s.doJSON(ctx, http.MethodPost, "/api/security/ops_apply", req, &out, http.StatusOK)
	return out, err
}
