package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// classify maps a gRPC failure onto the domain error kinds.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.Upstream(err)
	}

	st, ok := status.FromError(err)
	if !ok {
		return domain.Upstream(err)
	}
	switch st.Code() {
	case codes.NotFound:
		return &domain.Error{Kind: domain.ErrNotFound, Msg: st.Message(), Err: err}
	case codes.InvalidArgument:
		return &domain.Error{Kind: domain.ErrValidation, Msg: st.Message(), Err: err}
	case codes.AlreadyExists:
		return &domain.Error{Kind: domain.ErrConflict, Msg: st.Message(), Err: err}
	default:
		return &domain.Error{Kind: domain.ErrUpstream, Msg: st.Message(), Err: err}
	}
}

// classifyHTTP maps a non-2xx REST response onto the domain error kinds.
func classifyHTTP(code int, body string) error {
	msg := strings.TrimSpace(body)
	if msg == "" {
		msg = http.StatusText(code)
	}
	cause := fmt.Errorf("qdrant: http %d: %s", code, msg)
	switch code {
	case http.StatusNotFound:
		return &domain.Error{Kind: domain.ErrNotFound, Msg: msg, Err: cause}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &domain.Error{Kind: domain.ErrValidation, Msg: msg, Err: cause}
	case http.StatusConflict:
		return &domain.Error{Kind: domain.ErrConflict, Msg: msg, Err: cause}
	default:
		return &domain.Error{Kind: domain.ErrUpstream, Msg: msg, Err: cause}
	}
}
