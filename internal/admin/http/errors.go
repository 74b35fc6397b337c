package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/pkg/httpx"
	"github.com/freehekimteam/quietvector/pkg/slogx"
)

const internalErrorMessage = "Internal server error"

// mapError turns a service error into a status code and a message that is
// safe to return. Unclassified errors never leak their text.
func mapError(err error) (int, string) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge, "Request body too large"
	}

	var status int
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUpstream):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrNotConfigured):
		status = http.StatusInternalServerError
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}

	msg := domain.Message(err)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return status, msg
}

// writeError logs and writes err. Server-side failures are logged at error
// with the full cause, client errors at info.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := mapError(err)
	log := slogx.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		log.Info("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	httpx.WriteError(w, status, msg)
}

// decodeJSON reads a JSON request body into v. Oversized bodies keep their
// *http.MaxBytesError so they map to 413.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return &domain.Error{Kind: domain.ErrValidation, Msg: "Invalid request body", Err: err}
	}
	return nil
}
