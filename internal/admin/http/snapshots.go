package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/internal/admin/service"
	"github.com/freehekimteam/quietvector/pkg/adminsdk"
	"github.com/freehekimteam/quietvector/pkg/httpx"
	"github.com/freehekimteam/quietvector/pkg/slogx"
)

const restoreFormField = "file"

type SnapshotsHandler struct {
	SnapshotService *service.SnapshotService
	RestoreRunner   *service.RestoreRunner
	OpsService      *service.OpsService
}

func snapshotToSDK(s domain.Snapshot) adminsdk.Snapshot {
	out := adminsdk.Snapshot{Name: s.Name, Size: s.Size}
	if !s.CreationTime.IsZero() {
		out.CreationTime = s.CreationTime.UTC().Format(time.RFC3339)
	}
	return out
}

// HandleList lists the snapshots of a collection.
//
//	@Summary	List snapshots
//	@Tags		Snapshots
//	@Produce	json
//	@Param		collection	path		string	true	"Collection name"
//	@Success	200			{object}	adminsdk.SnapshotsResponse
//	@Failure	404			{object}	adminsdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/api/snapshots/{collection} [get].
func (h *SnapshotsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.SnapshotService.List(r.Context(), r.PathValue("collection"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := adminsdk.SnapshotsResponse{Snapshots: make([]adminsdk.Snapshot, len(snaps))}
	for i, s := range snaps {
		resp.Snapshots[i] = snapshotToSDK(s)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCreate takes a new snapshot.
//
//	@Summary	Create snapshot
//	@Tags		Snapshots
//	@Produce	json
//	@Param		collection	path		string	true	"Collection name"
//	@Success	200			{object}	adminsdk.Snapshot
//	@Failure	404			{object}	adminsdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/api/snapshots/{collection} [post].
func (h *SnapshotsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	snap, err := h.SnapshotService.Create(r.Context(), r.PathValue("collection"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, snapshotToSDK(snap))
}

// HandleDownload streams a snapshot file.
//
//	@Summary	Download snapshot
//	@Tags		Snapshots
//	@Produce	octet-stream
//	@Param		collection	path		string	true	"Collection name"
//	@Param		name		path		string	true	"Snapshot name"
//	@Success	200			{file}		binary
//	@Failure	400			{object}	adminsdk.ErrorResponse
//	@Failure	404			{object}	adminsdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/api/snapshots/{collection}/{name} [get].
func (h *SnapshotsHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	rc, err := h.SnapshotService.Download(r.Context(), r.PathValue("collection"), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer rc.Close()

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)

	if n, err := io.Copy(w, rc); err != nil {
		// Headers are gone; all that is left is to note the truncation.
		slogx.FromContext(r.Context()).Warn("snapshot download interrupted",
			"snapshot", name, "bytes", n, "error", err)
	}
}

// HandleRestoreAsync accepts a snapshot upload and restores it in the
// background.
//
//	@Summary		Restore snapshot (async)
//	@Description	Streams the multipart "file" field to a temporary file, then uploads it to Qdrant in the background.
//	@Description	Poll /api/snapshots/restore_status/{op_id} for progress.
//	@Tags			Snapshots
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			collection	path		string	true	"Collection name"
//	@Param			file		formData	file	true	"Snapshot file"
//	@Success		202			{object}	adminsdk.RestoreResponse
//	@Failure		400			{object}	adminsdk.ErrorResponse
//	@Failure		413			{object}	adminsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/snapshots/{collection}/restore_async [post].
func (h *SnapshotsHandler) HandleRestoreAsync(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, r, domain.Validation("multipart/form-data body with a %q field is required", restoreFormField))
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			writeError(w, r, domain.Validation("missing %q field", restoreFormField))
			return
		}
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeError(w, r, err)
				return
			}
			writeError(w, r, domain.Validation("malformed multipart body"))
			return
		}
		if part.FormName() != restoreFormField {
			_ = part.Close()
			continue
		}

		op, err := h.RestoreRunner.Start(r.Context(), r.PathValue("collection"), part.FileName(), part)
		_ = part.Close()
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusAccepted, adminsdk.RestoreResponse{OpID: op.ID, Stage: string(op.Stage)})
		return
	}
}

// HandleRestoreStatus reports an operation's progress.
//
//	@Summary	Restore status
//	@Tags		Snapshots
//	@Produce	json
//	@Param		op_id	path		string	true	"Operation id"
//	@Success	200		{object}	adminsdk.Operation
//	@Failure	404		{object}	adminsdk.ErrorResponse	"Operation not found"
//	@Security	BearerAuth
//	@Router		/api/snapshots/restore_status/{op_id} [get].
func (h *SnapshotsHandler) HandleRestoreStatus(w http.ResponseWriter, r *http.Request) {
	d, err := h.OpsService.Status(r.Context(), r.PathValue("op_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}
