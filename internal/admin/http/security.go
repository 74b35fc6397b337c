package http

import (
	"net/http"

	"github.com/freehekimteam/quietvector/internal/admin/service"
	"github.com/freehekimteam/quietvector/pkg/adminsdk"
	"github.com/freehekimteam/quietvector/pkg/httpx"
	"github.com/freehekimteam/quietvector/pkg/slogx"
)

type SecurityHandler struct {
	KeyPrepareService *service.KeyPrepareService
	OpsApplyService   *service.OpsApplyService
}

// HandlePrepareKey writes a new Qdrant API key to the configured key file.
//
//	@Summary		Prepare Qdrant API key
//	@Description	Requires the admin password (and TOTP code when configured). The key takes effect in Qdrant after a restart.
//	@Tags			Security
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.PrepareKeyRequest	true	"New key"
//	@Success		200		{object}	adminsdk.PrepareKeyResponse
//	@Failure		400		{object}	adminsdk.ErrorResponse
//	@Failure		401		{object}	adminsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/security/qdrant_key/prepare [post].
func (h *SecurityHandler) HandlePrepareKey(w http.ResponseWriter, r *http.Request) {
	var req adminsdk.PrepareKeyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.KeyPrepareService.Prepare(r.Context(), req.NewKey, req.AdminPassword, req.TOTPCode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sub, _ := httpx.SubjectFromContext(r.Context())
	slogx.FromContext(r.Context()).Info("qdrant key prepared", "subject", sub, "op_id", res.OpID)
	httpx.WriteJSON(w, http.StatusOK, adminsdk.PrepareKeyResponse{
		OpID:              res.OpID,
		ApplyInstructions: res.ApplyInstructions,
	})
}

// HandleOpsApply restarts the Qdrant compose service.
//
//	@Summary		Apply ops change
//	@Description	Runs docker compose up -d for the Qdrant service. Disabled unless ENABLE_OPS_APPLY is set.
//	@Tags			Security
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.OpsApplyRequest	true	"Re-authentication"
//	@Success		200		{object}	adminsdk.OpsApplyResponse
//	@Failure		401		{object}	adminsdk.ErrorResponse
//	@Failure		404		{object}	adminsdk.ErrorResponse	"Ops apply disabled"
//	@Security		BearerAuth
//	@Router			/api/security/ops_apply [post].
func (h *SecurityHandler) HandleOpsApply(w http.ResponseWriter, r *http.Request) {
	var req adminsdk.OpsApplyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.OpsApplyService.Apply(r.Context(), req.AdminPassword, req.TOTPCode, req.DryRun)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := adminsdk.OpsApplyResponse{Executed: res.Executed, Command: res.Command}
	if res.Executed {
		rc := res.RC
		resp.RC = &rc
		resp.Stdout = res.Stdout
		resp.Stderr = res.Stderr
		resp.OpID = res.OpID

		sub, _ := httpx.SubjectFromContext(r.Context())
		slogx.FromContext(r.Context()).Info("ops apply executed", "subject", sub, "op_id", res.OpID, "rc", res.RC)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
