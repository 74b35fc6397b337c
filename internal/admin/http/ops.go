package http

import (
	"net/http"
	"strconv"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/internal/admin/service"
	"github.com/freehekimteam/quietvector/pkg/httpx"
)

type OpsHandler struct {
	OpsService *service.OpsService
}

// HandleList lists the operations held in memory, oldest first.
//
//	@Summary		List operations
//	@Description	With include_archived=true the most recent archived operations are merged in.
//	@Tags			Operations
//	@Produce		json
//	@Param			include_archived	query		bool	false	"Include archived operations"
//	@Success		200					{object}	adminsdk.OperationsResponse
//	@Failure		400					{object}	adminsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/ops [get].
func (h *OpsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var includeArchived bool
	if v := r.URL.Query().Get("include_archived"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, domain.Validation("include_archived must be a boolean"))
			return
		}
		includeArchived = b
	}

	list, err := h.OpsService.List(r.Context(), includeArchived)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]map[string]any, len(list))
	for i, op := range list {
		out[i] = op.Dict()
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"operations": out})
}
