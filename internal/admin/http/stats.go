package http

import (
	"net/http"

	"github.com/freehekimteam/quietvector/internal/admin/service"
	"github.com/freehekimteam/quietvector/pkg/adminsdk"
	"github.com/freehekimteam/quietvector/pkg/httpx"
)

type StatsHandler struct {
	StatsService *service.StatsService
}

// ServeHTTP aggregates point counts over every collection.
//
//	@Summary	Collection statistics
//	@Tags		Collections
//	@Produce	json
//	@Success	200	{object}	adminsdk.StatsResponse
//	@Failure	502	{object}	adminsdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/api/stats [get].
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	st, err := h.StatsService.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := adminsdk.StatsResponse{
		Collections: st.Collections,
		TotalPoints: st.TotalPoints,
		Items:       make([]adminsdk.CollectionStats, len(st.Items)),
	}
	for i, it := range st.Items {
		resp.Items[i] = adminsdk.CollectionStats{Name: it.Name, PointsCount: it.PointsCount, VectorsCount: it.VectorsCount}
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
