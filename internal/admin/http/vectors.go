package http

import (
	"net/http"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/internal/admin/service"
	"github.com/freehekimteam/quietvector/pkg/adminsdk"
	"github.com/freehekimteam/quietvector/pkg/httpx"
)

type VectorsHandler struct {
	VectorService *service.VectorService
}

// HandleInsert upserts points.
//
//	@Summary	Insert vectors
//	@Tags		Vectors
//	@Accept		json
//	@Produce	json
//	@Param		request	body		adminsdk.InsertVectorsRequest	true	"Points"
//	@Success	200		{object}	adminsdk.InsertVectorsResponse
//	@Failure	400		{object}	adminsdk.ErrorResponse
//	@Failure	404		{object}	adminsdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/api/vectors/insert [post].
func (h *VectorsHandler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	var req adminsdk.InsertVectorsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	points := make([]domain.Point, len(req.Points))
	for i, p := range req.Points {
		points[i] = domain.Point{ID: p.ID, Vector: p.Vector, Payload: p.Payload}
	}

	n, err := h.VectorService.Insert(r.Context(), req.Collection, points)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, adminsdk.InsertVectorsResponse{Inserted: n})
}

// HandleSearch runs a nearest-neighbour query.
//
//	@Summary		Search vectors
//	@Description	limit is 1..100 and defaults to 10. with_payload defaults to true.
//	@Tags			Vectors
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.SearchRequest	true	"Query"
//	@Success		200		{object}	adminsdk.SearchResponse
//	@Failure		400		{object}	adminsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/vectors/search [post].
func (h *VectorsHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req adminsdk.SearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	q := domain.SearchQuery{
		Collection:  req.Collection,
		Vector:      req.Vector,
		Limit:       service.DefaultSearchLimit,
		WithPayload: true,
	}
	if req.Limit != nil {
		q.Limit = *req.Limit
	}
	if req.WithPayload != nil {
		q.WithPayload = *req.WithPayload
	}

	hits, err := h.VectorService.Search(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := adminsdk.SearchResponse{Results: make([]adminsdk.SearchResult, len(hits))}
	for i, hit := range hits {
		resp.Results[i] = adminsdk.SearchResult{ID: hit.ID, Score: hit.Score, Payload: hit.Payload}
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleDelete removes points by id.
//
//	@Summary	Delete vectors
//	@Tags		Vectors
//	@Accept		json
//	@Produce	json
//	@Param		request	body		adminsdk.DeleteVectorsRequest	true	"Point ids"
//	@Success	200		{object}	adminsdk.DeleteVectorsResponse
//	@Failure	400		{object}	adminsdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/api/vectors/delete [post].
func (h *VectorsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var req adminsdk.DeleteVectorsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	n, err := h.VectorService.Delete(r.Context(), req.Collection, req.IDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, adminsdk.DeleteVectorsResponse{Deleted: n})
}
