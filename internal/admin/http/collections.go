package http

import (
	"net/http"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/internal/admin/service"
	"github.com/freehekimteam/quietvector/pkg/adminsdk"
	"github.com/freehekimteam/quietvector/pkg/httpx"
)

type CollectionsHandler struct {
	CollectionService *service.CollectionService
}

// HandleList lists collection names.
//
//	@Summary	List collections
//	@Tags		Collections
//	@Produce	json
//	@Success	200	{object}	adminsdk.CollectionsResponse
//	@Failure	401	{object}	adminsdk.ErrorResponse
//	@Failure	502	{object}	adminsdk.ErrorResponse	"Qdrant error"
//	@Security	BearerAuth
//	@Router		/api/collections [get].
func (h *CollectionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	names, err := h.CollectionService.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := adminsdk.CollectionsResponse{Collections: make([]adminsdk.CollectionSummary, len(names))}
	for i, n := range names {
		resp.Collections[i] = adminsdk.CollectionSummary{Name: n}
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet describes one collection.
//
//	@Summary	Get collection
//	@Tags		Collections
//	@Produce	json
//	@Param		name	path		string	true	"Collection name"
//	@Success	200		{object}	adminsdk.CollectionInfo
//	@Failure	404		{object}	adminsdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/api/collections/{name} [get].
func (h *CollectionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	info, err := h.CollectionService.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, adminsdk.CollectionInfo{
		Name:         info.Name,
		Status:       info.Status,
		PointsCount:  info.PointsCount,
		VectorsCount: info.VectorsCount,
		VectorSize:   info.VectorSize,
		Distance:     info.Distance,
	})
}

// HandleCreate creates a collection.
//
//	@Summary		Create collection
//	@Description	distance defaults to Cosine. ef_construct (4..4096) and m (4..128) tune the HNSW index.
//	@Tags			Collections
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.CreateCollectionRequest	true	"Collection"
//	@Success		201		{object}	adminsdk.CreateCollectionResponse
//	@Failure		400		{object}	adminsdk.ErrorResponse
//	@Failure		409		{object}	adminsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/collections [post].
func (h *CollectionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req adminsdk.CreateCollectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	err := h.CollectionService.Create(r.Context(), domain.CollectionSpec{
		Name:        req.Name,
		VectorSize:  req.VectorsSize,
		Distance:    domain.Distance(req.Distance),
		EfConstruct: req.EfConstruct,
		M:           req.M,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, adminsdk.CreateCollectionResponse{Name: req.Name, Created: true})
}

// HandleDelete drops a collection.
//
//	@Summary	Delete collection
//	@Tags		Collections
//	@Produce	json
//	@Param		name	path		string	true	"Collection name"
//	@Success	200		{object}	adminsdk.DeleteCollectionResponse
//	@Failure	404		{object}	adminsdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/api/collections/{name} [delete].
func (h *CollectionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.CollectionService.Delete(r.Context(), r.PathValue("name")); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, adminsdk.DeleteCollectionResponse{Deleted: true})
}
