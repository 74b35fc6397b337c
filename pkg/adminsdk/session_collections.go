package adminsdk

import (
	"context"
	"net/http"
	"net/url"
)

func (s *Session) ListCollections(ctx context.Context) ([]string, error) {
	var out CollectionsResponse
	if err := s.doJSON(ctx, http.MethodGet, "/api/collections", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out.Collections))
	for _, c := range out.Collections {
		names = append(names, c.Name)
	}
	return names, nil
}

func (s *Session) GetCollection(ctx context.Context, name string) (CollectionInfo, error) {
	var out CollectionInfo
	err := s.doJSON(ctx, http.MethodGet, "/api/collections/"+url.PathEscape(name), nil, &out, http.StatusOK)
	return out, err
}

func (s *Session) CreateCollection(ctx context.Context, req CreateCollectionRequest) (CreateCollectionResponse, error) {
	var out CreateCollectionResponse
	err := s.doJSON(ctx, http.MethodPost, "/api/collections", req, &out, http.StatusCreated)
	return out, err
}

func (s *Session) DeleteCollection(ctx context.Context, name string) error {
	var out DeleteCollectionResponse
	return s.doJSON(ctx, http.MethodDelete, "/api/collections/"+url.PathEscape(name), nil, &out, http.StatusOK)
}
