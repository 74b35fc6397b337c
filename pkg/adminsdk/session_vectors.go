package adminsdk

import (
	"context"
	"net/http"
)

func (s *Session) InsertVectors(ctx context.Context, collection string, points []Point) (int, error) {
	var out InsertVectorsResponse
	req := InsertVectorsRequest{Collection: collection, Points: points}
	if err := s.doJSON(ctx, http.MethodPost, "/api/vectors/insert", req, &out, http.StatusOK); err != nil {
		return 0, err
	}
	return out.Inserted, nil
}

func (s *Session) Search(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	var out SearchResponse
	if err := s.doJSON(ctx, http.MethodPost, "/api/vectors/search", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (s *Session) DeleteVectors(ctx context.Context, collection string, ids []PointID) (int, error) {
	var out DeleteVectorsResponse
	req := DeleteVectorsRequest{Collection: collection, IDs: ids}
	if err := s.doJSON(ctx, http.MethodPost, "/api/vectors/delete", req, &out, http.StatusOK); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}
