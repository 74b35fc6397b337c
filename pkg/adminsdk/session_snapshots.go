package adminsdk

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

func snapshotsPath(collection string) string {
	return "/api/snapshots/" + url.PathEscape(collection)
}

func (s *Session) ListSnapshots(ctx context.Context, collection string) ([]Snapshot, error) {
	var out SnapshotsResponse
	if err := s.doJSON(ctx, http.MethodGet, snapshotsPath(collection), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Snapshots, nil
}

func (s *Session) CreateSnapshot(ctx context.Context, collection string) (Snapshot, error) {
	var out Snapshot
	err := s.doJSON(ctx, http.MethodPost, snapshotsPath(collection), nil, &out, http.StatusOK)
	return out, err
}

// DownloadSnapshot copies the named snapshot into w and returns the number
// of bytes written.
func (s *Session) DownloadSnapshot(ctx context.Context, collection, name string, w io.Writer) (int64, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, snapshotsPath(collection)+"/"+url.PathEscape(name), nil, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return 0, parseErrorResponse(resp, body)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return n, nil
}

// RestoreSnapshot streams r as the multipart "file" field and returns the
// id of the server-side restore operation. The body is never buffered in
// memory.
func (s *Session) RestoreSnapshot(ctx context.Context, collection, filename string, r io.Reader) (RestoreResponse, error) {
	var out RestoreResponse

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	resp, err := s.doAuthRequest(ctx, http.MethodPost, snapshotsPath(collection)+"/restore_async", pr,
		map[string]string{"Content-Type": mw.FormDataContentType()})
	if err != nil {
		pr.CloseWithError(err)
		return out, err
	}
	err = decodeJSON(resp, &out, http.StatusAccepted)
	return out, err
}
