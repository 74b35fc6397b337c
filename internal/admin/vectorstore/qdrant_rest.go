package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
)

const restErrorBodyLimit = 4 << 10

func (q *Qdrant) newRESTRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, q.restURL+path, body)
	if err != nil {
		return nil, err
	}
	if key := q.key(); key != "" {
		req.Header.Set("api-key", key)
	}
	return req, nil
}

func readRESTError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, restErrorBodyLimit))
	return classifyHTTP(resp.StatusCode, string(b))
}

// DownloadSnapshot streams the snapshot file over REST. Only the request
// setup is bounded by the configured timeout; the body streams until the
// caller's context ends.
func (q *Qdrant) DownloadSnapshot(ctx context.Context, collection, name string) (io.ReadCloser, error) {
	path := fmt.Sprintf("/collections/%s/snapshots/%s", url.PathEscape(collection), url.PathEscape(name))
	req, err := q.newRESTRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, domain.Upstream(err)
	}

	resp, err := q.rest.Do(req)
	if err != nil {
		return nil, domain.Upstream(err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, readRESTError(resp)
	}
	return resp.Body, nil
}

type restResult struct {
	Result json.RawMessage `json:"result"`
	Status any             `json:"status"`
}

// UploadSnapshot posts the snapshot as multipart form data, streaming r
// through a pipe so the file is never held in memory.
func (q *Qdrant) UploadSnapshot(ctx context.Context, collection, filename string, r io.Reader) (bool, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("snapshot", filename)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	path := fmt.Sprintf("/collections/%s/snapshots/upload?priority=snapshot", url.PathEscape(collection))
	req, err := q.newRESTRequest(ctx, http.MethodPost, path, pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return false, domain.Upstream(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := q.rest.Do(req)
	if err != nil {
		_ = pr.CloseWithError(err)
		return false, domain.Upstream(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, readRESTError(resp)
	}

	var out restResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, domain.Upstream(fmt.Errorf("decode upload response: %w", err))
	}
	var ok bool
	if err := json.Unmarshal(out.Result, &ok); err != nil {
		// Anything other than a bare bool still means the server accepted it.
		return true, nil
	}
	return ok, nil
}
