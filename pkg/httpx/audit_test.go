package httpx_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/freehekimteam/quietvector/pkg/httpx"
	"github.com/freehekimteam/quietvector/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestAuditMiddlewareRecordsFinalStatus(t *testing.T) {
	var buf bytes.Buffer
	sink := httpx.NewWriterAuditLog(&buf)

	h := httpx.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}),
		httpx.AuditMiddleware(sink),
		httpx.RecoverMiddleware,
	)

	req := httptest.NewRequest(http.MethodPost, "/api/vectors/insert", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	before := time.Now().Unix()
	h.ServeHTTP(httptest.NewRecorder(), req)

	var rec httpx.AuditRecord
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	require.Equal(t, http.MethodPost, rec.Method)
	require.Equal(t, "/api/vectors/insert", rec.Path)
	require.Equal(t, http.StatusInternalServerError, rec.Status)
	require.Equal(t, "10.1.2.3", rec.Client, "audit uses the peer address")
	require.GreaterOrEqual(t, rec.TS, before)
}

func TestAuditMiddlewareDefaultsTo200(t *testing.T) {
	var buf bytes.Buffer
	h := httpx.AuditMiddleware(httpx.NewWriterAuditLog(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	var rec httpx.AuditRecord
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	require.Equal(t, http.StatusOK, rec.Status)
}

func TestFileAuditLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "audit.log")
	sink := httpx.NewFileAuditLog(path, slogx.Discard())

	sink.Record(httpx.AuditRecord{TS: 1, Method: "GET", Path: "/a", Status: 200, Client: "c"})
	sink.Record(httpx.AuditRecord{TS: 2, Method: "POST", Path: "/b", Status: 403, Client: "c"})

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []httpx.AuditRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec httpx.AuditRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		lines = append(lines, rec)
	}
	require.Len(t, lines, 2)
	require.Equal(t, "/a", lines[0].Path)
	require.Equal(t, 403, lines[1].Status)
}

func TestFileAuditLogSwallowsErrors(t *testing.T) {
	// A regular file where the directory should be makes MkdirAll fail.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	sink := httpx.NewFileAuditLog(filepath.Join(blocker, "audit.log"), slogx.Discard())
	h := httpx.AuditMiddleware(sink)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/collections", nil))
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}
