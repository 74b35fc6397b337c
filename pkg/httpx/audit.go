package httpx

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// AuditRecord is one line of the audit log.
type AuditRecord struct {
	TS     int64  `json:"ts"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Status int    `json:"status"`
	Client string `json:"client"`
}

// AuditSink receives one record per completed request. Implementations
// must not fail the request; errors stay inside the sink.
type AuditSink interface {
	Record(AuditRecord)
}

// FileAuditLog appends JSON lines to a file, creating its directory on
// first use. Write failures are logged at debug and dropped.
type FileAuditLog struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

func NewFileAuditLog(path string, logger *slog.Logger) *FileAuditLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileAuditLog{path: path, logger: logger}
}

func (a *FileAuditLog) Record(rec AuditRecord) {
	line, err := json.Marshal(rec)
	if err != nil {
		a.logger.Debug("audit encode failed", "error", err)
		return
	}
	line = append(line, '\n')

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		a.logger.Debug("audit log directory unavailable", "path", a.path, "error", err)
		return
	}
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		a.logger.Debug("audit log open failed", "path", a.path, "error", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		a.logger.Debug("audit log write failed", "path", a.path, "error", err)
	}
}

// WriterAuditLog writes records to an io.Writer. Used in tests and for
// AUDIT_LOG_PATH=-.
type WriterAuditLog struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterAuditLog(w io.Writer) *WriterAuditLog {
	return &WriterAuditLog{w: w}
}

func (a *WriterAuditLog) Record(rec AuditRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_ = json.NewEncoder(a.w).Encode(rec)
}

// AuditMiddleware records every request once the inner chain has produced
// its final status. It sits outside the short-circuiting guards so that
// their rejections are audited too.
func AuditMiddleware(sink AuditSink) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww, ok := w.(middleware.WrapResponseWriter)
			if !ok {
				ww = middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			}

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				sink.Record(AuditRecord{
					TS:     time.Now().Unix(),
					Method: r.Method,
					Path:   r.URL.Path,
					Status: status,
					Client: PeerHost(r),
				})
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
