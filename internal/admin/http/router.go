package http

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/freehekimteam/quietvector/api/admin" // Swagger docs
	"github.com/freehekimteam/quietvector/internal/admin/metrics"
	"github.com/freehekimteam/quietvector/internal/admin/service"
	"github.com/freehekimteam/quietvector/pkg/httpx"
	"github.com/freehekimteam/quietvector/pkg/jwtx"
	"github.com/freehekimteam/quietvector/pkg/slogx"
)

//go:generate swag init --generalInfo router.go --dir ./,../../../pkg/adminsdk --output ../../../api/admin --outputTypes go --parseDependency

// Paths that never need the CSRF header.
var csrfExemptPaths = []string{"/api/auth/login", "/health", "/health/ready", "/metrics"}

// Config carries the HTTP-level settings of the router. Zero values turn the
// corresponding layer off where that makes sense (no limiter, no audit, no
// metrics, no CORS).
type Config struct {
	Verifier      jwtx.Verifier
	RequireAPIKey bool
	APIKey        string

	RateLimiter  *httpx.SlidingWindowLimiter
	LoginLimiter *httpx.TokenBucketLimiter

	MaxBodyBytes   int64
	MaxUploadBytes int64

	Audit          httpx.AuditSink
	Metrics        *metrics.Metrics
	FrontendOrigin string
	EnableSwagger  bool
	Version        string
}

// HealthChecker reports whether the vector database answers.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Pinger reports whether the operation archive is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	cfg       Config
	startTime time.Time
	logger    *slog.Logger

	AuthService       *service.AuthService
	CollectionService *service.CollectionService
	VectorService     *service.VectorService
	SnapshotService   *service.SnapshotService
	RestoreRunner     *service.RestoreRunner
	StatsService      *service.StatsService
	OpsService        *service.OpsService
	KeyPrepareService *service.KeyPrepareService
	OpsApplyService   *service.OpsApplyService
	Health            HealthChecker
	Archive           Pinger // optional
}

func NewRouter(cfg Config, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{
		Mux:       http.NewServeMux(),
		cfg:       cfg,
		startTime: time.Now(),
		logger:    logger,
	}

	// Outermost first. Metrics and the request id see every request,
	// audit sees the final status of the guards below it.
	if cfg.Metrics != nil {
		r.middlewares = append(r.middlewares, cfg.Metrics.Middleware)
	}
	r.middlewares = append(r.middlewares, slogx.HTTPMiddleware(logger))
	if cfg.Audit != nil {
		r.middlewares = append(r.middlewares, httpx.AuditMiddleware(cfg.Audit))
	}
	// CORS answers preflights itself, so it sits inside audit.
	if cfg.FrontendOrigin != "" {
		r.middlewares = append(r.middlewares, cors.Handler(cors.Options{
			AllowedOrigins:   []string{cfg.FrontendOrigin},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.middlewares = append(r.middlewares, httpx.BodyLimitMiddleware(httpx.BodyLimitConfig{
		MaxBytes: cfg.MaxBodyBytes,
		Ceiling:  r.uploadCeiling,
	}))
	if cfg.RateLimiter != nil {
		r.middlewares = append(r.middlewares, httpx.RateLimitMiddleware(cfg.RateLimiter, httpx.ClientIP))
	}
	r.middlewares = append(r.middlewares, httpx.CSRFMiddleware(httpx.CSRFConfig{ExemptPaths: csrfExemptPaths}))

	return r
}

// uploadCeiling lifts the body limit on the snapshot restore route only.
func (r *Router) uploadCeiling(req *http.Request) int64 {
	if req.Method == http.MethodPost && strings.HasSuffix(req.URL.Path, "/restore_async") {
		return r.cfg.MaxUploadBytes
	}
	return 0
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerCollections()
	r.registerVectors()
	r.registerSnapshots()
	r.registerOps()
	r.registerSecurity()
	r.registerSystem()

	if r.cfg.EnableSwagger {
		r.Mux.Handle("GET /swagger/", httpSwagger.Handler())
	}
	r.Mux.Handle("/", http.HandlerFunc(r.fallback))
}

var routeMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
}

// fallback answers requests no route matched: 405 with Allow when the path
// exists under another method, JSON 404 otherwise.
func (r *Router) fallback(w http.ResponseWriter, req *http.Request) {
	var allow []string
	for _, m := range routeMethods {
		alt := req.Clone(req.Context())
		alt.Method = m
		if _, pattern := r.Mux.Handler(alt); pattern != "" && pattern != "/" {
			allow = append(allow, m)
		}
	}
	if len(allow) == 0 {
		httpx.WriteError(w, http.StatusNotFound, "Not Found")
		return
	}
	if slices.Contains(allow, http.MethodGet) {
		allow = append(allow, http.MethodHead)
	}
	w.Header().Set("Allow", strings.Join(allow, ", "))
	httpx.WriteError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			QuietVector Admin API
//	@version		0.1.0
//	@description	Authenticated administration of a Qdrant vector database: collections, vectors, snapshots and asynchronous restores.
//	@description
//	@description				State-changing requests must echo the csrf_token cookie in the X-CSRF-Token header.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8090
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// protected wraps h with panic recovery and authentication.
func (r *Router) protected(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h,
		httpx.RecoverMiddleware,
		httpx.AuthnMiddleware(httpx.AuthnConfig{
			Verifier:      r.cfg.Verifier,
			RequireAPIKey: r.cfg.RequireAPIKey,
			APIKey:        r.cfg.APIKey,
		}),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Login is additionally throttled per client by a token bucket.
	var throttle httpx.Middleware
	if r.cfg.LoginLimiter != nil {
		throttle = r.cfg.LoginLimiter.Middleware(httpx.ClientIP)
	}
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin), httpx.RecoverMiddleware, throttle),
	)
}

func (r *Router) registerCollections() {
	h := &CollectionsHandler{CollectionService: r.CollectionService}

	r.Mux.Handle("GET /api/collections", r.protected(h.HandleList))
	r.Mux.Handle("POST /api/collections", r.protected(h.HandleCreate))
	r.Mux.Handle("GET /api/collections/{name}", r.protected(h.HandleGet))
	r.Mux.Handle("DELETE /api/collections/{name}", r.protected(h.HandleDelete))
	r.Mux.Handle("GET /api/stats", r.protected((&StatsHandler{StatsService: r.StatsService}).ServeHTTP))
}

func (r *Router) registerVectors() {
	h := &VectorsHandler{VectorService: r.VectorService}

	r.Mux.Handle("POST /api/vectors/insert", r.protected(h.HandleInsert))
	r.Mux.Handle("POST /api/vectors/search", r.protected(h.HandleSearch))
	r.Mux.Handle("POST /api/vectors/delete", r.protected(h.HandleDelete))
}

func (r *Router) registerSnapshots() {
	h := &SnapshotsHandler{
		SnapshotService: r.SnapshotService,
		RestoreRunner:   r.RestoreRunner,
		OpsService:      r.OpsService,
	}

	// More specific than {collection}/{name}, so ServeMux prefers it.
	r.Mux.Handle("GET /api/snapshots/restore_status/{op_id}", r.protected(h.HandleRestoreStatus))
	r.Mux.Handle("GET /api/snapshots/{collection}", r.protected(h.HandleList))
	r.Mux.Handle("POST /api/snapshots/{collection}", r.protected(h.HandleCreate))
	r.Mux.Handle("GET /api/snapshots/{collection}/{name}", r.protected(h.HandleDownload))
	r.Mux.Handle("POST /api/snapshots/{collection}/restore_async", r.protected(h.HandleRestoreAsync))
}

func (r *Router) registerOps() {
	h := &OpsHandler{OpsService: r.OpsService}
	r.Mux.Handle("GET /api/ops", r.protected(h.HandleList))
}

func (r *Router) registerSecurity() {
	h := &SecurityHandler{
		KeyPrepareService: r.KeyPrepareService,
		OpsApplyService:   r.OpsApplyService,
	}
	r.Mux.Handle("POST /api/security/qdrant_key/prepare", r.protected(h.HandlePrepareKey))
	r.Mux.Handle("POST /api/security/ops_apply", r.protected(h.HandleOpsApply))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /health", http.HandlerFunc(HealthHandler))
	r.Mux.Handle("GET /health/ready", ReadyHandler(r.Health, r.Archive, r.startTime, r.cfg.Version))
	if r.cfg.Metrics != nil {
		r.Mux.Handle("GET /metrics", r.cfg.Metrics.Handler())
	}
}
