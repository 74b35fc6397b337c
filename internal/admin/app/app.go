package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	httpapi "github.com/freehekimteam/quietvector/internal/admin/http"
	"github.com/freehekimteam/quietvector/internal/admin/metrics"
	"github.com/freehekimteam/quietvector/internal/admin/ops"
	"github.com/freehekimteam/quietvector/internal/admin/service"
	"github.com/freehekimteam/quietvector/internal/admin/store"
	"github.com/freehekimteam/quietvector/internal/admin/store/drivers/sqlite"
	"github.com/freehekimteam/quietvector/internal/admin/vectorstore"
	"github.com/freehekimteam/quietvector/pkg/httpx"
	"github.com/freehekimteam/quietvector/pkg/jwtx"
	"github.com/freehekimteam/quietvector/pkg/slogx"
)

const ServiceName = "quietvector"

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application wires the admin API together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	vectors vectorstore.Store
	archive *store.OperationArchive // nil unless OPS_ARCHIVE_FILE is set
	tracker *ops.Tracker
	reaper  *ops.Reaper
	tokens  *jwtx.HS256
	metrics *metrics.Metrics
	limiter *httpx.SlidingWindowLimiter
	runner  service.CommandRunner

	// Services
	authService       *service.AuthService
	restoreRunner     *service.RestoreRunner
	opsService        *service.OpsService
	keyPrepareService *service.KeyPrepareService
	opsApplyService   *service.OpsApplyService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

type Option func(*Application)

// WithVectorStore replaces the Qdrant client, e.g. with vectorstore.Memory.
func WithVectorStore(vs vectorstore.Store) Option {
	return func(a *Application) { a.vectors = vs }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Application) { a.logger = l }
}

// WithCommandRunner replaces the runner used by ops apply.
func WithCommandRunner(r service.CommandRunner) Option {
	return func(a *Application) { a.runner = r }
}

// New validates cfg and builds every dependency. Nothing listens until Run.
func New(cfg Config, opts ...Option) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{cfg: cfg}
	for _, opt := range opts {
		opt(app)
	}
	if app.logger == nil {
		app.logger = slogx.New(slogx.Config{
			Service: ServiceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat(),
		})
	}
	if cfg.JWTSecret == DefaultJWTSecret && cfg.Env != "development" {
		app.logger.Warn("JWT_SECRET is the default value; set a strong secret")
	}
	if cfg.AdminPasswordHash == "" {
		app.logger.Warn("ADMIN_PASSWORD_HASH is not set; logins will fail")
	}

	tokens, err := jwtx.NewHS256(cfg.JWTSecret, cfg.TokenTTL(), jwtx.WithIssuer(ServiceName))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}
	app.tokens = tokens

	if app.vectors == nil {
		app.vectors = vectorstore.NewQdrant(vectorstore.QdrantConfig{
			Host:       cfg.QdrantHost,
			RESTPort:   cfg.QdrantPort,
			GRPCPort:   cfg.QdrantGRPCPort,
			APIKey:     cfg.QdrantAPIKey,
			APIKeyFile: cfg.QdrantAPIKeyFile,
			Timeout:    cfg.QdrantTimeout,
			Logger:     app.logger,
		})
	}

	if err := app.initArchive(); err != nil {
		return nil, err
	}

	app.metrics = metrics.New(metrics.Config{ServiceName: ServiceName, EnableDefaultCollectors: true})
	app.initOps()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the router, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run serves until ctx ends or a shutdown signal arrives, then shuts down
// gracefully.
func (app *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", app.server.Addr)
	if err != nil {
		_ = app.closeStores()
		return fmt.Errorf("failed to listen on %s: %w", app.server.Addr, err)
	}
	return app.Serve(ctx, ln)
}

// Serve is Run on a caller-provided listener.
func (app *Application) Serve(ctx context.Context, ln net.Listener) error {
	if n := app.restoreRunner.CleanupStale(); n > 0 {
		app.logger.Info("removed stale restore spool files", "count", n)
	}
	app.reaper.Start()

	app.logger.Info("quietvector admin api starting",
		"addr", ln.Addr().String(),
		"version", BuildVersion,
		"qdrant", fmt.Sprintf("%s:%d", app.cfg.QdrantHost, app.cfg.QdrantPort),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		_ = app.Shutdown()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		app.logger.Info("shutdown requested")
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	}
}

// Shutdown stops accepting requests, lets running restores finish within
// the grace period, flushes finished operations to the archive and closes
// the backing stores.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down quietvector admin api...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.restoreRunner.Wait(ctx); err != nil {
		app.logger.Warn("restore jobs still running at shutdown", "error", err)
	}

	app.reaper.Stop()

	err := app.closeStores()
	app.logger.Info("quietvector admin api stopped")
	return err
}

// closeStores releases the archive and the vector store.
func (app *Application) closeStores() error {
	var errs []error
	if app.archive != nil {
		if err := app.archive.Close(); err != nil {
			app.logger.Error("error closing operation archive", "error", err)
			errs = append(errs, err)
		}
	}
	if err := app.vectors.Close(); err != nil {
		app.logger.Error("error closing qdrant client", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// initArchive opens the SQLite operation archive when configured.
func (app *Application) initArchive() error {
	if app.cfg.OpsArchiveFile == "" {
		return nil
	}

	db, err := sqlite.NewStore(fmt.Sprintf("file:%s", app.cfg.OpsArchiveFile))
	if err != nil {
		return fmt.Errorf("failed to open operation archive: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply archive migrations: %w", err)
	}

	app.archive = store.NewOperationArchive(db)
	app.logger.Info("operation archive ready", "file", app.cfg.OpsArchiveFile)
	return nil
}

func (app *Application) initOps() {
	app.tracker = ops.NewTracker(ops.Config{
		MaxEntries: app.cfg.OpsMaxEntries,
		TTL:        app.cfg.OpsTTL,
		Logger:     app.logger,
	})

	var archive ops.Archive
	if app.archive != nil {
		archive = app.archive
	}
	app.reaper = ops.NewReaper(app.tracker, archive, app.logger, app.cfg.OpsReapInterval)
	app.reaper.Retention = app.cfg.OpsArchiveRetention

	app.metrics.GaugeFunc("tracked_operations", "Operations held in memory.", func() float64 {
		return float64(app.tracker.Len())
	})
}

func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Username:     app.cfg.AdminUsername,
		PasswordHash: app.cfg.AdminPasswordHash,
		TOTPSecret:   app.cfg.AdminTOTPSecret,
		Tokens:       app.tokens,
		Logger:       app.logger,
	}

	app.restoreRunner = &service.RestoreRunner{
		Store:   app.vectors,
		Tracker: app.tracker,
		Logger:  app.logger,
		TempDir: app.cfg.RestoreTempDir,
		Timeout: app.cfg.RestoreUploadTimeout,
		OnFinish: func(stage domain.Stage, elapsed time.Duration) {
			app.metrics.ObserveRestore(string(stage), elapsed)
		},
	}

	opsService := &service.OpsService{Tracker: app.tracker, Logger: app.logger}
	if app.archive != nil {
		opsService.Archive = app.archive
	}
	app.opsService = opsService

	app.keyPrepareService = &service.KeyPrepareService{
		Auth:        app.authService,
		KeyFile:     app.cfg.QdrantAPIKeyFile,
		Store:       app.vectors,
		Tracker:     app.tracker,
		Logger:      app.logger,
		ComposeFile: app.cfg.OpsApplyComposeFile,
		ServiceName: app.cfg.OpsApplyService,
	}

	if app.runner == nil {
		app.runner = service.ExecRunner{Timeout: 5 * time.Minute}
	}
	app.opsApplyService = &service.OpsApplyService{
		Auth:        app.authService,
		Enabled:     app.cfg.EnableOpsApply,
		ComposeFile: app.cfg.OpsApplyComposeFile,
		ServiceName: app.cfg.OpsApplyService,
		Runner:      app.runner,
		Tracker:     app.tracker,
		Logger:      app.logger,
	}
}

func (app *Application) auditSink() httpx.AuditSink {
	switch app.cfg.AuditLogPath {
	case "":
		return nil
	case "-":
		return httpx.NewWriterAuditLog(os.Stdout)
	}
	return httpx.NewFileAuditLog(app.cfg.AuditLogPath, app.logger)
}

func (app *Application) initHTTP() {
	app.limiter = httpx.NewSlidingWindowLimiter(httpx.SlidingWindowConfig{
		Limit:         app.cfg.RateLimitPerMinute,
		Window:        time.Minute,
		StaleAfter:    app.cfg.RateLimitStaleAfter,
		SweepInterval: app.cfg.RateLimitSweepInterval,
		Logger:        app.logger,
	})
	app.metrics.GaugeFunc("rate_limit_clients", "Clients tracked by the rate limiter.", func() float64 {
		return float64(app.limiter.Clients())
	})

	router := httpapi.NewRouter(httpapi.Config{
		Verifier:      app.tokens,
		RequireAPIKey: app.cfg.RequireAPIKey,
		APIKey:        app.cfg.APIKey,
		RateLimiter:   app.limiter,
		LoginLimiter: httpx.NewTokenBucketLimiter(httpx.TokenBucketConfig{
			RequestsPerWindow: app.cfg.LoginRatePerMinute,
			Window:            time.Minute,
			Burst:             app.cfg.LoginBurst,
		}),
		MaxBodyBytes:   app.cfg.MaxBodySizeBytes,
		MaxUploadBytes: app.cfg.MaxUploadSizeBytes,
		Audit:          app.auditSink(),
		Metrics:        app.metrics,
		FrontendOrigin: app.cfg.FrontendOrigin,
		EnableSwagger:  app.cfg.Env != "production",
		Version:        BuildVersion,
	}, app.logger)

	// Wire services to router
	router.AuthService = app.authService
	router.CollectionService = &service.CollectionService{Store: app.vectors}
	router.VectorService = &service.VectorService{Store: app.vectors}
	router.SnapshotService = &service.SnapshotService{Store: app.vectors}
	router.RestoreRunner = app.restoreRunner
	router.StatsService = &service.StatsService{Store: app.vectors}
	router.OpsService = app.opsService
	router.KeyPrepareService = app.keyPrepareService
	router.OpsApplyService = app.opsApplyService
	router.Health = app.vectors
	if app.archive != nil {
		router.Archive = app.archive
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              app.cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(app.logger.Handler(), slog.LevelWarn),
	}
}
