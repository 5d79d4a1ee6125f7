// Package app wires configuration, storage, the import engine and the HTTP
// server into a runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"careimport/internal/config"
	"careimport/internal/errors"
	"careimport/internal/importer"
	"careimport/internal/infrastructure"
	customMiddleware "careimport/internal/middleware"
	"careimport/internal/store/memory"
	"careimport/internal/store/postgres"
	handlers "careimport/internal/transport/http"
	"careimport/internal/validation"
)

// Version is set at compile time via -ldflags
var Version = "dev"

// Application represents the main application container
type Application struct {
	Config  *config.Config
	Router  *chi.Mux
	Server  *http.Server
	Service *importer.Service
	Logger  *slog.Logger

	closeStore func()
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.InfoContext(ctx, "application starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	app := &Application{
		Config: cfg,
		Logger: logger,
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.closeStore = closeStore

	app.Service = importer.NewService(store, logger, importer.Options{
		DefaultPassword: cfg.Import.DefaultPassword,
		BcryptCost:      cfg.Import.BcryptCost,
		SampleRows:      cfg.Import.SampleRows,
	})

	app.setupRouter()
	app.createServer()

	return app, nil
}

// openStore selects the store backend. A configured database URL selects
// PostgreSQL; otherwise the volatile in-memory store is used.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (importer.Store, func(), error) {
	if cfg.Database.URL == "" {
		logger.WarnContext(ctx, "no database configured, using in-memory store")
		return memory.NewStore(), func() {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()

	pg, err := postgres.New(connectCtx, cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	if cfg.Database.MigrateOnStart {
		if err := pg.EnsureSchema(connectCtx); err != nil {
			pg.Close()
			return nil, nil, err
		}
	}

	logger.InfoContext(ctx, "connected to postgres store")
	return pg, pg.Close, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	errorHandler := errors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(errors.RecoveryMiddleware(errorHandler))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
				Logger:         a.Logger,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r, errorHandler)
	})

	// Prometheus endpoint stays outside the middleware group
	r.Handle("/metrics", promhttp.Handler())

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *errors.ErrorHandler) {
	uploadValidator := validation.NewUploadValidator(a.Logger, a.Config.Import.MaxUploadBytes)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler(a.Logger, Version)
		r.Get("/healthz", healthHandler.HealthCheck)

		importHandler := handlers.NewImportHandler(a.Service, uploadValidator, a.Logger, errorHandler)
		r.Mount("/import", importHandler.Routes())

		r.NotFound(errorHandler.NotFound)
		r.MethodNotAllowed(errorHandler.MethodNotAllowed)
	})
}

// createServer builds the HTTP server from configuration
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run starts the server and blocks until an interrupt signal or a server
// failure, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	err := a.Server.Shutdown(shutdownCtx)

	if a.closeStore != nil {
		a.closeStore()
	}

	if err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	a.Logger.InfoContext(ctx, "application stopped")
	return nil
}
