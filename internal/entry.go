// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/quicknote/quicknote/internal/api"
	"github.com/quicknote/quicknote/internal/mcpserver"
	"github.com/quicknote/quicknote/internal/noteservice"
	"github.com/quicknote/quicknote/internal/opener"
	"github.com/quicknote/quicknote/internal/settings"
	"github.com/quicknote/quicknote/internal/sse"
	"github.com/quicknote/quicknote/internal/storage"
	"github.com/quicknote/quicknote/internal/watcher"
)

// Components are the wired pieces shared by every entry point.
type Components struct {
	Config   *Config
	Logger   *slog.Logger
	Store    storage.Provider
	Settings *settings.Store
	Service  *noteservice.Service
	Version  string

	runWatch func(context.Context, *watcher.Watcher) error
}

// NewComponents applies opts and wires logger, settings store and note service.
// A missing home directory is returned as apperr.ErrNoHome.
func NewComponents(opts ...Option) (*Components, error) {
	app := &application{
		lookupEnv: os.LookupEnv,
		logOutput: os.Stdout,
		version:   "dev",
		runWatch:  func(ctx context.Context, w *watcher.Watcher) error {
			return w.Run(ctx)
		},
	}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	settingsPath := cfg.Settings.Path
	if settingsPath == "" {
		p, err := settings.ResolvePath(app.lookupEnv)
		if err != nil {
			return nil, fmt.Errorf("resolve settings path: %w", err)
		}
		settingsPath = p
	}

	if app.opener == nil {
		app.opener = opener.NewSystem()
	}

	store := storage.NewFS()
	cfgStore := settings.NewStore(settingsPath, store)
	svc := noteservice.NewService(cfgStore, store, app.opener, noteservice.WithLogger(logger))

	return &Components{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Settings: cfgStore,
		Service:  svc,
		Version:  app.version,
		runWatch: app.runWatch,
	}, nil
}

// Run starts the HTTP backend with the given options.
func Run(ctx context.Context, opts ...Option) error {
	c, err := NewComponents(opts...)
	if err != nil {
		return err
	}
	cfg, logger := c.Config, c.Logger

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("settings_path", c.Settings.Path()),
		slog.Bool("watch_enabled", cfg.Watch.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	broker := sse.NewBroker(15 * time.Second)
	defer broker.Close()

	var w *watcher.Watcher
	if cfg.Watch.Enabled {
		initial, _, loadErr := c.Settings.Load()
		if loadErr != nil {
			logger.Warn("watcher: load settings failed", slog.String("error", loadErr.Error()))
		}
		w = watcher.New(c.Store, logger, cfg.Watch.Debounce, initial, broker.PublishNoteFileEvent)
		c.Service.OnSettingsSaved(w.Retarget)
	}

	apiRouter := api.NewRouter(c.Service, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if w != nil {
		// A failed watcher only disables change events; the API keeps serving.
		g.Go(func() error {
			if err := c.runWatch(gCtx, w); err != nil {
				logger.Error("Watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		// SSE streams only end when their client leaves or the broker closes.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops after a signal.
var errShutdown = errors.New("shutdown")

// RunMCP serves the QuickNote tools over stdio until stdin closes.
// Logs must not go to stdout here, so the default output is stderr.
func RunMCP(_ context.Context, opts ...Option) error {
	opts = append([]Option{WithLogOutput(os.Stderr)}, opts...)
	c, err := NewComponents(opts...)
	if err != nil {
		return err
	}
	c.Logger.Info("Starting MCP server on stdio", slog.String("settings_path", c.Settings.Path()))
	return mcpserver.New(c.Service, c.Version).ServeStdio()
}
