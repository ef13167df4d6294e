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

	"github.com/starford/mealboard/internal/api"
	"github.com/starford/mealboard/internal/browser"
	"github.com/starford/mealboard/internal/mcpserver"
	"github.com/starford/mealboard/internal/mealdb"
	"github.com/starford/mealboard/internal/session"
	"github.com/starford/mealboard/internal/sse"
	"github.com/starford/mealboard/internal/view"
)

func newApplication(opts []Option, defaultOutput *os.File) (*application, *slog.Logger, error) {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}
	if app.logOutput == nil {
		app.logOutput = defaultOutput
	}

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)

	return app, logger, nil
}

func newCatalog(cfg *Config) *mealdb.Client {
	return mealdb.NewClient(cfg.MealDB.BaseURL, mealdb.WithTimeout(cfg.MealDB.Timeout))
}

// NewHandler builds the HTTP handler of the web application: health checks,
// the page, the event stream and the actions.
func NewHandler(b *browser.Browser, sessions *session.Manager, broker *sse.Broker, views *view.Renderer, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
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

	r.Mount("/", api.NewRouter(b, sessions, broker, views, logger))

	return r
}

// Run starts the web application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts, os.Stdout)
	if err != nil {
		return err
	}
	cfg := app.config

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("mealdb_url", cfg.MealDB.BaseURL),
		slog.String("log_level", cfg.App.LogLevel.String()))

	views, err := view.NewRenderer(cfg.UI.TemplatesDir)
	if err != nil {
		return fmt.Errorf("init templates: %w", err)
	}
	if views.Dir() != "" {
		logger.Info("Template overrides enabled", slog.String("dir", views.Dir()))
	}

	// SSE broker.
	broker := sse.NewBroker(cfg.Events.KeepAlive)
	defer broker.Close()

	sessions := session.NewManager(func(id string) *view.Document {
		return view.NewDocument(id, func(c view.Change) {
			broker.Publish(api.ChangeEvent(id, c))
		})
	}, cfg.Session.IdleTimeout)

	b := browser.New(newCatalog(cfg), views, logger)
	defer b.Wait()

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           NewHandler(b, sessions, broker, views, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Expire idle sessions.
	g.Go(func() error {
		sessions.Run(gCtx, cfg.Session.SweepInterval, logger)
		return nil
	})

	// Reload template overrides; connected pages get a notice to refresh.
	g.Go(func() error {
		return view.WatchTemplates(gCtx, views, logger, func() {
			broker.Publish(sse.Event{
				Type: view.ChangeNotice,
				Data: view.Change{Message: "Templates updated. Reload the page to apply them."},
			})
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
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

		logger.Info("Shutting down server...")

		// Streams only end when the broker closes their channels.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the recipe catalog over MCP on stdin/stdout. Logs go to
// stderr unless WithLogOutput says otherwise.
func RunMCP(_ context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts, os.Stderr)
	if err != nil {
		return err
	}

	logger.Info("MCP server starting", slog.String("mealdb_url", app.config.MealDB.BaseURL))

	if err := mcpserver.New(newCatalog(app.config), logger).ServeStdio(); err != nil {
		return fmt.Errorf("mcp server error: %w", err)
	}
	return nil
}
