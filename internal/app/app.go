// Package app assembles storage, model provider, services and HTTP routes
// from configuration. Both the server binary and the CLI start from here.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"midad/internal/analyzer"
	_ "midad/internal/analyzer/providers"
	"midad/internal/config"
	"midad/internal/handler"
	"midad/internal/history"
	"midad/internal/normalizer"
	"midad/internal/port"
	"midad/internal/preference"
	"midad/internal/router"
	"midad/internal/service"
	"midad/internal/storage"
)

// shutdownTimeout bounds how long in-flight analyses may finish after a stop signal.
const shutdownTimeout = 30 * time.Second

// App holds the wired application.
type App struct {
	Config      *config.Config
	KV          port.KeyValueStore
	Analysis    service.AnalysisService
	History     service.HistoryService
	Preferences service.PreferenceService
}

// New opens the configured backend and builds the services.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	ConfigureLogging(&cfg.Log)

	gen, err := analyzer.NewGenerator(&cfg.Parser)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %q provider: %w", cfg.Parser.Provider, err)
	}
	if cfg.Parser.APIKey == "" {
		log.Printf("app.New: no API key configured for %q; analyses will fail until one is set", cfg.Parser.Provider)
	}

	kv, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	return NewWithDeps(cfg, kv, gen), nil
}

// ConfigureLogging applies the log level to the standard logger.
func ConfigureLogging(cfg *config.LogConfig) {
	switch cfg.Level {
	case "off":
		log.SetOutput(io.Discard)
	case "debug":
		log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	default:
		log.SetFlags(log.LstdFlags)
	}
}

// NewWithDeps builds the services on top of an already opened store and provider.
func NewWithDeps(cfg *config.Config, kv port.KeyValueStore, gen port.Generator) *App {
	historyStore := history.NewStore(kv, cfg.History.MaxItems)
	prefStore := preference.NewStore(kv)

	return &App{
		Config: cfg,
		KV:     kv,
		Analysis: service.NewAnalysisService(
			analyzer.NewClient(gen),
			normalizer.New(),
			historyStore,
			prefStore,
			cfg.Parser.Provider,
		),
		History:     service.NewHistoryService(historyStore),
		Preferences: service.NewPreferenceService(prefStore),
	}
}

// Handler returns the HTTP routes.
func (a *App) Handler() *gin.Engine {
	if a.Config.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	return router.Setup(router.Handlers{
		Analysis:   handler.NewAnalysisHandler(a.Analysis, a.Config.Upload.MaxFileSizeMB),
		History:    handler.NewHistoryHandler(a.History),
		Preference: handler.NewPreferenceHandler(a.Preferences),
		Health:     handler.NewHealthHandler(a.KV),
	}, a.Config.CORS.AllowedOrigins, a.Config.Upload.MaxFileSizeMB)
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.Config.Server.Port,
		Handler:      a.Handler(),
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (provider %s, storage %s)",
			a.Config.Server.Port, a.Config.Parser.Provider, a.Config.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.KV.Close()
}
