package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damacus/bucket-search/internal/config"
	"github.com/damacus/bucket-search/internal/handlers"
	"github.com/damacus/bucket-search/internal/logger"
	customMiddleware "github.com/damacus/bucket-search/internal/middleware"
	"github.com/damacus/bucket-search/internal/renderer"
	"github.com/damacus/bucket-search/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(nil).FatalWith("invalid configuration", err)
	}

	log := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := setup(ctx, cfg, &services.RealBackendFactory{}, log)
	if err != nil {
		log.FatalWith("startup failed", err)
	}

	go func() {
		log.Infof("listening on %s", cfg.Address())
		if err := e.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.FatalWith("server stopped", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.ErrorWith("shutdown failed", err, nil)
	}
}

// setup connects to the bucket, discovers the folder list once and builds
// the HTTP server around it.
func setup(ctx context.Context, cfg *config.Config, factory services.BackendFactory, log *logger.Logger) (*echo.Echo, error) {
	backend, err := factory.NewBackend(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	browser := services.NewBrowserService(backend, services.BrowserOptions{
		RootPrefix:    cfg.Storage.RootPrefix,
		MaxDepth:      cfg.Storage.MaxDepth,
		PageSize:      cfg.Storage.PageSize,
		NarrowByQuery: cfg.Storage.NarrowByQuery,
	}, log)

	folders, err := browser.DiscoverFolders(ctx)
	if err != nil {
		return nil, err
	}
	log.InfoWith("folders discovered", map[string]interface{}{
		"bucket": backend.Bucket(),
		"root":   cfg.Storage.RootPrefix,
		"count":  len(folders),
	})

	return newServer(browser, log), nil
}

func newServer(browser handlers.Browser, log *logger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	browserHandler := handlers.NewBrowserHandler(browser, log)

	// Middleware
	e.Use(customMiddleware.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(customMiddleware.SecurityHeaders())
	e.Use(customMiddleware.CSRF())

	// Template Renderer
	e.Renderer = renderer.New()
	e.StaticFS("/static", renderer.Static())

	e.GET("/health", browserHandler.Health)
	e.GET("/", browserHandler.Index)
	e.GET("/download", browserHandler.Download)

	// JSON
	e.GET("/api/folders", browserHandler.APIFolders)
	e.GET("/api/search", browserHandler.APISearch)

	return e
}
