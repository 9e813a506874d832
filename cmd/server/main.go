package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcoot/apollo/internal/api"
	"github.com/mcoot/apollo/internal/config"
	"github.com/mcoot/apollo/internal/factory"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create application factory
	app, err := factory.New(factory.ConfigFromEnv(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The configured password is set first so the restored state stays guarded by it
	if cfg.AdminPassword != "" {
		if err := app.Store.SetAdminPassword(ctx, cfg.AdminPassword); err != nil {
			logger.Error("failed to set admin password", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	if err := app.Persister.Restore(ctx, cfg.AdminPassword); err != nil {
		logger.Error("failed to restore state", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app.Start(ctx)

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		Store:        app.Store,
		Hub:          app.Hub,
		Broadcaster:  app.Broadcaster,
		EventTitle:   cfg.EventTitle,
		SecureCookie: cfg.SecureCookie,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)
	// Stream clients would otherwise hold the shutdown open
	server.OnShutdown(app.Hub.Close)

	logger.Info("server starting",
		slog.String("event_title", cfg.EventTitle),
		slog.String("storage", cfg.Storage),
	)

	// Serve until a shutdown signal arrives
	exitCode := 0
	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		exitCode = 1
	}

	// Final save so nothing queued behind the worker is lost
	saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := app.Persister.SaveNow(saveCtx); err != nil {
		logger.Error("final save failed", slog.String("error", err.Error()))
		exitCode = 1
	}
	cancel()

	logger.Info("server stopped")
	if exitCode != 0 {
		_ = app.Close()
		os.Exit(exitCode)
	}
}
