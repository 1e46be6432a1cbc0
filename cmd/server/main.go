package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"redfp/internal/config"
	"redfp/internal/core"
	"redfp/internal/kv"
	"redfp/internal/logging"
	"redfp/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"storage_driver", cfg.Storage.Driver,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()

	// Open the persistence backend
	backend, err := kv.Open(ctx, kv.Options{
		Driver:      kv.Driver(cfg.Storage.Driver),
		SQLitePath:  cfg.Storage.SQLitePath,
		PostgresURL: cfg.Storage.PostgresURL,
	})
	if err != nil {
		slog.Error("failed to open storage backend", "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	// Build the service and restore persisted state
	service := core.NewService(backend)

	loaded, err := service.LoadPersisted(ctx)
	if err != nil {
		slog.Error("failed to load persisted records", "error", err)
		os.Exit(1)
	}
	slog.Info("records restored", "count", loaded)

	// Fresh deployments get the embedded fixtures
	if loaded == 0 && cfg.Seed.OnEmpty {
		if err := service.Seed(); err != nil {
			slog.Error("failed to seed fixtures", "error", err)
			os.Exit(1)
		}
		slog.Info("fixtures seeded")
	}

	slog.Info("import types registered", "count", len(service.ImportTypes()))

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
