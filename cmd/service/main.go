// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsamuelsen/api-integration/internal/adapters/clients"
	"github.com/jsamuelsen/api-integration/internal/adapters/clients/acl"
	"github.com/jsamuelsen/api-integration/internal/adapters/http"
	"github.com/jsamuelsen/api-integration/internal/adapters/http/handlers"
	"github.com/jsamuelsen/api-integration/internal/app"
	"github.com/jsamuelsen/api-integration/internal/platform/config"
	"github.com/jsamuelsen/api-integration/internal/platform/logging"
	"github.com/jsamuelsen/api-integration/internal/platform/telemetry"
	"github.com/jsamuelsen/api-integration/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

// upstreamServiceName labels the upstream in logs, spans and metrics.
const upstreamServiceName = "fingrid"

// apiKeyHeader carries the Fingrid subscription key.
const apiKeyHeader = "X-API-Key"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	slog.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("upstream", cfg.Fingrid.BaseURL),
	)

	if cfg.Fingrid.MaxRetryAttempts > 0 {
		logger.Warn("upstream retry settings are validated but not applied; every fetch is a single attempt",
			slog.Int("max_retry_attempts", cfg.Fingrid.MaxRetryAttempts),
			slog.Duration("retry_delay", cfg.Fingrid.RetryDelay()),
		)
	}

	telProvider, err := telemetry.New(ctx, telemetry.ConfigFrom(cfg.App, cfg.Telemetry))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	upstream, err := clients.New(&clients.Config{
		BaseURL:     cfg.Fingrid.BaseURL,
		ServiceName: upstreamServiceName,
		Timeout:     cfg.Fingrid.Timeout(),
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		AuthFunc:    clients.HeaderAuth(apiKeyHeader, cfg.Fingrid.APIKey),
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating upstream client: %w", err)
	}

	metadataClient := acl.NewMetadataClient(acl.MetadataClientConfig{
		Client: upstream,
		Logger: logger,
	})

	healthRegistry := ports.NewHealthRegistry(ports.WithCheckTimeout(cfg.Fingrid.Timeout()))
	if err := healthRegistry.Register(metadataClient); err != nil {
		return fmt.Errorf("registering upstream health check: %w", err)
	}

	datasetService := app.NewDatasetService(app.DatasetServiceConfig{
		MetadataClient: metadataClient,
		Logger:         logger,
	})

	buildInfo := handlers.NewBuildInfo(cfg.App.Name, Version, Commit, BuildTime)

	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		ServiceName:     telemetry.ConfigFrom(cfg.App, cfg.Telemetry).ServiceName,
		HealthHandler:   handlers.NewHealthHandler(healthRegistry, buildInfo),
		MetadataHandler: handlers.NewMetadataHandler(datasetService),
		RateLimit:       cfg.RateLimit,
		Timeout:         http.DefaultRequestTimeout,
	})

	serverErr, err := server.Start()
	if err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}

		return nil

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
