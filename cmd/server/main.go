// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/marquee/internal/api"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/middleware"
	"github.com/tomtom215/marquee/internal/supervisor"
	"github.com/tomtom215/marquee/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("catalog", cfg.Catalog.Path).
		Bool("classifier_enabled", cfg.Classifier.Enabled).
		Msg("Starting Marquee")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Shutdown complete")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A catalog that cannot be loaded is the only fatal startup error.
	engine, err := initRecommend(ctx, cfg)
	if err != nil {
		return err
	}

	extractor := initClassifier(cfg, engine)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	opts := api.HandlerOptions{
		Version:        version,
		RequestTimeout: cfg.Recommend.RequestTimeout,
		Performance:    middleware.NewPerformanceMonitor(1000, middleware.DefaultSlowThreshold),
	}
	if extractor != nil {
		opts.Classifier = extractor
		tree.AddClassifierService(services.NewClassifierProbeService(extractor, cfg.Classifier.ProbeInterval))
	}

	if len(cfg.Server.CORSOrigins) == 1 && cfg.Server.CORSOrigins[0] == "*" {
		logging.Warn().Msg("CORS allows any origin (server.cors_origins=*)")
	}
	if cfg.Server.RateLimitDisabled {
		logging.Warn().Msg("Client rate limiting is disabled")
	}

	router := api.NewRouter(api.NewHandler(engine, opts), api.NewChiMiddlewareFromConfig(&cfg.Server))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server.Addr, server, cfg.Server.ShutdownTimeout))

	if path := config.FindConfigFile(); path != "" {
		if err := config.WatchConfigFile(path, func() { applyConfigChange(path) }); err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Config file watch unavailable")
		}
	}

	errCh := tree.ServeBackground(ctx)
	logging.Info().Str("addr", server.Addr).Msg("Supervisor tree started")

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Error().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}

	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		return serveErr
	}
	return nil
}
