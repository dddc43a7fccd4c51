// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/recommend"
)

// initRecommend loads the catalog artifact and builds the engine.
func initRecommend(ctx context.Context, cfg *config.Config) (*recommend.Engine, error) {
	logger := logging.WithComponent("startup")

	format, err := recommend.ParseFormat(cfg.Catalog.Format)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	cat, err := recommend.Open(ctx, cfg.Catalog.Path, format)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	elapsed := time.Since(start)
	metrics.SetCatalogStats(cat.Len(), cat.Dim(), elapsed)

	logger.Info().
		Str("path", cfg.Catalog.Path).
		Str("format", string(format)).
		Int("movies", cat.Len()).
		Int("genres", cat.Dim()).
		Dur("elapsed", elapsed).
		Msg("catalog loaded")

	if cat.Len() == 0 {
		logger.Warn().Msg("catalog is empty; every request will fail until a populated artifact is deployed")
	}

	engine, err := recommend.NewEngine(cat, buildEngineConfig(cfg), logging.Logger())
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	return engine, nil
}

// buildEngineConfig maps the recommend and classifier sections onto the
// engine settings.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	ec := recommend.DefaultConfig()
	ec.DefaultTopK = cfg.Recommend.DefaultTopK
	ec.MaxTopK = cfg.Recommend.MaxTopK
	ec.StrictDefault = cfg.Recommend.StrictDefault
	ec.Seed = cfg.Recommend.Seed
	if cfg.Classifier.Timeout > 0 {
		ec.ClassifyTimeout = cfg.Classifier.Timeout
	}
	return ec
}
