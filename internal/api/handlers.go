// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"time"

	"github.com/tomtom215/marquee/internal/classifier"
	"github.com/tomtom215/marquee/internal/middleware"
	"github.com/tomtom215/marquee/internal/recommend"
)

// GenreDiagnoser exposes raw classifier output. *classifier.GenreExtractor
// implements it.
type GenreDiagnoser interface {
	Diagnose(ctx context.Context, text string) (*classifier.Diagnosis, error)
	Model() string
	BreakerState() string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response envelope, decoding and validation
//   - handlers_recommend.go: recommendations and genres
//   - handlers_classify.go: classifier diagnostics
//   - handlers_health.go: health, liveness and readiness
type Handler struct {
	engine         *recommend.Engine
	classifier     GenreDiagnoser
	perf           *middleware.PerformanceMonitor
	version        string
	requestTimeout time.Duration
	startTime      time.Time
}

// HandlerOptions holds the optional Handler dependencies.
type HandlerOptions struct {
	// Classifier enables POST /api/v1/classify. Leave nil when the
	// classifier is disabled.
	Classifier GenreDiagnoser

	// Performance supplies recent latencies to the health endpoint.
	Performance *middleware.PerformanceMonitor

	Version string

	// RequestTimeout bounds one recommendation or classify call.
	RequestTimeout time.Duration
}

// NewHandler creates the API handler around a ready engine.
//
// Example:
//
//	handler := api.NewHandler(engine, api.HandlerOptions{Classifier: extractor})
//	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Server))
//	http.ListenAndServe(":8080", router.SetupChi())
func NewHandler(engine *recommend.Engine, opts HandlerOptions) *Handler {
	return &Handler{
		engine:         engine,
		classifier:     opts.Classifier,
		perf:           opts.Performance,
		version:        opts.Version,
		requestTimeout: opts.RequestTimeout,
		startTime:      time.Now(),
	}
}

// withTimeout applies the configured request timeout, if any.
func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.requestTimeout)
}
