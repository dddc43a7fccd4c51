// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package middleware provides the HTTP middleware shared by the API router.

Key Components:

  - RequestID: assigns or propagates X-Request-ID and seeds the logging
    context with request and correlation ids
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled
    by chi route pattern
  - PerformanceMonitor: sliding window of recent latencies with p50/p95/p99
    per endpoint, reported by the health endpoint

All middleware has the standard func(http.Handler) http.Handler shape so it
plugs into chi's r.Use:

	perf := middleware.NewPerformanceMonitor(1000, time.Second)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perf.Middleware)

Route labels come from chi's RouteContext after the handler ran, so metrics
middleware must be mounted on a chi router. Unmatched requests are labeled
"unmatched".
*/
package middleware
