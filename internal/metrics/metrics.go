// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marquee"

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_active_requests",
			Help:      "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_rate_limit_hits_total",
			Help:      "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Matching Engine Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Recommendation requests by outcome (ranked, fallback_random, failed) and fallback reason",
		},
		[]string{"outcome", "reason"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_duration_seconds",
			Help:      "Time spent in the matching pipeline, excluding classification",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"outcome"},
	)

	CandidateFilterRelaxed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidate_filter_relaxed_total",
			Help:      "Strict genre filters that matched nothing and fell back to the full catalog",
		},
	)

	RankingRandomized = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ranking_randomized_total",
			Help:      "Rankings where every candidate scored equally and results were sampled at random",
		},
	)

	UnrecognizedGenres = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unrecognized_genres_total",
			Help:      "Requested genre labels absent from the catalog vocabulary",
		},
	)

	// Catalog Metrics
	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_movies",
			Help:      "Number of movies in the loaded catalog",
		},
	)

	CatalogGenres = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_genres",
			Help:      "Size of the loaded genre vocabulary",
		},
	)

	CatalogLoadDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_load_duration_seconds",
			Help:      "Time taken by the most recent catalog load",
		},
	)

	// Classifier Metrics
	ClassifierRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_requests_total",
			Help:      "Requests sent to the external genre classifier",
		},
		[]string{"status"}, // "success", "error", "rate_limited"
	)

	ClassifierDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classifier_duration_seconds",
			Help:      "Latency of external genre classifier calls",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	ClassifierCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_cache_hits_total",
			Help:      "Classifier lookups answered from the response cache",
		},
	)

	ClassifierCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_cache_misses_total",
			Help:      "Classifier lookups that required a remote call",
		},
	)

	ClassifierCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "classifier_cache_entries",
			Help:      "Live entries in the classifier response cache after the last sweep",
		},
	)

	ClassifierUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "classifier_up",
			Help:      "Whether the last classifier health probe succeeded (1) or failed (0)",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_requests_total",
			Help:      "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_consecutive_failures",
			Help:      "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state_transitions_total",
			Help:      "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one pass through the matching pipeline.
// reason is empty for ranked outcomes.
func RecordRecommendation(outcome, reason string, duration time.Duration) {
	if reason == "" {
		reason = "none"
	}
	RecommendationsTotal.WithLabelValues(outcome, reason).Inc()
	RecommendationDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// SetCatalogStats publishes the size of a freshly loaded catalog.
func SetCatalogStats(movies, genres int, loadDuration time.Duration) {
	CatalogMovies.Set(float64(movies))
	CatalogGenres.Set(float64(genres))
	CatalogLoadDuration.Set(loadDuration.Seconds())
}

// RecordClassifierRequest records an external classifier call.
func RecordClassifierRequest(status string, duration time.Duration) {
	ClassifierRequests.WithLabelValues(status).Inc()
	if duration > 0 {
		ClassifierDuration.Observe(duration.Seconds())
	}
}

// SetClassifierUp records the result of a classifier health probe.
func SetClassifierUp(up bool) {
	if up {
		ClassifierUp.Set(1)
		return
	}
	ClassifierUp.Set(0)
}
