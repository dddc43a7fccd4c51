// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package metrics provides Prometheus instrumentation for Marquee.

All collectors are registered with the default registry through promauto and
exposed at /metrics by the API router:

	curl http://localhost:8642/metrics

# Available Metrics

API:
  - marquee_api_requests_total{method,endpoint,status_code}
  - marquee_api_request_duration_seconds{method,endpoint}
  - marquee_api_active_requests
  - marquee_api_rate_limit_hits_total{endpoint}

Matching engine:
  - marquee_recommendations_total{outcome,reason}
  - marquee_recommendation_duration_seconds{outcome}
  - marquee_candidate_filter_relaxed_total
  - marquee_ranking_randomized_total
  - marquee_unrecognized_genres_total

Catalog:
  - marquee_catalog_movies, marquee_catalog_genres
  - marquee_catalog_load_duration_seconds

Classifier:
  - marquee_classifier_requests_total{status}
  - marquee_classifier_duration_seconds
  - marquee_classifier_cache_hits_total, marquee_classifier_cache_misses_total
  - marquee_classifier_cache_entries
  - marquee_classifier_up
  - marquee_circuit_breaker_* {name}

A rising marquee_recommendations_total{outcome="fallback_random"} with
reason="classifier_error" usually means the classifier is down; check
marquee_classifier_up and marquee_circuit_breaker_state.
*/
package metrics
