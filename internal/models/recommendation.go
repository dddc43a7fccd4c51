// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package models

// RecommendationRequest is the body of POST /api/v1/recommendations.
// Exactly one of Genres or Thought must be set.
type RecommendationRequest struct {
	Genres  []string `json:"genres,omitempty" validate:"required_without=Thought,excluded_with=Thought,omitempty,min=1,max=32,dive,genre_label"`
	Thought string   `json:"thought,omitempty" validate:"required_without=Genres,omitempty,notblank,max=1000"`
	TopK    *int     `json:"top_k,omitempty" validate:"omitempty,min=1"`
	Strict  *bool    `json:"strict,omitempty"`
	Seed    *int64   `json:"seed,omitempty"`
}

// RecommendationItem is one recommended movie.
type RecommendationItem struct {
	MovieID string   `json:"movie_id"`
	Title   string   `json:"title"`
	Score   float64  `json:"score"`
	Year    int      `json:"year,omitempty"`
	Genres  []string `json:"genres,omitempty"`
}

// RecommendationResponse is the data payload for a recommendation.
//
// Titles is always present (possibly empty); clients that only need the
// ordered list can ignore Items.
type RecommendationResponse struct {
	Outcome         string               `json:"outcome"`
	Reason          string               `json:"reason,omitempty"`
	Message         string               `json:"message,omitempty"`
	Titles          []string             `json:"titles"`
	Items           []RecommendationItem `json:"items"`
	KnownGenres     []string             `json:"known_genres"`
	UnknownGenres   []string             `json:"unknown_genres"`
	PredictedGenres []string             `json:"predicted_genres,omitempty"`
	TopK            int                  `json:"top_k"`
	Strict          bool                 `json:"strict"`
	FilterRelaxed   bool                 `json:"filter_relaxed"`
	Randomized      bool                 `json:"randomized"`
}

// GenreInfo describes one vocabulary genre.
type GenreInfo struct {
	Genre  string `json:"genre"`
	Movies int    `json:"movies"`
}

// GenresResponse lists the catalog vocabulary in column order.
type GenresResponse struct {
	Genres []GenreInfo `json:"genres"`
	Movies int         `json:"movies"`
}

// ClassifyRequest is the body of POST /api/v1/classify.
type ClassifyRequest struct {
	Text string `json:"text" validate:"required,notblank,max=1000"`
}

// LabelScore is one classifier confidence.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ClassifyResponse shows every classifier score alongside the genres that
// cleared the threshold.
type ClassifyResponse struct {
	Text      string       `json:"text"`
	Scores    []LabelScore `json:"scores"`
	Genres    []string     `json:"genres"`
	Threshold float64      `json:"threshold"`
	Model     string       `json:"model,omitempty"`
}

// HealthResponse reports service readiness.
type HealthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version,omitempty"`
	Uptime     float64           `json:"uptime_seconds"`
	Catalog    CatalogHealth     `json:"catalog"`
	Classifier ClassifierHealth  `json:"classifier"`
	Requests   int64             `json:"requests"`
	Fallbacks  int64             `json:"fallbacks"`
	Failures   int64             `json:"failures"`
	Latency    []EndpointLatency `json:"latency,omitempty"`
}

// EndpointLatency is recent latency for one route.
type EndpointLatency struct {
	Endpoint string  `json:"endpoint"`
	Requests int     `json:"requests"`
	Errors   int     `json:"errors"`
	P50MS    float64 `json:"p50_ms"`
	P95MS    float64 `json:"p95_ms"`
	P99MS    float64 `json:"p99_ms"`
}

// CatalogHealth summarizes the loaded catalog.
type CatalogHealth struct {
	Movies int `json:"movies"`
	Genres int `json:"genres"`
}

// ClassifierHealth summarizes the genre classifier.
type ClassifierHealth struct {
	Enabled bool   `json:"enabled"`
	Model   string `json:"model,omitempty"`
	Breaker string `json:"breaker,omitempty"`
}
