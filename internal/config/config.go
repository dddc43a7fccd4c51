// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import "time"

// Config holds all application configuration.
//
// Configuration Categories:
//
//  1. Data:
//     - Catalog: location and encoding of the trained genre catalog artifact
//
//  2. Matching:
//     - Recommend: request defaults and limits for the matching engine
//     - Classifier: the external zero-shot text-to-genre service
//
//  3. Infrastructure:
//     - Server: HTTP listener, CORS and rate limiting
//     - Logging: log level and output format
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Classifier ClassifierConfig `koanf:"classifier"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins lists allowed origins. "*" allows any origin.
	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration, passed to logging.Init.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json (production) or console (development).
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// CatalogConfig locates the trained genre catalog artifact.
type CatalogConfig struct {
	// Path is a JSON artifact file or a badger artifact directory.
	Path string `koanf:"path"`

	// Format is auto, json or badger. auto picks badger for directories.
	Format string `koanf:"format"`
}

// RecommendConfig holds matching engine request defaults.
type RecommendConfig struct {
	DefaultTopK   int  `koanf:"default_top_k"`
	MaxTopK       int  `koanf:"max_top_k"`
	StrictDefault bool `koanf:"strict_default"`

	// Seed fixes the per-request random source when non-zero. Intended for
	// reproducible demos and tests; leave at 0 in production.
	Seed int64 `koanf:"seed"`

	// RequestTimeout bounds the end-to-end handling of one recommendation
	// request including the classifier call.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// ClassifierConfig configures the external zero-shot genre classifier.
type ClassifierConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
	Model   string `koanf:"model"`
	Token   string `koanf:"token"`

	// Threshold is the minimum (exclusive) confidence for a label to count
	// as a predicted genre.
	Threshold float64 `koanf:"threshold"`

	// Labels is the candidate genre set sent with every request.
	Labels []string `koanf:"labels"`

	// MultiLabel scores each label independently instead of as a softmax
	// over the candidate set.
	MultiLabel bool `koanf:"multi_label"`

	Timeout time.Duration `koanf:"timeout"`

	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`

	// RateLimit is the sustained outbound request rate (per second) and
	// RateBurst the token bucket size. 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`

	// ProbeInterval is how often the supervisor checks classifier health.
	ProbeInterval time.Duration `koanf:"probe_interval"`
}

// DefaultGenreLabels is the candidate label set offered to the classifier.
var DefaultGenreLabels = []string{
	"Action", "Adventure", "Animation", "Comedy", "Crime", "Documentary",
	"Drama", "Fantasy", "History", "Horror", "Mystery", "Romance",
	"Sci-Fi", "Thriller", "War", "Western",
}

// Load loads configuration from defaults, an optional YAML file and the
// environment, in increasing priority.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
