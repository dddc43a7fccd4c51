// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
// The first existing file is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/marquee/config.yaml",
	"/etc/marquee/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	labels := make([]string, len(DefaultGenreLabels))
	copy(labels, DefaultGenreLabels)

	return &Config{
		Server: ServerConfig{
			Port:            8642,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Catalog: CatalogConfig{
			Path:   "/data/catalog.json",
			Format: "auto",
		},
		Recommend: RecommendConfig{
			DefaultTopK:    5,
			MaxTopK:        50,
			StrictDefault:  true,
			RequestTimeout: 15 * time.Second,
		},
		Classifier: ClassifierConfig{
			Enabled:             false,
			Model:               "facebook/bart-large-mnli",
			Threshold:           0.4,
			Labels:              labels,
			MultiLabel:          true,
			Timeout:             10 * time.Second,
			CacheSize:           1000,
			CacheTTL:            30 * time.Minute,
			RateLimit:           5,
			RateBurst:           10,
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      30 * time.Second,
			BreakerMinRequests:  5,
			BreakerFailureRatio: 0.6,
			ProbeInterval:       time.Minute,
		},
	}
}

// LoadWithKoanf loads configuration in three layers:
//
//  1. struct defaults
//  2. YAML config file (CONFIG_PATH or DefaultConfigPaths)
//  3. environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := FindConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// FindConfigFile returns the YAML file Load would read, or "" when none
// exists.
func FindConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are keys whose env values are comma-separated lists.
var sliceConfigPaths = []string{
	"server.cors_origins",
	"classifier.labels",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_reqs",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Catalog
	"catalog_path":   "catalog.path",
	"catalog_format": "catalog.format",

	// Recommend
	"recommend_default_top_k":   "recommend.default_top_k",
	"recommend_max_top_k":       "recommend.max_top_k",
	"recommend_strict":          "recommend.strict_default",
	"recommend_seed":            "recommend.seed",
	"recommend_request_timeout": "recommend.request_timeout",

	// Classifier
	"classifier_enabled":               "classifier.enabled",
	"classifier_url":                   "classifier.url",
	"classifier_model":                 "classifier.model",
	"classifier_token":                 "classifier.token",
	"classifier_threshold":             "classifier.threshold",
	"classifier_labels":                "classifier.labels",
	"classifier_multi_label":           "classifier.multi_label",
	"classifier_timeout":               "classifier.timeout",
	"classifier_cache_size":            "classifier.cache_size",
	"classifier_cache_ttl":             "classifier.cache_ttl",
	"classifier_rate_limit":            "classifier.rate_limit",
	"classifier_rate_burst":            "classifier.rate_burst",
	"classifier_breaker_max_requests":  "classifier.breaker_max_requests",
	"classifier_breaker_interval":      "classifier.breaker_interval",
	"classifier_breaker_timeout":       "classifier.breaker_timeout",
	"classifier_breaker_min_requests":  "classifier.breaker_min_requests",
	"classifier_breaker_failure_ratio": "classifier.breaker_failure_ratio",
	"classifier_probe_interval":        "classifier.probe_interval",
}

// envTransformFunc converts an environment variable name to a koanf path.
// Returning "" tells koanf to skip the variable.
func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}

// WatchConfigFile invokes callback whenever the config file changes.
// The catalog is not reloaded; callers use this to warn that a restart is
// needed for changes to take effect.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)
	return provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
