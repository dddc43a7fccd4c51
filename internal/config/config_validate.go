// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/marquee/internal/logging"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	return c.validateClassifier()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive when rate limiting is enabled, got %d", c.Server.RateLimitReqs)
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled, got %s", c.Server.RateLimitWindow)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	switch c.Catalog.Format {
	case "auto", "json", "badger":
	default:
		return fmt.Errorf("CATALOG_FORMAT must be auto, json or badger, got %q", c.Catalog.Format)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.MaxTopK < 1 {
		return fmt.Errorf("RECOMMEND_MAX_TOP_K must be at least 1, got %d", c.Recommend.MaxTopK)
	}
	if c.Recommend.DefaultTopK < 1 || c.Recommend.DefaultTopK > c.Recommend.MaxTopK {
		return fmt.Errorf("RECOMMEND_DEFAULT_TOP_K must be between 1 and %d, got %d",
			c.Recommend.MaxTopK, c.Recommend.DefaultTopK)
	}
	if c.Recommend.RequestTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_REQUEST_TIMEOUT must be positive, got %s", c.Recommend.RequestTimeout)
	}
	return nil
}

// validateClassifier only checks classifier settings when it is enabled.
func (c *Config) validateClassifier() error {
	if !c.Classifier.Enabled {
		return nil
	}
	if c.Classifier.URL == "" {
		return fmt.Errorf("CLASSIFIER_URL is required when CLASSIFIER_ENABLED=true")
	}
	if err := validateHTTPURL(c.Classifier.URL, "CLASSIFIER_URL"); err != nil {
		return fmt.Errorf("CLASSIFIER_URL is invalid: %w", err)
	}
	if c.Classifier.Threshold < 0 || c.Classifier.Threshold >= 1 {
		return fmt.Errorf("CLASSIFIER_THRESHOLD must be in [0, 1), got %g", c.Classifier.Threshold)
	}
	if len(c.Classifier.Labels) == 0 {
		return fmt.Errorf("CLASSIFIER_LABELS must list at least one genre")
	}
	seen := make(map[string]struct{}, len(c.Classifier.Labels))
	for _, label := range c.Classifier.Labels {
		if _, dup := seen[label]; dup {
			return fmt.Errorf("CLASSIFIER_LABELS contains duplicate label %q", label)
		}
		seen[label] = struct{}{}
	}
	if c.Classifier.Timeout <= 0 {
		return fmt.Errorf("CLASSIFIER_TIMEOUT must be positive, got %s", c.Classifier.Timeout)
	}
	if c.Classifier.RateLimit < 0 {
		return fmt.Errorf("CLASSIFIER_RATE_LIMIT must not be negative, got %g", c.Classifier.RateLimit)
	}
	if c.Classifier.BreakerFailureRatio <= 0 || c.Classifier.BreakerFailureRatio > 1 {
		return fmt.Errorf("CLASSIFIER_BREAKER_FAILURE_RATIO must be in (0, 1], got %g", c.Classifier.BreakerFailureRatio)
	}
	return nil
}

// validateHTTPURL requires an absolute http(s) URL with a host. Unlike a
// base URL, the classifier endpoint may carry a path (model route).
func validateHTTPURL(rawURL, fieldName string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsed.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsed.RawQuery)
	}
	return nil
}
