// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"fmt"
	"time"
)

// Config controls request defaults for the Engine.
type Config struct {
	// DefaultTopK is used when a request leaves top_k unset.
	DefaultTopK int `json:"default_top_k"`

	// MaxTopK caps any requested top_k.
	MaxTopK int `json:"max_top_k"`

	// StrictDefault is the strict genre matching policy when a request
	// does not choose one.
	StrictDefault bool `json:"strict_default"`

	// Seed, if nonzero, seeds every request that does not carry its own
	// seed. Zero means each request draws fresh entropy.
	Seed int64 `json:"seed"`

	// ClassifyTimeout bounds the classifier call made by RecommendText.
	ClassifyTimeout time.Duration `json:"classify_timeout"`
}

// DefaultConfig returns the stock engine settings.
func DefaultConfig() *Config {
	return &Config{
		DefaultTopK:     5,
		MaxTopK:         50,
		StrictDefault:   true,
		ClassifyTimeout: 15 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DefaultTopK < 1 {
		return fmt.Errorf("default_top_k must be positive, got %d", c.DefaultTopK)
	}
	if c.MaxTopK < c.DefaultTopK {
		return fmt.Errorf("max_top_k must be >= default_top_k, got %d < %d", c.MaxTopK, c.DefaultTopK)
	}
	if c.ClassifyTimeout < 0 {
		return fmt.Errorf("classify_timeout must not be negative, got %v", c.ClassifyTimeout)
	}
	return nil
}
