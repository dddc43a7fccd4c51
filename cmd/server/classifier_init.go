// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"errors"

	"github.com/tomtom215/marquee/internal/classifier"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/recommend"
)

// initClassifier builds the genre extractor and installs it on the engine.
// It returns nil when the classifier is disabled or misconfigured; the
// server then answers free-text requests with random fallbacks.
func initClassifier(cfg *config.Config, engine *recommend.Engine) *classifier.GenreExtractor {
	logger := logging.WithComponent("startup")

	extractor, err := classifier.New(&cfg.Classifier)
	if errors.Is(err, classifier.ErrDisabled) {
		logger.Info().Msg("genre classifier disabled; free-text requests fall back to random picks")
		return nil
	}
	if err != nil {
		logger.Error().Err(err).Msg("genre classifier unavailable; free-text requests fall back to random picks")
		return nil
	}

	engine.SetClassifier(extractor)
	logger.Info().
		Str("model", extractor.Model()).
		Int("labels", len(extractor.Labels())).
		Float64("threshold", extractor.Threshold()).
		Msg("genre classifier configured")
	return extractor
}
