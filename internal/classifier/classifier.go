// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package classifier

import (
	"context"
	"errors"
	"sort"

	"github.com/tomtom215/marquee/internal/config"
)

var (
	// ErrUnavailable means the service answered but could not classify,
	// typically a 503 while the model loads.
	ErrUnavailable = errors.New("classifier unavailable")

	// ErrRateLimited means the request was refused by a local or remote
	// rate limit.
	ErrRateLimited = errors.New("classifier rate limited")

	// ErrBadResponse means the reply could not be understood.
	ErrBadResponse = errors.New("classifier returned an invalid response")

	// ErrDisabled is returned by New when classification is switched off.
	ErrDisabled = errors.New("classifier disabled")
)

// LabelScore is the confidence for one candidate label.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Scores are per-label confidences, highest first.
type Scores []LabelScore

// Above returns the labels scoring strictly greater than threshold, in
// score order.
func (s Scores) Above(threshold float64) []string {
	labels := make([]string, 0, len(s))
	for _, ls := range s {
		if ls.Score > threshold {
			labels = append(labels, ls.Label)
		}
	}
	return labels
}

func (s Scores) clone() Scores {
	return append(Scores(nil), s...)
}

// sortScores orders by score descending, then label for stable output.
func sortScores(s Scores) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}
		return s[i].Label < s[j].Label
	})
}

// Classifier scores text against candidate labels.
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string) (Scores, error)

	// Ping checks that the service is reachable and answering.
	Ping(ctx context.Context) error
}

// New builds the full client stack (HTTP, breaker, cache, extractor) from
// cfg. It returns ErrDisabled when cfg.Enabled is false.
func New(cfg *config.ClassifierConfig) (*GenreExtractor, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	httpClient, err := NewHTTPClient(cfg)
	if err != nil {
		return nil, err
	}

	breaker := NewBreakerClient(httpClient, cfg)
	var c Classifier = breaker
	if cfg.CacheSize > 0 {
		c = NewCachedClient(c, cfg.CacheSize, cfg.CacheTTL)
	}

	ext := NewGenreExtractor(c, cfg.Labels, cfg.Threshold)
	ext.model = httpClient.Model()
	ext.breaker = breaker
	return ext, nil
}
