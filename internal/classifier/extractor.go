// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package classifier

import (
	"context"

	"github.com/tomtom215/marquee/internal/config"
)

// DefaultThreshold is the confidence a label must exceed to be predicted.
const DefaultThreshold = 0.4

// GenreExtractor turns a free-text description into genre labels by
// thresholding zero-shot scores over a fixed candidate set.
type GenreExtractor struct {
	classifier Classifier
	labels     []string
	threshold  float64

	// Set by New for status reporting.
	model   string
	breaker *BreakerClient
}

// Diagnosis is the full classifier output for one text.
type Diagnosis struct {
	Text      string   `json:"text"`
	Scores    Scores   `json:"scores"`
	Genres    []string `json:"genres"`
	Threshold float64  `json:"threshold"`
}

// NewGenreExtractor uses labels as candidates (the 16 default genres when
// empty) and keeps labels scoring strictly above threshold.
func NewGenreExtractor(c Classifier, labels []string, threshold float64) *GenreExtractor {
	if len(labels) == 0 {
		labels = config.DefaultGenreLabels
	}
	return &GenreExtractor{
		classifier: c,
		labels:     append([]string(nil), labels...),
		threshold:  threshold,
	}
}

// Labels returns the candidate genres.
func (g *GenreExtractor) Labels() []string {
	return append([]string(nil), g.labels...)
}

// Threshold returns the exclusive confidence cut-off.
func (g *GenreExtractor) Threshold() float64 { return g.threshold }

// PredictGenres returns the confident genres for text, best first.
func (g *GenreExtractor) PredictGenres(ctx context.Context, text string) ([]string, error) {
	scores, err := g.classifier.Classify(ctx, text, g.labels)
	if err != nil {
		return nil, err
	}
	return scores.Above(g.threshold), nil
}

// Diagnose returns every score alongside the thresholded genres.
func (g *GenreExtractor) Diagnose(ctx context.Context, text string) (*Diagnosis, error) {
	scores, err := g.classifier.Classify(ctx, text, g.labels)
	if err != nil {
		return nil, err
	}
	return &Diagnosis{
		Text:      text,
		Scores:    scores,
		Genres:    scores.Above(g.threshold),
		Threshold: g.threshold,
	}, nil
}

// Model returns the remote model name, if known.
func (g *GenreExtractor) Model() string { return g.model }

// BreakerState returns the circuit breaker state, or "" without a breaker.
func (g *GenreExtractor) BreakerState() string {
	if g.breaker == nil {
		return ""
	}
	return g.breaker.State()
}

// Ping checks the underlying classifier.
func (g *GenreExtractor) Ping(ctx context.Context) error {
	return g.classifier.Ping(ctx)
}
