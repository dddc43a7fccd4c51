// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package classifier

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/marquee/internal/config"
)

func TestGenreExtractor_PredictGenres(t *testing.T) {
	t.Parallel()

	fake := &fakeClassifier{scores: Scores{
		{Label: "Horror", Score: 0.91},
		{Label: "Thriller", Score: 0.55},
		{Label: "Mystery", Score: 0.4},
		{Label: "Comedy", Score: 0.02},
	}}
	ext := NewGenreExtractor(fake, []string{"Horror", "Thriller", "Mystery", "Comedy"}, DefaultThreshold)

	got, err := ext.PredictGenres(context.Background(), "something creepy")
	if err != nil {
		t.Fatalf("PredictGenres() error = %v", err)
	}
	// 0.4 is not strictly above the threshold.
	if want := []string{"Horror", "Thriller"}; !reflect.DeepEqual(got, want) {
		t.Errorf("PredictGenres() = %v, want %v", got, want)
	}
}

func TestGenreExtractor_NothingConfident(t *testing.T) {
	t.Parallel()

	fake := &fakeClassifier{scores: Scores{{Label: "Drama", Score: 0.1}}}
	ext := NewGenreExtractor(fake, nil, DefaultThreshold)

	got, err := ext.PredictGenres(context.Background(), "hmm")
	if err != nil {
		t.Fatalf("PredictGenres() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("PredictGenres() = %#v, want empty non-nil slice", got)
	}
}

func TestGenreExtractor_DefaultLabels(t *testing.T) {
	t.Parallel()

	ext := NewGenreExtractor(&fakeClassifier{}, nil, DefaultThreshold)
	if !reflect.DeepEqual(ext.Labels(), config.DefaultGenreLabels) {
		t.Errorf("Labels() = %v, want defaults", ext.Labels())
	}

	labels := ext.Labels()
	labels[0] = "Changed"
	if ext.Labels()[0] == "Changed" {
		t.Error("Labels() exposed internal slice")
	}
}

func TestGenreExtractor_Error(t *testing.T) {
	t.Parallel()

	fake := &fakeClassifier{err: ErrUnavailable}
	ext := NewGenreExtractor(fake, nil, DefaultThreshold)

	if _, err := ext.PredictGenres(context.Background(), "x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("PredictGenres() error = %v, want ErrUnavailable", err)
	}
	if _, err := ext.Diagnose(context.Background(), "x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Diagnose() error = %v, want ErrUnavailable", err)
	}
	if err := ext.Ping(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Ping() error = %v, want ErrUnavailable", err)
	}
}

func TestGenreExtractor_Diagnose(t *testing.T) {
	t.Parallel()

	fake := &fakeClassifier{scores: Scores{
		{Label: "Romance", Score: 0.7},
		{Label: "Comedy", Score: 0.3},
	}}
	ext := NewGenreExtractor(fake, []string{"Romance", "Comedy"}, 0.25)

	d, err := ext.Diagnose(context.Background(), "date night")
	if err != nil {
		t.Fatalf("Diagnose() error = %v", err)
	}
	if d.Text != "date night" || d.Threshold != 0.25 || len(d.Scores) != 2 {
		t.Errorf("Diagnose() = %+v", d)
	}
	if want := []string{"Romance", "Comedy"}; !reflect.DeepEqual(d.Genres, want) {
		t.Errorf("Genres = %v, want %v", d.Genres, want)
	}
	if ext.BreakerState() != "" {
		t.Errorf("BreakerState() without breaker = %q", ext.BreakerState())
	}
}
