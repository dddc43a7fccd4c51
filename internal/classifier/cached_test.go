// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package classifier

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCachedClient_HitsOnNormalizedText(t *testing.T) {
	t.Parallel()

	fake := &fakeClassifier{scores: Scores{{Label: "Horror", Score: 0.8}}}
	c := NewCachedClient(fake, 10, time.Minute)
	labels := []string{"Horror", "Comedy"}

	first, err := c.Classify(context.Background(), "A  scary movie", labels)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	second, err := c.Classify(context.Background(), "a scary MOVIE ", []string{"Comedy", "Horror"})
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if fake.callCount() != 1 {
		t.Errorf("next called %d times, want 1", fake.callCount())
	}
	if second[0] != first[0] {
		t.Errorf("cached scores = %+v, want %+v", second, first)
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 {
		t.Errorf("Stats() = %+v, want 1 hit 1 miss", st)
	}
}

func TestCachedClient_ReturnsCopies(t *testing.T) {
	t.Parallel()

	fake := &fakeClassifier{scores: Scores{{Label: "Horror", Score: 0.8}}}
	c := NewCachedClient(fake, 10, time.Minute)

	got, _ := c.Classify(context.Background(), "x", []string{"Horror"})
	got[0].Score = 0

	again, _ := c.Classify(context.Background(), "x", []string{"Horror"})
	if again[0].Score != 0.8 {
		t.Errorf("cached entry mutated through returned slice: %+v", again)
	}
}

func TestCachedClient_DifferentLabelsMiss(t *testing.T) {
	t.Parallel()

	fake := &fakeClassifier{scores: Scores{}}
	c := NewCachedClient(fake, 10, time.Minute)

	_, _ = c.Classify(context.Background(), "x", []string{"Horror"})
	_, _ = c.Classify(context.Background(), "x", []string{"Horror", "Comedy"})

	if fake.callCount() != 2 {
		t.Errorf("next called %d times, want 2", fake.callCount())
	}
}

func TestCachedClient_ErrorsNotCached(t *testing.T) {
	t.Parallel()

	fake := &fakeClassifier{err: errors.New("timeout")}
	c := NewCachedClient(fake, 10, time.Minute)

	if _, err := c.Classify(context.Background(), "x", []string{"Horror"}); err == nil {
		t.Fatal("expected error")
	}

	fake.setErr(nil)
	fake.scores = Scores{{Label: "Horror", Score: 0.7}}
	scores, err := c.Classify(context.Background(), "x", []string{"Horror"})
	if err != nil || len(scores) != 1 {
		t.Errorf("Classify() after recovery = %v, %v", scores, err)
	}
	if fake.callCount() != 2 {
		t.Errorf("next called %d times, want 2", fake.callCount())
	}
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	a := cacheKey("Space  Opera", []string{"Sci-Fi", "Action"})
	b := cacheKey("space opera", []string{"Action", "Sci-Fi"})
	c := cacheKey("space opera!", []string{"Action", "Sci-Fi"})

	if a != b {
		t.Error("equivalent inputs produced different keys")
	}
	if a == c {
		t.Error("different text produced the same key")
	}
}

func TestCachedClient_PingSweepsExpired(t *testing.T) {
	t.Parallel()

	fake := &fakeClassifier{scores: Scores{{Label: "Horror", Score: 0.8}}}
	c := NewCachedClient(fake, 10, 20*time.Millisecond)

	if _, err := c.Classify(context.Background(), "haunted house", []string{"Horror"}); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got := c.Stats().Size; got != 1 {
		t.Fatalf("cache size = %d, want 1", got)
	}

	time.Sleep(50 * time.Millisecond)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if got := c.Stats().Size; got != 0 {
		t.Errorf("cache size after ping = %d, want 0", got)
	}
	if removed := c.Sweep(); removed != 0 {
		t.Errorf("second Sweep() removed %d, want 0", removed)
	}
}
