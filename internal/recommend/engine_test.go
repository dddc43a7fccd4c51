// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockClassifier implements GenreClassifier for testing.
type mockClassifier struct {
	labels []string
	err    error
	panics bool
	block  bool

	mu    sync.Mutex
	calls int
}

func (m *mockClassifier) PredictGenres(ctx context.Context, text string) ([]string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.panics {
		panic("classifier exploded")
	}
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.labels, m.err
}

func newTestEngine(t *testing.T, cfg *Config) *Engine {
	t.Helper()
	e, err := NewEngine(newTestCatalog(t), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func boolPtr(b bool) *bool { return &b }
func seedPtr(s int64) *int64 { return &s }

func TestNewEngine(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(nil, nil, zerolog.Nop()); err == nil {
		t.Error("NewEngine(nil catalog) should fail")
	}

	_, err := NewEngine(newTestCatalog(t), &Config{DefaultTopK: 0, MaxTopK: 5}, zerolog.Nop())
	if err == nil {
		t.Error("NewEngine() with invalid config should fail")
	}

	e := newTestEngine(t, nil)
	if got := e.Config().DefaultTopK; got != 5 {
		t.Errorf("default top_k = %d, want 5", got)
	}
}

// Scenario A: a well-understood request ranks titles sharing the genres.
func TestEngine_Recommend_Ranked(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	res := e.Recommend(context.Background(), Request{
		Genres: []string{"Horror", "Thriller", "Mystery"},
		TopK:   3,
		Strict: boolPtr(true),
	})

	if res.Outcome != OutcomeRanked {
		t.Fatalf("Outcome = %s, want ranked (err %v)", res.Outcome, res.Err)
	}
	if res.Reason != ReasonNone || res.Message != "" {
		t.Errorf("ranked result carries reason %q / message %q", res.Reason, res.Message)
	}
	if len(res.Candidates) != 3 {
		t.Fatalf("len = %d, want 3", len(res.Candidates))
	}
	if res.Titles()[0] != "The Others (2001)" {
		t.Errorf("first title = %q, want The Others (2001)", res.Titles()[0])
	}

	known := []string{"Horror", "Thriller", "Mystery"}
	for _, c := range res.Candidates {
		shares := false
		for _, label := range known {
			axis, _ := e.Catalog().GenreIndex(label)
			shares = shares || e.Catalog().HasGenre(c.Row, axis)
		}
		if !shares {
			t.Errorf("%s shares none of %v", c.Title, known)
		}
	}
	if res.RequestID == "" {
		t.Error("RequestID not generated")
	}
}

// Scenario B: an entirely unknown genre degrades to random picks.
func TestEngine_Recommend_UnknownGenres(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	res := e.Recommend(context.Background(), Request{Genres: []string{"Zorblatt"}, TopK: 4})

	if res.Outcome != OutcomeFallbackRandom {
		t.Fatalf("Outcome = %s, want fallback_random", res.Outcome)
	}
	if res.Reason != ReasonUnrecognizedGenres {
		t.Errorf("Reason = %s, want unrecognized_genres", res.Reason)
	}
	if res.Message != MessageFallback {
		t.Errorf("Message = %q", res.Message)
	}
	if len(res.Candidates) != 4 {
		t.Errorf("len = %d, want 4", len(res.Candidates))
	}
	if len(res.UnknownGenres) != 1 || res.UnknownGenres[0] != "Zorblatt" {
		t.Errorf("UnknownGenres = %v", res.UnknownGenres)
	}
	if !errors.Is(res.Err, ErrNoRecognizedGenres) {
		t.Errorf("Err = %v, want ErrNoRecognizedGenres", res.Err)
	}
	assertDistinctRows(t, res)
}

// Scenario C: strict matching with no matching rows relaxes and, with no
// signal left, samples at random.
func TestEngine_Recommend_RelaxedAndRandomized(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	res := e.Recommend(context.Background(), Request{Genres: []string{"Western"}, TopK: 3, Strict: boolPtr(true)})

	if res.Outcome != OutcomeRanked {
		t.Fatalf("Outcome = %s, want ranked", res.Outcome)
	}
	if !res.FilterRelaxed {
		t.Error("FilterRelaxed = false")
	}
	if !res.Randomized {
		t.Error("Randomized = false")
	}
	if res.Message != MessageNoStandout {
		t.Errorf("Message = %q, want %q", res.Message, MessageNoStandout)
	}
	if len(res.Candidates) != 3 {
		t.Errorf("len = %d, want 3", len(res.Candidates))
	}
	assertDistinctRows(t, res)
}

func TestEngine_Recommend_NoGenres(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	res := e.Recommend(context.Background(), Request{Genres: []string{" ", ""}, TopK: 2})

	if res.Outcome != OutcomeFallbackRandom || res.Reason != ReasonNoGenres {
		t.Errorf("got %s/%s, want fallback_random/no_genres", res.Outcome, res.Reason)
	}
	if len(res.Candidates) != 2 {
		t.Errorf("len = %d, want 2", len(res.Candidates))
	}
}

func TestEngine_Recommend_TopKDefaultsAndCap(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &Config{DefaultTopK: 2, MaxTopK: 3, StrictDefault: false})

	res := e.Recommend(context.Background(), Request{Genres: []string{"Comedy"}})
	if res.TopK != 2 || len(res.Candidates) != 2 {
		t.Errorf("default: TopK=%d len=%d, want 2/2", res.TopK, len(res.Candidates))
	}
	if res.Strict {
		t.Error("Strict should follow StrictDefault=false")
	}

	res = e.Recommend(context.Background(), Request{Genres: []string{"Comedy"}, TopK: 100})
	if res.TopK != 3 || len(res.Candidates) != 3 {
		t.Errorf("capped: TopK=%d len=%d, want 3/3", res.TopK, len(res.Candidates))
	}
}

func TestEngine_Recommend_TopKBeyondCatalog(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	res := e.Recommend(context.Background(), Request{Genres: []string{"Zorblatt"}, TopK: 50})
	if len(res.Candidates) != e.Catalog().Len() {
		t.Errorf("len = %d, want whole catalog (%d)", len(res.Candidates), e.Catalog().Len())
	}
	assertDistinctRows(t, res)
}

func TestEngine_Recommend_SeedReproducible(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	req := Request{Genres: []string{"Zorblatt"}, TopK: 5, Seed: seedPtr(1234)}

	first := e.Recommend(context.Background(), req)
	second := e.Recommend(context.Background(), req)
	if fmt.Sprint(first.Titles()) != fmt.Sprint(second.Titles()) {
		t.Errorf("seeded results differ: %v vs %v", first.Titles(), second.Titles())
	}
}

func TestEngine_Recommend_EmptyCatalog(t *testing.T) {
	t.Parallel()

	cat, err := NewCatalog([]string{"Horror"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	e, err := NewEngine(cat, nil, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	for _, res := range []*Result{
		e.Recommend(context.Background(), Request{Genres: []string{"Horror"}}),
		e.Recommend(context.Background(), Request{Genres: []string{"Zorblatt"}}),
		e.RecommendText(context.Background(), TextRequest{Text: "spooky"}),
	} {
		if res.Outcome != OutcomeFailed {
			t.Errorf("Outcome = %s, want failed", res.Outcome)
		}
		if !errors.Is(res.Err, ErrEmptyCatalog) {
			t.Errorf("Err = %v, want ErrEmptyCatalog", res.Err)
		}
		if len(res.Candidates) != 0 {
			t.Errorf("len = %d, want 0", len(res.Candidates))
		}
	}

	if s := e.Stats(); s.Failures != 3 || s.Requests != 3 {
		t.Errorf("Stats() = %+v, want 3 failures", s)
	}
}

func TestEngine_RecommendText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		classifier  *mockClassifier
		text        string
		wantOutcome Outcome
		wantReason  FallbackReason
		wantGenres  []string
	}{
		{
			name:        "classified genres are ranked",
			classifier:  &mockClassifier{labels: []string{"Horror", "Thriller"}},
			text:        "something that keeps me up at night",
			wantOutcome: OutcomeRanked,
			wantGenres:  []string{"Horror", "Thriller"},
		},
		{
			name:        "classifier returns nothing",
			classifier:  &mockClassifier{labels: nil},
			text:        "hmm",
			wantOutcome: OutcomeFallbackRandom,
			wantReason:  ReasonNoGenres,
			wantGenres:  []string{},
		},
		{
			name:        "classifier labels outside vocabulary",
			classifier:  &mockClassifier{labels: []string{"Documentary"}},
			text:        "real stories",
			wantOutcome: OutcomeFallbackRandom,
			wantReason:  ReasonUnrecognizedGenres,
			wantGenres:  []string{"Documentary"},
		},
		{
			name:        "classifier error",
			classifier:  &mockClassifier{err: errors.New("503 model loading")},
			text:        "a cozy night in",
			wantOutcome: OutcomeFallbackRandom,
			wantReason:  ReasonClassifierError,
			wantGenres:  []string{},
		},
		{
			name:        "classifier panic",
			classifier:  &mockClassifier{panics: true},
			text:        "anything",
			wantOutcome: OutcomeFallbackRandom,
			wantReason:  ReasonInternalError,
		},
		{
			name:        "blank text skips the classifier",
			classifier:  &mockClassifier{labels: []string{"Horror"}},
			text:        "   ",
			wantOutcome: OutcomeFallbackRandom,
			wantReason:  ReasonNoGenres,
			wantGenres:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newTestEngine(t, nil)
			e.SetClassifier(tt.classifier)

			res := e.RecommendText(context.Background(), TextRequest{Text: tt.text, TopK: 3})
			if res.Outcome != tt.wantOutcome {
				t.Fatalf("Outcome = %s, want %s (err %v)", res.Outcome, tt.wantOutcome, res.Err)
			}
			if res.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", res.Reason, tt.wantReason)
			}
			if len(res.Candidates) != 3 {
				t.Errorf("len = %d, want 3", len(res.Candidates))
			}
			if tt.wantGenres != nil && fmt.Sprint(res.PredictedGenres) != fmt.Sprint(tt.wantGenres) {
				t.Errorf("PredictedGenres = %v, want %v", res.PredictedGenres, tt.wantGenres)
			}
		})
	}
}

func TestEngine_RecommendText_NoClassifier(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	res := e.RecommendText(context.Background(), TextRequest{Text: "scary", TopK: 2})
	if res.Outcome != OutcomeFallbackRandom || res.Reason != ReasonClassifierError {
		t.Errorf("got %s/%s, want fallback_random/classifier_error", res.Outcome, res.Reason)
	}
}

func TestEngine_RecommendText_Timeout(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.ClassifyTimeout = 20 * time.Millisecond
	e := newTestEngine(t, cfg)
	e.SetClassifier(&mockClassifier{block: true})

	start := time.Now()
	res := e.RecommendText(context.Background(), TextRequest{Text: "slow", TopK: 2})
	if time.Since(start) > 2*time.Second {
		t.Fatal("classifier timeout not applied")
	}
	if res.Reason != ReasonClassifierError || !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Errorf("got %s / %v, want classifier_error wrapping DeadlineExceeded", res.Reason, res.Err)
	}
}

func TestEngine_ConcurrentRequests(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	e.SetClassifier(&mockClassifier{labels: []string{"Comedy"}})

	const workers = 32
	var wg sync.WaitGroup
	results := make([]*Result, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				results[i] = e.Recommend(context.Background(), Request{Genres: []string{"Western"}, TopK: 3})
			} else {
				// Only two rows are comedies, so relax the filter to fill top_k.
				results[i] = e.RecommendText(context.Background(), TextRequest{Text: "funny", TopK: 3, Strict: boolPtr(false)})
			}
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		if res == nil || len(res.Candidates) != 3 {
			t.Errorf("worker %d got %+v", i, res)
			continue
		}
		assertDistinctRows(t, res)
	}
	if got := e.Stats().Requests; got != workers {
		t.Errorf("Stats().Requests = %d, want %d", got, workers)
	}
}

func assertDistinctRows(t *testing.T, res *Result) {
	t.Helper()
	seen := make(map[int]bool)
	for _, c := range res.Candidates {
		if seen[c.Row] {
			t.Errorf("row %d returned twice", c.Row)
		}
		seen[c.Row] = true
	}
}
