// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/classifier"
	"github.com/tomtom215/marquee/internal/middleware"
	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/recommend"
)

var testVocabulary = []string{"Comedy", "Drama", "Horror", "Mystery", "Thriller"}

func oneHot(labels ...string) []float64 {
	row := make([]float64, len(testVocabulary))
	for _, l := range labels {
		for i, v := range testVocabulary {
			if v == l {
				row[i] = 1
			}
		}
	}
	return row
}

func newTestCatalog(t *testing.T) *recommend.Catalog {
	t.Helper()
	cat, err := recommend.NewCatalog(testVocabulary, []recommend.Entry{
		{MovieID: "1", Title: "The Shining (1980)", Year: 1980, Membership: oneHot("Horror", "Thriller")},
		{MovieID: "2", Title: "Se7en (1995)", Year: 1995, Membership: oneHot("Mystery", "Thriller")},
		{MovieID: "3", Title: "Airplane! (1980)", Year: 1980, Membership: oneHot("Comedy")},
		{MovieID: "4", Title: "Hereditary (2018)", Year: 2018, Membership: oneHot("Drama", "Horror", "Mystery")},
		{MovieID: "5", Title: "Clue (1985)", Year: 1985, Membership: oneHot("Comedy", "Mystery")},
	})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return cat
}

func newTestEngine(t *testing.T, cat *recommend.Catalog) *recommend.Engine {
	t.Helper()
	cfg := recommend.DefaultConfig()
	cfg.MaxTopK = 10
	e, err := recommend.NewEngine(cat, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

// fakeDiagnoser implements GenreDiagnoser and recommend.GenreClassifier.
type fakeDiagnoser struct {
	mu      sync.Mutex
	scores  classifier.Scores
	err     error
	breaker string
}

func (f *fakeDiagnoser) Diagnose(_ context.Context, text string) (*classifier.Diagnosis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &classifier.Diagnosis{
		Text:      text,
		Scores:    f.scores,
		Genres:    f.scores.Above(classifier.DefaultThreshold),
		Threshold: classifier.DefaultThreshold,
	}, nil
}

func (f *fakeDiagnoser) PredictGenres(ctx context.Context, text string) ([]string, error) {
	d, err := f.Diagnose(ctx, text)
	if err != nil {
		return nil, err
	}
	return d.Genres, nil
}

func (f *fakeDiagnoser) Model() string { return "test-model" }

func (f *fakeDiagnoser) BreakerState() string {
	if f.breaker == "" {
		return "closed"
	}
	return f.breaker
}

type testServer struct {
	handler http.Handler
	engine  *recommend.Engine
}

func newTestServer(t *testing.T, cat *recommend.Catalog, diag *fakeDiagnoser) *testServer {
	t.Helper()
	if cat == nil {
		cat = newTestCatalog(t)
	}
	engine := newTestEngine(t, cat)

	opts := HandlerOptions{
		Version:        "test",
		RequestTimeout: 5 * time.Second,
		Performance:    middleware.NewPerformanceMonitor(100, time.Second),
	}
	if diag != nil {
		engine.SetClassifier(diag)
		opts.Classifier = diag
	}

	mc := DefaultChiMiddlewareConfig()
	mc.RateLimitDisabled = true
	router := NewRouter(NewHandler(engine, opts), NewChiMiddleware(mc))
	return &testServer{handler: router.SetupChi(), engine: engine}
}

func (s *testServer) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// decodeEnvelope decodes the response envelope, re-decoding Data into data
// when non-nil.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) models.APIResponse {
	t.Helper()
	var raw struct {
		models.APIResponse
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	if data != nil && len(raw.Data) > 0 && string(raw.Data) != "null" {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("decode data %s: %v", raw.Data, err)
		}
	}
	return raw.APIResponse
}

func intPtr(i int) *int      { return &i }
func boolPtr(b bool) *bool   { return &b }
func seedPtr(s int64) *int64 { return &s }

func newRequest(method, target string, body *strings.Reader) *http.Request {
	r := httptest.NewRequest(method, target, body)
	r.Header.Set("Content-Type", "application/json")
	return r
}

func serve(s *testServer, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, r)
	return rec
}
