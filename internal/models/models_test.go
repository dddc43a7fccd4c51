// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

// marshalKeys returns the top-level keys of v's JSON object.
func marshalKeys(t *testing.T, v interface{}) map[string]json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		t.Fatalf("Unmarshal(%s) error = %v", data, err)
	}
	return keys
}

func TestAPIResponse_ErrorOmittedOnSuccess(t *testing.T) {
	t.Parallel()

	keys := marshalKeys(t, APIResponse{
		Status:   StatusSuccess,
		Data:     GenresResponse{Genres: []GenreInfo{{Genre: "Horror", Movies: 3}}, Movies: 3},
		Metadata: Metadata{Timestamp: time.Unix(0, 0).UTC(), RequestID: "abc"},
	})
	if _, ok := keys["error"]; ok {
		t.Error("success envelope should not carry an error key")
	}
	for _, k := range []string{"status", "data", "metadata"} {
		if _, ok := keys[k]; !ok {
			t.Errorf("missing key %q", k)
		}
	}
}

func TestAPIResponse_ErrorEnvelope(t *testing.T) {
	t.Parallel()

	keys := marshalKeys(t, APIResponse{
		Status: StatusError,
		Error: &APIError{
			Code:    "VALIDATION_ERROR",
			Message: "top_k must be at least 1",
			Details: map[string]interface{}{"field": "top_k"},
		},
	})
	if got := string(keys["data"]); got != "null" {
		t.Errorf("data = %s, want null", got)
	}
	if !strings.Contains(string(keys["error"]), `"field":"top_k"`) {
		t.Errorf("error = %s", keys["error"])
	}
}

func TestRecommendationResponse_StableKeys(t *testing.T) {
	t.Parallel()

	keys := marshalKeys(t, RecommendationResponse{
		Outcome:       "ranked",
		Titles:        []string{},
		Items:         []RecommendationItem{},
		KnownGenres:   []string{},
		UnknownGenres: []string{},
		TopK:          5,
		Strict:        true,
	})
	for _, k := range []string{"titles", "items", "known_genres", "unknown_genres", "filter_relaxed", "randomized"} {
		if _, ok := keys[k]; !ok {
			t.Errorf("missing key %q", k)
		}
	}
	for _, k := range []string{"reason", "message", "predicted_genres"} {
		if _, ok := keys[k]; ok {
			t.Errorf("empty %q should be omitted", k)
		}
	}
	if got := string(keys["titles"]); got != "[]" {
		t.Errorf("titles = %s, want []", got)
	}
}

func TestRecommendationRequest_Decode(t *testing.T) {
	t.Parallel()

	var req RecommendationRequest
	if err := json.Unmarshal([]byte(`{"genres":["Horror"],"top_k":3,"strict":false,"seed":42}`), &req); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(req.Genres) != 1 || req.TopK == nil || *req.TopK != 3 {
		t.Errorf("request = %+v", req)
	}
	if req.Strict == nil || *req.Strict {
		t.Error("strict=false should decode to a non-nil false")
	}
	if req.Seed == nil || *req.Seed != 42 {
		t.Errorf("seed = %v", req.Seed)
	}
}
