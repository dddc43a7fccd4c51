// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import "context"

// Outcome is how a request was answered.
type Outcome string

const (
	// OutcomeRanked means results came from similarity ranking.
	OutcomeRanked Outcome = "ranked"

	// OutcomeFallbackRandom means the pipeline degraded and random titles
	// from the whole catalog were returned. Reason says why.
	OutcomeFallbackRandom Outcome = "fallback_random"

	// OutcomeFailed means nothing could be returned (empty catalog).
	OutcomeFailed Outcome = "failed"
)

// FallbackReason explains a non-ranked outcome.
type FallbackReason string

const (
	ReasonNone               FallbackReason = ""
	ReasonNoGenres           FallbackReason = "no_genres"
	ReasonUnrecognizedGenres FallbackReason = "unrecognized_genres"
	ReasonClassifierError    FallbackReason = "classifier_error"
	ReasonEmptyCandidates    FallbackReason = "empty_candidates"
	ReasonInternalError      FallbackReason = "internal_error"
	ReasonEmptyCatalog       FallbackReason = "empty_catalog"
)

// User-facing messages. Ranked results with signal carry none.
const (
	MessageFallback     = "We couldn't understand your request, so here are some picks from our catalog."
	MessageNoStandout   = "Nothing stood out for those genres, so here are some equally good matches."
	MessageEmptyCatalog = "No movies are available right now."
)

// GenreClassifier turns free text into genre labels. Labels it returns need
// not be in the catalog vocabulary.
type GenreClassifier interface {
	PredictGenres(ctx context.Context, text string) ([]string, error)
}

// Request asks for recommendations from genre labels.
type Request struct {
	// RequestID is generated when empty.
	RequestID string

	Genres []string

	// TopK of 0 uses the configured default; larger than the configured
	// maximum is clamped.
	TopK int

	// Strict nil uses the configured default.
	Strict *bool

	// Seed makes random choices reproducible.
	Seed *int64
}

// TextRequest asks for recommendations from a free-text description.
type TextRequest struct {
	RequestID string
	Text      string
	TopK      int
	Strict    *bool
	Seed      *int64
}

// Result is the engine's answer. It is always non-nil.
type Result struct {
	RequestID string         `json:"request_id"`
	Outcome   Outcome        `json:"outcome"`
	Reason    FallbackReason `json:"reason,omitempty"`
	Message   string         `json:"message,omitempty"`

	// Candidates are the chosen movies in presentation order. Scores are
	// zero for random fallbacks.
	Candidates []RankedCandidate `json:"candidates"`

	PredictedGenres []string `json:"predicted_genres,omitempty"`
	KnownGenres     []string `json:"known_genres"`
	UnknownGenres   []string `json:"unknown_genres"`

	TopK          int  `json:"top_k"`
	Strict        bool `json:"strict"`
	FilterRelaxed bool `json:"filter_relaxed"`
	Randomized    bool `json:"randomized"`

	LatencyMS int64 `json:"latency_ms"`

	// Err is the internal cause of a fallback or failure. It is logged
	// and never shown to end users.
	Err error `json:"-"`
}

// Titles returns the titles of Candidates in order.
func (r *Result) Titles() []string {
	titles := make([]string, len(r.Candidates))
	for i, c := range r.Candidates {
		titles[i] = c.Title
	}
	return titles
}
