// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/metrics"
)

// Engine answers recommendation requests against one immutable catalog.
// It is safe for concurrent use and never returns an error to callers:
// every degradation becomes a random fallback recorded on the Result.
type Engine struct {
	catalog *Catalog
	config  Config
	logger  zerolog.Logger

	classifier   GenreClassifier
	classifierMu sync.RWMutex

	requests  atomic.Int64
	ranked    atomic.Int64
	fallbacks atomic.Int64
	failures  atomic.Int64
}

// Stats are running counters since the engine was created.
type Stats struct {
	Requests  int64 `json:"requests"`
	Ranked    int64 `json:"ranked"`
	Fallbacks int64 `json:"fallbacks"`
	Failures  int64 `json:"failures"`
}

// NewEngine creates an engine over cat. A nil cfg uses DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cat *Catalog, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		catalog: cat,
		config:  *cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// SetClassifier installs the classifier used by RecommendText.
func (e *Engine) SetClassifier(c GenreClassifier) {
	e.classifierMu.Lock()
	defer e.classifierMu.Unlock()
	e.classifier = c
}

func (e *Engine) getClassifier() GenreClassifier {
	e.classifierMu.RLock()
	defer e.classifierMu.RUnlock()
	return e.classifier
}

// Catalog returns the catalog the engine serves.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config { return e.config }

// Stats returns a snapshot of the request counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests:  e.requests.Load(),
		Ranked:    e.ranked.Load(),
		Fallbacks: e.fallbacks.Load(),
		Failures:  e.failures.Load(),
	}
}

// params are the resolved knobs of one request.
type params struct {
	requestID string
	topK      int
	strict    bool
	rng       *rand.Rand
	logger    zerolog.Logger
}

func (e *Engine) resolve(requestID string, topK int, strict *bool, seed *int64) params {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	if topK <= 0 {
		topK = e.config.DefaultTopK
	}
	if topK > e.config.MaxTopK {
		topK = e.config.MaxTopK
	}
	p := params{
		requestID: requestID,
		topK:      topK,
		strict:    e.config.StrictDefault,
	}
	if strict != nil {
		p.strict = *strict
	}

	switch {
	case seed != nil:
		p.rng = newSeededRand(*seed)
	case e.config.Seed != 0:
		p.rng = newSeededRand(e.config.Seed)
	default:
		p.rng = newEntropyRand()
	}

	p.logger = e.logger.With().
		Str("request_id", p.requestID).
		Int("top_k", p.topK).
		Bool("strict", p.strict).
		Logger()
	return p
}

// Recommend returns up to TopK titles for the requested genre labels.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (res *Result) {
	start := time.Now()
	p := e.resolve(req.RequestID, req.TopK, req.Strict, req.Seed)
	p.logger.Debug().Strs("genres", req.Genres).Msg("processing recommendation request")

	defer func() { e.finish(res, p, start) }()
	defer e.recoverInto(&res, p)

	return e.match(req.Genres, p)
}

// RecommendText classifies text into genres and then behaves like
// Recommend. Classifier failures degrade to a random fallback.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) RecommendText(ctx context.Context, req TextRequest) (res *Result) {
	start := time.Now()
	p := e.resolve(req.RequestID, req.TopK, req.Strict, req.Seed)
	p.logger.Debug().Int("text_len", len(req.Text)).Msg("processing text recommendation request")

	defer func() { e.finish(res, p, start) }()
	defer e.recoverInto(&res, p)

	if e.catalog.Len() == 0 {
		return e.failed(p)
	}

	labels, err := e.classify(ctx, req.Text)
	if err != nil {
		res = e.fallback(p, ReasonClassifierError, err)
		res.PredictedGenres = []string{}
		return res
	}

	res = e.match(labels, p)
	res.PredictedGenres = labels
	return res
}

func (e *Engine) classify(ctx context.Context, text string) ([]string, error) {
	c := e.getClassifier()
	if c == nil {
		return nil, errors.New("no genre classifier configured")
	}
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	if e.config.ClassifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.ClassifyTimeout)
		defer cancel()
	}

	labels, err := c.PredictGenres(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("predict genres: %w", err)
	}
	if labels == nil {
		labels = []string{}
	}
	return labels, nil
}

// match runs query, filter and rank for labels.
func (e *Engine) match(labels []string, p params) *Result {
	if e.catalog.Len() == 0 {
		return e.failed(p)
	}

	query, err := BuildQuery(labels, e.catalog)
	if len(query.Unknown) > 0 {
		metrics.UnrecognizedGenres.Add(float64(len(query.Unknown)))
		p.logger.Debug().Strs("unknown", query.Unknown).Msg("dropping genres outside the vocabulary")
	}
	if errors.Is(err, ErrNoRecognizedGenres) {
		reason := ReasonNoGenres
		if len(query.Unknown) > 0 {
			reason = ReasonUnrecognizedGenres
		}
		res := e.fallback(p, reason, err)
		res.KnownGenres = query.Known
		res.UnknownGenres = query.Unknown
		return res
	}

	filtered := FilterCandidates(e.catalog, query.Known, p.strict)
	if filtered.Relaxed {
		metrics.CandidateFilterRelaxed.Inc()
		p.logger.Info().Strs("genres", query.Known).Msg("strict genre filter matched nothing, ranking the full catalog")
	}

	ranking, err := Rank(query.Vector, e.catalog, filtered.Indices, p.topK, p.rng)
	if err != nil {
		reason := ReasonInternalError
		if errors.Is(err, ErrEmptyCandidateSet) {
			reason = ReasonEmptyCandidates
		}
		res := e.fallback(p, reason, err)
		res.KnownGenres = query.Known
		res.UnknownGenres = query.Unknown
		res.FilterRelaxed = filtered.Relaxed
		return res
	}

	res := e.newResult(p, OutcomeRanked)
	res.Candidates = ranking.Candidates
	res.KnownGenres = query.Known
	res.UnknownGenres = query.Unknown
	res.FilterRelaxed = filtered.Relaxed
	res.Randomized = ranking.Randomized
	if ranking.Randomized {
		metrics.RankingRandomized.Inc()
		res.Message = MessageNoStandout
	}
	return res
}

func (e *Engine) newResult(p params, outcome Outcome) *Result {
	return &Result{
		RequestID:     p.requestID,
		Outcome:       outcome,
		Candidates:    []RankedCandidate{},
		KnownGenres:   []string{},
		UnknownGenres: []string{},
		TopK:          p.topK,
		Strict:        p.strict,
	}
}

// fallback samples TopK titles uniformly from the whole catalog.
func (e *Engine) fallback(p params, reason FallbackReason, cause error) *Result {
	if e.catalog.Len() == 0 {
		return e.failed(p)
	}

	res := e.newResult(p, OutcomeFallbackRandom)
	res.Reason = reason
	res.Message = MessageFallback
	res.Err = cause

	rows := sample(allRows(e.catalog.Len()), min(p.topK, e.catalog.Len()), p.rng)
	res.Candidates = make([]RankedCandidate, len(rows))
	for i, row := range rows {
		res.Candidates[i] = RankedCandidate{
			Row:     row,
			MovieID: e.catalog.entries[row].MovieID,
			Title:   e.catalog.entries[row].Title,
		}
	}
	return res
}

func (e *Engine) failed(p params) *Result {
	res := e.newResult(p, OutcomeFailed)
	res.Reason = ReasonEmptyCatalog
	res.Message = MessageEmptyCatalog
	res.Err = ErrEmptyCatalog
	return res
}

// recoverInto turns a panic anywhere in the pipeline into a fallback.
func (e *Engine) recoverInto(res **Result, p params) {
	r := recover()
	if r == nil {
		return
	}
	p.logger.Error().Interface("panic", r).Msg("recovered from panic in recommendation pipeline")
	err := &ComputationError{Op: "recommend", Err: fmt.Errorf("panic: %v", r)}
	*res = e.fallback(p, ReasonInternalError, err)
}

// finish records counters, metrics and the summary log line.
func (e *Engine) finish(res *Result, p params, start time.Time) {
	elapsed := time.Since(start)
	res.LatencyMS = elapsed.Milliseconds()

	e.requests.Add(1)
	switch res.Outcome {
	case OutcomeRanked:
		e.ranked.Add(1)
	case OutcomeFallbackRandom:
		e.fallbacks.Add(1)
	case OutcomeFailed:
		e.failures.Add(1)
	}
	metrics.RecordRecommendation(string(res.Outcome), string(res.Reason), elapsed)

	var event *zerolog.Event
	switch res.Outcome {
	case OutcomeRanked:
		event = p.logger.Debug()
	case OutcomeFallbackRandom:
		event = p.logger.Warn().Err(res.Err).Str("reason", string(res.Reason))
	default:
		event = p.logger.Error().Err(res.Err)
	}
	event.
		Str("outcome", string(res.Outcome)).
		Int("returned", len(res.Candidates)).
		Bool("filter_relaxed", res.FilterRelaxed).
		Bool("randomized", res.Randomized).
		Int64("latency_ms", res.LatencyMS).
		Msg("recommendation complete")
}
