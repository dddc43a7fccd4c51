// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package classifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
)

// maxErrorBody bounds how much of an error response is kept for messages.
const maxErrorBody = 512

// HTTPClient calls a zero-shot classification endpoint.
//
// Outbound calls go through a token bucket so a burst of user traffic cannot
// exhaust a hosted inference quota. Responses with 429 or 503 are retried
// with exponential backoff, honoring Retry-After and the estimated_time hint
// the inference API sends while a model is loading.
type HTTPClient struct {
	url        string
	token      string
	model      string
	multiLabel bool
	pingLabels []string

	client  *http.Client
	limiter *rate.Limiter

	maxRetries     int
	retryBaseDelay time.Duration
	maxRetryDelay  time.Duration
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

type inferenceResponse struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

type inferenceError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// NewHTTPClient creates a client for cfg.URL.
func NewHTTPClient(cfg *config.ClassifierConfig) (*HTTPClient, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid classifier url %q", cfg.URL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	pingLabels := []string{"test"}
	if len(cfg.Labels) > 0 {
		pingLabels = cfg.Labels[:1]
	}

	return &HTTPClient{
		url:            cfg.URL,
		token:          cfg.Token,
		model:          cfg.Model,
		multiLabel:     cfg.MultiLabel,
		pingLabels:     append([]string(nil), pingLabels...),
		client:         &http.Client{Timeout: timeout},
		limiter:        rate.NewLimiter(limit, burst),
		maxRetries:     2,
		retryBaseDelay: 500 * time.Millisecond,
		maxRetryDelay:  10 * time.Second,
	}, nil
}

// Model returns the configured model name.
func (c *HTTPClient) Model() string { return c.model }

// Classify scores text against labels.
func (c *HTTPClient) Classify(ctx context.Context, text string, labels []string) (Scores, error) {
	if len(labels) == 0 {
		return Scores{}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordClassifierRequest("rate_limited", 0)
		return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	body, err := json.Marshal(inferenceRequest{
		Inputs: text,
		Parameters: inferenceParameters{
			CandidateLabels: labels,
			MultiLabel:      c.multiLabel,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode classifier request: %w", err)
	}

	start := time.Now()
	scores, err := c.doWithRetry(ctx, body, labels)
	elapsed := time.Since(start)

	if err != nil {
		status := "error"
		if errors.Is(err, ErrRateLimited) {
			status = "rate_limited"
		}
		metrics.RecordClassifierRequest(status, elapsed)
		logging.CtxWarn(ctx).Err(err).Dur("elapsed", elapsed).Msg("classifier request failed")
		return nil, err
	}

	metrics.RecordClassifierRequest("success", elapsed)
	logging.Ctx(ctx).Debug().
		Int("labels", len(labels)).
		Dur("elapsed", elapsed).
		Msg("classifier request complete")
	return scores, nil
}

// Ping sends a one-label classification.
func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.Classify(ctx, "health check", c.pingLabels)
	return err
}

func (c *HTTPClient) doWithRetry(ctx context.Context, body []byte, labels []string) (Scores, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		scores, retryAfter, err := c.do(ctx, body, labels)
		if err == nil {
			return scores, nil
		}
		lastErr = err

		retryable := errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable)
		if !retryable || attempt == c.maxRetries {
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter > 0 {
			delay = retryAfter
		}
		if delay > c.maxRetryDelay {
			delay = c.maxRetryDelay
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// do performs one request. retryAfter is the server's backoff hint, if any.
func (c *HTTPClient) do(ctx context.Context, body []byte, labels []string) (Scores, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("create classifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read classifier response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		scores, err := decodeScores(raw, labels)
		return scores, 0, err
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, retryAfter(resp.Header, nil), fmt.Errorf("%w: HTTP 429", ErrRateLimited)
	case resp.StatusCode == http.StatusServiceUnavailable:
		var ie inferenceError
		_ = json.Unmarshal(raw, &ie)
		return nil, retryAfter(resp.Header, &ie), fmt.Errorf("%w: HTTP 503: %s", ErrUnavailable, errorText(raw, &ie))
	default:
		var ie inferenceError
		_ = json.Unmarshal(raw, &ie)
		return nil, 0, fmt.Errorf("classifier returned HTTP %d: %s", resp.StatusCode, errorText(raw, &ie))
	}
}

func retryAfter(h http.Header, ie *inferenceError) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	if ie != nil && ie.EstimatedTime > 0 {
		return time.Duration(ie.EstimatedTime * float64(time.Second))
	}
	return 0
}

func errorText(raw []byte, ie *inferenceError) string {
	if ie.Error != "" {
		return ie.Error
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}

// decodeScores accepts the object form {"labels":[...],"scores":[...]} and
// the list form [{"label":...,"score":...}]. Labels not in the request are
// rejected; requested labels missing from the reply are dropped.
func decodeScores(raw []byte, requested []string) (Scores, error) {
	var scores Scores

	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &scores); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
	default:
		var resp inferenceResponse
		if err := json.Unmarshal(trimmed, &resp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
		if len(resp.Labels) != len(resp.Scores) {
			return nil, fmt.Errorf("%w: %d labels but %d scores", ErrBadResponse, len(resp.Labels), len(resp.Scores))
		}
		scores = make(Scores, len(resp.Labels))
		for i := range resp.Labels {
			scores[i] = LabelScore{Label: resp.Labels[i], Score: resp.Scores[i]}
		}
	}

	allowed := make(map[string]bool, len(requested))
	for _, l := range requested {
		allowed[l] = true
	}
	for _, ls := range scores {
		if !allowed[ls.Label] {
			return nil, fmt.Errorf("%w: unexpected label %q", ErrBadResponse, ls.Label)
		}
		if math.IsNaN(ls.Score) || ls.Score < 0 || ls.Score > 1 {
			return nil, fmt.Errorf("%w: score %v for %q outside [0,1]", ErrBadResponse, ls.Score, ls.Label)
		}
	}

	sortScores(scores)
	return scores, nil
}
