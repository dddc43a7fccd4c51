// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package classifier

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
)

// BreakerName labels the classifier circuit breaker in metrics.
const BreakerName = "classifier"

// BreakerClient wraps a Classifier with a circuit breaker so that an outage
// of the inference service costs one fast failure per request instead of a
// full timeout. The engine turns those failures into random fallbacks.
//
// Caller cancellations do not count as failures.
type BreakerClient struct {
	next Classifier
	cb   *gobreaker.CircuitBreaker[Scores]
	name string
}

// NewBreakerClient wraps next using the breaker settings in cfg:
//   - BreakerMaxRequests probes allowed while half-open
//   - BreakerInterval for the closed-state counting window
//   - BreakerTimeout spent open before probing again
//   - trips once BreakerMinRequests were seen and the failure ratio reaches
//     BreakerFailureRatio
func NewBreakerClient(next Classifier, cfg *config.ClassifierConfig) *BreakerClient {
	name := BreakerName
	minRequests := cfg.BreakerMinRequests
	ratio := cfg.BreakerFailureRatio
	if ratio <= 0 {
		ratio = 0.6
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[Scores](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio < ratio {
				return false
			}
			logging.Warn().
				Uint32("failures", counts.TotalFailures).
				Float64("failure_rate", failureRatio*100).
				Msg("[CIRCUIT BREAKER] Opening classifier circuit")
			return true
		},

		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerClient{next: next, cb: cb, name: name}
}

// Classify runs next.Classify through the breaker.
func (b *BreakerClient) Classify(ctx context.Context, text string, labels []string) (Scores, error) {
	return b.execute(func() (Scores, error) {
		return b.next.Classify(ctx, text, labels)
	})
}

// Ping runs next.Ping through the breaker, so probes also help close it.
func (b *BreakerClient) Ping(ctx context.Context) error {
	_, err := b.execute(func() (Scores, error) {
		return nil, b.next.Ping(ctx)
	})
	return err
}

// State returns "closed", "half-open" or "open".
func (b *BreakerClient) State() string {
	return stateToString(b.cb.State())
}

func (b *BreakerClient) execute(fn func() (Scores, error)) (Scores, error) {
	start := time.Now()
	result, err := b.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Debug().Err(err).Msg("[CIRCUIT BREAKER] Classifier request rejected")
			return nil, errors.Join(ErrUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	logging.Debug().Dur("elapsed", time.Since(start)).Msg("[CIRCUIT BREAKER] Classifier request passed")
	return result, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
