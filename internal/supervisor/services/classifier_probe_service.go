// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
)

// Pinger checks a remote dependency. *classifier.GenreExtractor satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ClassifierProbeService pings the genre classifier on an interval and
// publishes the result as the marquee_classifier_up gauge. Probes run through
// the circuit breaker, so a successful probe also helps close it.
type ClassifierProbeService struct {
	target   Pinger
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
	name     string

	up bool
}

// NewClassifierProbeService probes target every interval (one minute when
// non-positive). Each probe gets at most half the interval.
func NewClassifierProbeService(target Pinger, interval time.Duration) *ClassifierProbeService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ClassifierProbeService{
		target:   target,
		interval: interval,
		timeout:  interval / 2,
		logger:   logging.WithComponent("classifier-probe"),
		name:     "classifier-probe",
		up:       true,
	}
}

// Serve implements suture.Service. It probes once at start, then on every tick.
func (s *ClassifierProbeService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("classifier probe starting")

	s.probe(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("classifier probe stopping")
			return ctx.Err()
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

func (s *ClassifierProbeService) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.target.Ping(probeCtx)
	if ctx.Err() != nil {
		return
	}

	up := err == nil
	metrics.SetClassifierUp(up)

	switch {
	case up && !s.up:
		s.logger.Info().Msg("classifier reachable again")
	case !up && s.up:
		s.logger.Warn().Err(err).Msg("classifier unreachable, text requests will fall back to random picks")
	case !up:
		s.logger.Debug().Err(err).Msg("classifier still unreachable")
	}
	s.up = up
}

// String implements fmt.Stringer for suture's logs.
func (s *ClassifierProbeService) String() string {
	return s.name
}
