// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package logging provides centralized zerolog-based logging for Marquee.

# Quick Start

	logging.Init(logging.Config{Level: "info", Format: "json"})

	logging.Info().Int("movies", cat.Len()).Msg("catalog loaded")
	logging.Error().Err(err).Msg("classifier request failed")

	// Request-scoped logging picks up request_id and correlation_id
	logging.Ctx(ctx).Info().Str("outcome", "ranked").Msg("recommendation served")

# Configuration

Configuration is read by internal/config and passed to Init:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json, console (default: json)
  - LOG_CALLER: include caller file:line (default: false)

Set MARQUEE_QUIET_LOGS=1 to silence everything below fatal before Init runs
(useful for benchmarks and fuzzing).

# slog Interoperability

Libraries that take a *slog.Logger (the suture supervisor event hook) are given
NewSlogLogger, which forwards every record to the global zerolog logger.

# Field Names

Field names are fixed for log pipelines: time, level, message, error, caller,
plus request_id, correlation_id and component where applicable.
*/
package logging
