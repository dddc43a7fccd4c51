// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey int

const idsKey ctxKey = iota

// requestIDs are the identifiers attached to every line logged for one
// HTTP request. The request id is echoed to the client in X-Request-ID; the
// correlation id is short and only ever appears in logs.
type requestIDs struct {
	request     string
	correlation string
}

func idsFrom(ctx context.Context) requestIDs {
	ids, _ := ctx.Value(idsKey).(requestIDs)
	return ids
}

// NewCorrelationID returns an 8 character id, short enough to grep for.
func NewCorrelationID() string {
	return uuid.NewString()[:8]
}

// ContextWithRequestID returns a copy of ctx carrying the request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	ids := idsFrom(ctx)
	ids.request = id
	return context.WithValue(ctx, idsKey, ids)
}

// ContextWithCorrelationID returns a copy of ctx carrying the correlation id.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	ids := idsFrom(ctx)
	ids.correlation = id
	return context.WithValue(ctx, idsKey, ids)
}

// RequestIDFromContext returns the request id, or "".
func RequestIDFromContext(ctx context.Context) string {
	return idsFrom(ctx).request
}

// CorrelationIDFromContext returns the correlation id, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return idsFrom(ctx).correlation
}

// Ctx returns the global logger with the ids from ctx attached.
//
//	logging.Ctx(ctx).Info().Int("top_k", k).Msg("serving recommendation")
func Ctx(ctx context.Context) *zerolog.Logger {
	ids := idsFrom(ctx)
	lc := Logger().With()
	if ids.correlation != "" {
		lc = lc.Str("correlation_id", ids.correlation)
	}
	if ids.request != "" {
		lc = lc.Str("request_id", ids.request)
	}
	l := lc.Logger()
	return &l
}

// CtxWarn is Ctx(ctx).Warn().
func CtxWarn(ctx context.Context) *zerolog.Event {
	return Ctx(ctx).Warn()
}

// WithComponent returns a child of the global logger tagged component=name.
func WithComponent(name string) zerolog.Logger {
	return With().Str("component", name).Logger()
}
