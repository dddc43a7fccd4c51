// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the envelope returned by every HTTP endpoint.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"outcome": "ranked", "titles": ["Alien (1979)"]},
//	  "metadata": {
//	    "timestamp": "2026-01-12T12:00:00Z",
//	    "query_time_ms": 3,
//	    "request_id": "6f1c..."
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "top_k must be at most 50",
//	    "details": {"field": "top_k"}
//	  },
//	  "metadata": {"timestamp": "2026-01-12T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing and tracing details.
//
// QueryTimeMS is the time spent in the matching engine or classifier, not
// the whole request.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is a machine-readable error.
//
// Codes used by the API:
//   - VALIDATION_ERROR: request body or query failed validation
//   - BAD_REQUEST: body could not be decoded
//   - NOT_FOUND: unknown route
//   - METHOD_NOT_ALLOWED: wrong verb for a known route
//   - RATE_LIMIT_EXCEEDED: too many requests from this client
//   - CLASSIFIER_DISABLED: free-text features are switched off
//   - CLASSIFIER_UNAVAILABLE: the inference service failed
//   - INTERNAL_ERROR: unexpected failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
