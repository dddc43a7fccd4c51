// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import "errors"

// Error codes returned in models.APIError.Code.
const (
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeBadRequest            = "BAD_REQUEST"
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeMethodNotAllowed      = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimited           = "RATE_LIMIT_EXCEEDED"
	ErrCodeClassifierDisabled    = "CLASSIFIER_DISABLED"
	ErrCodeClassifierUnavailable = "CLASSIFIER_UNAVAILABLE"
	ErrCodeInternal              = "INTERNAL_ERROR"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// ErrEmptyBody is returned when a JSON endpoint receives no body.
var ErrEmptyBody = errors.New("request body is empty")
