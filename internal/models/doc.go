// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package models defines the wire types of the Marquee HTTP API.

Every endpoint answers with an APIResponse envelope. Successful responses
carry a payload in Data; failures carry an APIError with a stable code.

Request bodies carry go-playground/validator tags and are checked with
internal/validation before they reach the matching engine:

	var req models.RecommendationRequest
	if verr := validation.ValidateStruct(&req); verr != nil {
	    // 400 VALIDATION_ERROR
	}

Payloads:

  - RecommendationRequest / RecommendationResponse: genre or free-text
    recommendations with the typed outcome and fallback reason
  - GenresResponse: catalog vocabulary with per-genre movie counts
  - ClassifyRequest / ClassifyResponse: raw classifier diagnostics
  - HealthResponse: catalog size and classifier status
*/
package models
