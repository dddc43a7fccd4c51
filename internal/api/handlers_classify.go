// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/marquee/internal/classifier"
	"github.com/tomtom215/marquee/internal/models"
)

// Classify returns the raw classifier scores for a piece of text
//
// @Summary Diagnose genre extraction
// @Description Shows every candidate genre score and which genres cleared the threshold.
// @Tags Classifier
// @Accept json
// @Produce json
// @Param request body models.ClassifyRequest true "Text to classify"
// @Success 200 {object} models.APIResponse{data=models.ClassifyResponse}
// @Failure 400 {object} models.APIResponse "Invalid request"
// @Failure 429 {object} models.APIResponse "Classifier rate limited"
// @Failure 503 {object} models.APIResponse "Classifier disabled or unavailable"
// @Router /classify [post]
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.classifier == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeClassifierDisabled, "Genre classifier is not enabled", nil)
		return
	}

	var req models.ClassifyRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body: "+err.Error(), err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	diag, err := h.classifier.Diagnose(ctx, req.Text)
	if err != nil {
		if errors.Is(err, classifier.ErrRateLimited) {
			w.Header().Set("Retry-After", "1")
			respondError(w, r, http.StatusTooManyRequests, ErrCodeRateLimited, "Classifier is rate limited, retry shortly", err)
			return
		}
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeClassifierUnavailable, "Genre classifier is unavailable", err)
		return
	}

	scores := make([]models.LabelScore, len(diag.Scores))
	for i, s := range diag.Scores {
		scores[i] = models.LabelScore{Label: s.Label, Score: s.Score}
	}

	respondSuccess(w, r, &models.ClassifyResponse{
		Text:      diag.Text,
		Scores:    scores,
		Genres:    nonNil(diag.Genres),
		Threshold: diag.Threshold,
		Model:     h.classifier.Model(),
	}, time.Since(start))
}
