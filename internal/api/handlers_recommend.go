// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/recommend"
)

// RecommendPost handles recommendation requests with a JSON body
//
// @Summary Recommend movies
// @Description Returns up to top_k titles for a list of genres or a free-text thought. Degraded requests still succeed with outcome fallback_random.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body models.RecommendationRequest true "Genres or thought"
// @Success 200 {object} models.APIResponse{data=models.RecommendationResponse}
// @Failure 400 {object} models.APIResponse "Invalid request"
// @Router /recommendations [post]
func (h *Handler) RecommendPost(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body: "+err.Error(), err)
		return
	}
	h.recommend(w, r, &req)
}

// RecommendGet handles the query-string form of a recommendation request
//
// @Summary Recommend movies (query form)
// @Tags Recommendations
// @Produce json
// @Param genres query string true "Comma-separated genres"
// @Param k query int false "Number of titles (alias top_k)"
// @Param strict query bool false "Require at least one shared genre"
// @Param seed query int false "Seed for reproducible random choices"
// @Success 200 {object} models.APIResponse{data=models.RecommendationResponse}
// @Failure 400 {object} models.APIResponse "Invalid request"
// @Router /recommendations [get]
func (h *Handler) RecommendGet(w http.ResponseWriter, r *http.Request) {
	req := models.RecommendationRequest{
		Genres: parseCommaSeparated(r.URL.Query().Get("genres")),
	}

	topK, key, err := optionalInt(r, "k", "top_k")
	if err != nil {
		respondAPIError(w, r, http.StatusBadRequest, fieldError(key, key+" must be an integer", r.URL.Query().Get(key)), nil)
		return
	}
	req.TopK = topK

	if req.Strict, err = optionalBool(r, "strict"); err != nil {
		respondAPIError(w, r, http.StatusBadRequest, fieldError("strict", "strict must be true or false", r.URL.Query().Get("strict")), nil)
		return
	}
	if req.Seed, err = optionalInt64(r, "seed"); err != nil {
		respondAPIError(w, r, http.StatusBadRequest, fieldError("seed", "seed must be an integer", r.URL.Query().Get("seed")), nil)
		return
	}

	h.recommend(w, r, &req)
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request, req *models.RecommendationRequest) {
	start := time.Now()

	if apiErr := validateRequest(req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	topK := 0
	if req.TopK != nil {
		topK = *req.TopK
		if limit := h.engine.Config().MaxTopK; topK > limit {
			respondAPIError(w, r, http.StatusBadRequest,
				fieldError("top_k", fmt.Sprintf("top_k must be at most %d", limit), topK), nil)
			return
		}
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	requestID := logging.RequestIDFromContext(ctx)

	var res *recommend.Result
	if req.Thought != "" {
		res = h.engine.RecommendText(ctx, recommend.TextRequest{
			RequestID: requestID,
			Text:      req.Thought,
			TopK:      topK,
			Strict:    req.Strict,
			Seed:      req.Seed,
		})
	} else {
		res = h.engine.Recommend(ctx, recommend.Request{
			RequestID: requestID,
			Genres:    req.Genres,
			TopK:      topK,
			Strict:    req.Strict,
			Seed:      req.Seed,
		})
	}

	if res.Err != nil && !errors.Is(res.Err, recommend.ErrNoRecognizedGenres) {
		logging.CtxWarn(ctx).
			Str("outcome", string(res.Outcome)).
			Str("reason", string(res.Reason)).
			Err(res.Err).
			Msg("Recommendation degraded")
	}

	respondSuccess(w, r, h.toResponse(res), time.Since(start))
}

// toResponse flattens an engine result into the API payload, enriching each
// candidate with catalog metadata.
func (h *Handler) toResponse(res *recommend.Result) *models.RecommendationResponse {
	cat := h.engine.Catalog()

	items := make([]models.RecommendationItem, len(res.Candidates))
	for i, c := range res.Candidates {
		entry := cat.Entry(c.Row)
		items[i] = models.RecommendationItem{
			MovieID: c.MovieID,
			Title:   c.Title,
			Score:   c.Score,
			Year:    entry.Year,
			Genres:  entry.Genres,
		}
	}

	return &models.RecommendationResponse{
		Outcome:         string(res.Outcome),
		Reason:          string(res.Reason),
		Message:         res.Message,
		Titles:          res.Titles(),
		Items:           items,
		KnownGenres:     nonNil(res.KnownGenres),
		UnknownGenres:   nonNil(res.UnknownGenres),
		PredictedGenres: res.PredictedGenres,
		TopK:            res.TopK,
		Strict:          res.Strict,
		FilterRelaxed:   res.FilterRelaxed,
		Randomized:      res.Randomized,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Genres lists the catalog vocabulary
//
// @Summary List genres
// @Description Returns every catalog genre in column order with the number of movies carrying it.
// @Tags Recommendations
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.GenresResponse}
// @Router /genres [get]
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cat := h.engine.Catalog()

	counts := cat.GenreCounts()
	genres := make([]models.GenreInfo, len(counts))
	for i, gc := range counts {
		genres[i] = models.GenreInfo{Genre: gc.Genre, Movies: gc.Movies}
	}

	// The catalog never changes while the process runs.
	w.Header().Set("Cache-Control", "public, max-age=60")
	respondSuccess(w, r, &models.GenresResponse{Genres: genres, Movies: cat.Len()}, time.Since(start))
}
