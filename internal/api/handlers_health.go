// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/marquee/internal/models"
)

// Health status values.
const (
	HealthHealthy   = "healthy"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"
)

// Health returns the service health status
//
// @Summary Get service health status
// @Description Reports catalog size, classifier state and request counters. Status is degraded while the classifier circuit is open and unhealthy when the catalog is empty.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthResponse}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cat := h.engine.Catalog()
	stats := h.engine.Stats()

	health := &models.HealthResponse{
		Status:  HealthHealthy,
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
		Catalog: models.CatalogHealth{
			Movies: cat.Len(),
			Genres: cat.Dim(),
		},
		Requests:  stats.Requests,
		Fallbacks: stats.Fallbacks,
		Failures:  stats.Failures,
	}

	if h.classifier != nil {
		health.Classifier = models.ClassifierHealth{
			Enabled: true,
			Model:   h.classifier.Model(),
			Breaker: h.classifier.BreakerState(),
		}
		if health.Classifier.Breaker == "open" {
			health.Status = HealthDegraded
		}
	}

	if cat.Len() == 0 {
		health.Status = HealthUnhealthy
	}

	if h.perf != nil {
		for _, s := range h.perf.Stats() {
			health.Latency = append(health.Latency, models.EndpointLatency{
				Endpoint: s.Endpoint,
				Requests: s.Requests,
				Errors:   s.Errors,
				P50MS:    s.P50MS,
				P95MS:    s.P95MS,
				P99MS:    s.P99MS,
			})
		}
	}

	respondSuccess(w, r, health, time.Since(start))
}

// HealthLive is the liveness probe
//
// @Summary Liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, 0)
}

// HealthReady is the readiness probe. The service is ready once a
// non-empty catalog is loaded; the classifier is optional.
//
// @Summary Readiness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse "Catalog empty"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	movies := h.engine.Catalog().Len()
	if movies == 0 {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeInternal, "Catalog is empty", nil)
		return
	}
	respondSuccess(w, r, map[string]interface{}{
		"ready":  true,
		"movies": movies,
	}, 0)
}
