// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package api provides the HTTP interface of the recommendation service.

Routes (all under /api/v1 except /metrics):

	POST /recommendations   genres or free-text thought in a JSON body
	GET  /recommendations   ?genres=Horror,Thriller&k=3&strict=true&seed=7
	GET  /genres            catalog vocabulary with movie counts
	POST /classify          raw classifier scores (503 when disabled)
	GET  /health            catalog, classifier and latency summary
	GET  /health/live       liveness probe
	GET  /health/ready      readiness probe, 503 on an empty catalog
	GET  /metrics           Prometheus exposition

Every JSON response uses the models.APIResponse envelope:

	{"status":"success","data":{...},"metadata":{"timestamp":"...","request_id":"..."}}
	{"status":"error","error":{"code":"VALIDATION_ERROR","message":"..."},"metadata":{...}}

A recommendation that degrades (unknown genres, classifier outage, empty
candidate set) is still a 200 with outcome "fallback_random". Only malformed
requests produce 4xx responses.

Middleware order: request id, real IP, access log, panic recovery, CORS,
compression, then per-group security headers, Prometheus metrics, latency
tracking and the httprate limiter.
*/
package api
