// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package supervisor runs the long-lived parts of the server under a suture
// v4 supervision tree. Lifecycle events are logged through sutureslog using
// the zerolog-backed slog handler from internal/logging.
//
// Usage:
//
//	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
//	tree.AddClassifierService(services.NewClassifierProbeService(extractor, time.Minute))
//	tree.AddAPIService(services.NewHTTPServerService(server.Addr, server, cfg.Server.ShutdownTimeout))
//	errCh := tree.ServeBackground(ctx)
package supervisor
