// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tomtom215/marquee/internal/logging"
)

const defaultShutdownTimeout = 10 * time.Second

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	Serve(l net.Listener) error
	Shutdown(ctx context.Context) error
}

// HTTPServerService binds addr and serves the API until its context is
// canceled, then drains in-flight requests for up to shutdownTimeout.
// Binding happens inside Serve, so a port conflict is a service failure
// that suture logs and retries with backoff.
//
//	tree.AddAPIService(services.NewHTTPServerService(server.Addr, server, 10*time.Second))
type HTTPServerService struct {
	addr            string
	server          HTTPServer
	shutdownTimeout time.Duration

	bound atomic.Pointer[string]
}

// NewHTTPServerService wraps server. A non-positive shutdownTimeout means 10s.
func NewHTTPServerService(addr string, server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &HTTPServerService{addr: addr, server: server, shutdownTimeout: shutdownTimeout}
}

// Addr returns the bound address, e.g. "127.0.0.1:43117" for ":0", or ""
// while not listening.
func (h *HTTPServerService) Addr() string {
	if p := h.bound.Load(); p != nil {
		return *p
	}
	return ""
}

// Serve implements suture.Service.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", h.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", h.addr, err)
	}

	bound := ln.Addr().String()
	h.bound.Store(&bound)
	defer h.bound.Store(nil)
	logging.Info().Str("addr", bound).Msg("API listening")

	served := make(chan error, 1)
	go func() { served <- h.server.Serve(ln) }()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", bound, err)

	case <-ctx.Done():
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()
	if err := h.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("drain %s: %w", bound, err)
	}
	<-served
	logging.Info().Str("addr", bound).Msg("API stopped")
	return ctx.Err()
}

func (h *HTTPServerService) String() string { return "http-server" }
