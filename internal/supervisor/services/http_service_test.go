// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

const loopback = "127.0.0.1:0"

// fakeServer is a test double for HTTPServer.
type fakeServer struct {
	serveErr    error
	shutdownErr error
	started     chan struct{}
	stop        chan struct{}
	shutdowns   atomic.Int32
}

func newFakeServer() *fakeServer {
	return &fakeServer{started: make(chan struct{}, 1), stop: make(chan struct{})}
}

func (f *fakeServer) Serve(l net.Listener) error {
	defer l.Close()
	select {
	case f.started <- struct{}{}:
	default:
	}
	if f.serveErr != nil {
		return f.serveErr
	}
	<-f.stop
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(context.Context) error {
	f.shutdowns.Add(1)
	close(f.stop)
	return f.shutdownErr
}

var _ suture.Service = (*HTTPServerService)(nil)

// serveAsync runs svc.Serve in the background and returns its result channel.
func serveAsync(ctx context.Context, svc *HTTPServerService) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()
	return errCh
}

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	t.Parallel()

	for _, d := range []time.Duration{0, -time.Second} {
		if svc := NewHTTPServerService(loopback, newFakeServer(), d); svc.shutdownTimeout != defaultShutdownTimeout {
			t.Errorf("timeout(%v) = %v, want %v", d, svc.shutdownTimeout, defaultShutdownTimeout)
		}
	}
	svc := NewHTTPServerService(loopback, newFakeServer(), 3*time.Second)
	if svc.shutdownTimeout != 3*time.Second || svc.String() != "http-server" || svc.Addr() != "" {
		t.Errorf("svc = %+v, addr %q", svc, svc.Addr())
	}
}

func TestHTTPServerService_GracefulShutdown(t *testing.T) {
	t.Parallel()

	server := newFakeServer()
	svc := NewHTTPServerService(loopback, server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := serveAsync(ctx, svc)

	<-server.started
	if svc.Addr() == "" || strings.HasSuffix(svc.Addr(), ":0") {
		t.Errorf("Addr() = %q, want the bound port", svc.Addr())
	}
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if server.shutdowns.Load() != 1 {
		t.Errorf("shutdowns = %d, want 1", server.shutdowns.Load())
	}
	if svc.Addr() != "" {
		t.Errorf("Addr() after stop = %q, want empty", svc.Addr())
	}
}

func TestHTTPServerService_Failures(t *testing.T) {
	t.Parallel()

	t.Run("port in use", func(t *testing.T) {
		t.Parallel()
		taken, err := net.Listen("tcp", loopback)
		if err != nil {
			t.Fatalf("listen: %v", err)
		}
		defer taken.Close()

		err = NewHTTPServerService(taken.Addr().String(), newFakeServer(), time.Second).Serve(context.Background())
		if err == nil || !strings.Contains(err.Error(), "listen on") {
			t.Errorf("Serve() = %v, want a listen error", err)
		}
	})

	t.Run("serve error", func(t *testing.T) {
		t.Parallel()
		serveErr := errors.New("accept: too many open files")
		server := newFakeServer()
		server.serveErr = serveErr

		if err := NewHTTPServerService(loopback, server, time.Second).Serve(context.Background()); !errors.Is(err, serveErr) {
			t.Errorf("Serve() = %v, want %v", err, serveErr)
		}
	})

	t.Run("drain error", func(t *testing.T) {
		t.Parallel()
		drainErr := errors.New("context deadline exceeded while draining")
		server := newFakeServer()
		server.shutdownErr = drainErr
		svc := NewHTTPServerService(loopback, server, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := serveAsync(ctx, svc)
		<-server.started
		cancel()

		if err := <-errCh; !errors.Is(err, drainErr) {
			t.Errorf("Serve() = %v, want %v", err, drainErr)
		}
	})
}

func TestHTTPServerService_RealServer(t *testing.T) {
	t.Parallel()

	srv := &http.Server{
		ReadHeaderTimeout: time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
	}
	svc := NewHTTPServerService(loopback, srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := serveAsync(ctx, svc)

	deadline := time.Now().Add(2 * time.Second)
	for svc.Addr() == "" && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if svc.Addr() == "" {
		t.Fatal("server never bound")
	}

	resp, err := http.Get("http://" + svc.Addr() + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}
