// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Supervisor names as they appear in lifecycle logs.
const (
	rootName            = "marquee"
	classifierLayerName = "classifier-layer"
	apiLayerName        = "api-layer"
)

// TreeConfig tunes restart behavior. Zero fields take DefaultTreeConfig
// values.
type TreeConfig struct {
	// FailureThreshold failures (decaying at FailureDecay per second) put a
	// layer into FailureBackoff before it restarts anything again.
	FailureThreshold float64
	FailureDecay     float64
	FailureBackoff   time.Duration

	// ShutdownTimeout bounds how long each service gets to return after
	// its context is canceled.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig matches suture's built-in defaults, except for a 10s
// shutdown window.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) spec(hook suture.EventHook) suture.Spec {
	return suture.Spec{
		EventHook:        hook,
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// SupervisorTree is the process supervision hierarchy:
//
//	marquee
//	├── classifier-layer  (availability probe, only when the classifier is enabled)
//	└── api-layer         (HTTP server)
//
// A crashing classifier probe is restarted on its own without touching the
// HTTP server, which keeps answering with random fallbacks.
type SupervisorTree struct {
	root       *suture.Supervisor
	classifier *suture.Supervisor
	api        *suture.Supervisor
	config     TreeConfig
}

// NewSupervisorTree builds the tree. Events from every layer are logged
// through logger.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	config = config.withDefaults()

	events := &sutureslog.Handler{Logger: logger}

	// Layers pick up the root's event hook when they are added to it.
	t := &SupervisorTree{
		root:       suture.New(rootName, config.spec(events.MustHook())),
		classifier: suture.New(classifierLayerName, config.spec(nil)),
		api:        suture.New(apiLayerName, config.spec(nil)),
		config:     config,
	}
	t.root.Add(t.classifier)
	t.root.Add(t.api)
	return t, nil
}

// AddClassifierService supervises svc in the classifier layer.
func (t *SupervisorTree) AddClassifierService(svc suture.Service) suture.ServiceToken {
	return t.classifier.Add(svc)
}

// AddAPIService supervises svc in the API layer.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// ServeBackground starts the tree. The channel yields the root's result
// once ctx is canceled and every layer has stopped.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport names services still running after their
// ShutdownTimeout. Only meaningful once ServeBackground has returned.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
