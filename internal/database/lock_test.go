// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/marquee/internal/recommend"
)

func TestLockPath(t *testing.T) {
	t.Parallel()

	if got := LockPath("/data/catalog.json"); got != "/data/catalog.json.lock" {
		t.Errorf("LockPath(file) = %s", got)
	}
	if got := LockPath("/data/catalog.db/"); got != "/data/catalog.db.lock" {
		t.Errorf("LockPath(dir/) = %s", got)
	}
}

func TestAcquireArtifactLock_Exclusive(t *testing.T) {
	t.Parallel()

	artifact := filepath.Join(t.TempDir(), "catalog.json")

	first, err := AcquireArtifactLock(context.Background(), artifact, false)
	if err != nil {
		t.Fatalf("first lock error = %v", err)
	}

	if _, err := AcquireArtifactLock(context.Background(), artifact, false); !errors.Is(err, ErrLocked) {
		t.Errorf("second lock error = %v, want ErrLocked", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	if _, err := AcquireArtifactLock(ctx, artifact, true); err == nil {
		t.Error("waiting lock should give up when ctx expires")
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := first.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}

	again, err := AcquireArtifactLock(context.Background(), artifact, false)
	if err != nil {
		t.Fatalf("lock after release error = %v", err)
	}
	_ = again.Release()
}

func TestWriteCatalog(t *testing.T) {
	t.Parallel()

	cat, err := recommend.NewCatalog([]string{"Comedy", "Horror"}, []recommend.Entry{
		{MovieID: "1", Title: "Scream (1996)", Membership: []float64{1, 1}},
		{MovieID: "2", Title: "Airplane! (1980)", Membership: []float64{1, 0}},
	})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", "catalog.json")
	if err := WriteCatalog(context.Background(), path, recommend.FormatJSON, cat); err != nil {
		t.Fatalf("WriteCatalog() error = %v", err)
	}

	loaded, err := recommend.LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if loaded.Len() != 2 || loaded.TitleOf(0) != "Scream (1996)" {
		t.Errorf("loaded catalog = %d movies, first %q", loaded.Len(), loaded.TitleOf(0))
	}

	held, err := AcquireArtifactLock(context.Background(), path, false)
	if err != nil {
		t.Fatalf("lock error = %v", err)
	}
	defer func() { _ = held.Release() }()

	if err := WriteCatalog(context.Background(), path, recommend.FormatJSON, cat); !errors.Is(err, ErrLocked) {
		t.Errorf("WriteCatalog() while locked error = %v, want ErrLocked", err)
	}
}
