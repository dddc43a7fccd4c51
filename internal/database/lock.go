// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/recommend"
)

// lockRetryDelay is how often a waiting build retries the artifact lock.
const lockRetryDelay = 100 * time.Millisecond

// ArtifactLock is an exclusive advisory lock held while an artifact is
// written. The lock file sits next to the artifact as "<name>.lock".
type ArtifactLock struct {
	lock *flock.Flock
	path string
}

// LockPath returns the lock file used for artifactPath.
func LockPath(artifactPath string) string {
	clean := filepath.Clean(artifactPath)
	return filepath.Join(filepath.Dir(clean), filepath.Base(clean)+".lock")
}

// AcquireArtifactLock takes the lock for artifactPath. With wait false it
// returns ErrLocked immediately if another process holds it; otherwise it
// retries until ctx is done.
func AcquireArtifactLock(ctx context.Context, artifactPath string, wait bool) (*ArtifactLock, error) {
	path := LockPath(artifactPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	l := &ArtifactLock{lock: flock.New(path), path: path}

	var ok bool
	var err error
	if wait {
		ok, err = l.lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		ok, err = l.lock.TryLock()
	}
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	logging.Debug().Str("lock", path).Msg("Artifact lock acquired")
	return l, nil
}

// Path returns the lock file path.
func (l *ArtifactLock) Path() string { return l.path }

// Release unlocks. Calling it more than once is harmless.
func (l *ArtifactLock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return nil
}

// WriteCatalog writes cat to path in the given format while holding the
// artifact lock.
func WriteCatalog(ctx context.Context, path string, format recommend.Format, cat *recommend.Catalog) error {
	lock, err := AcquireArtifactLock(ctx, path, false)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logging.Warn().Err(err).Msg("Failed to release artifact lock")
		}
	}()
	return recommend.WriteArtifact(ctx, path, format, cat)
}
