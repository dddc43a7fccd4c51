// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrModelLoad is matched by every *ModelLoadError. It is the only error
	// that prevents the service from answering.
	ErrModelLoad = errors.New("catalog artifact could not be loaded")

	// ErrNoRecognizedGenres means none of the requested labels exist in the
	// catalog vocabulary.
	ErrNoRecognizedGenres = errors.New("no requested genre is in the catalog vocabulary")

	// ErrEmptyCandidateSet is returned by Rank when given no candidates.
	ErrEmptyCandidateSet = errors.New("candidate set is empty")

	// ErrUnexpectedComputation is matched by every *ComputationError.
	ErrUnexpectedComputation = errors.New("unexpected computation error")

	// ErrEmptyCatalog means there is nothing to recommend at all.
	ErrEmptyCatalog = errors.New("catalog is empty")
)

// ModelLoadError describes why a catalog artifact was rejected.
type ModelLoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ModelLoadError) Error() string {
	msg := fmt.Sprintf("load catalog %q: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying I/O or decode error, if any.
func (e *ModelLoadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrModelLoad) hold for any ModelLoadError.
func (e *ModelLoadError) Is(target error) bool { return target == ErrModelLoad }

func loadError(path, reason string, err error) *ModelLoadError {
	return &ModelLoadError{Path: path, Reason: reason, Err: err}
}

// ComputationError reports an invariant broken during scoring, such as a
// dimension mismatch or a non-finite similarity.
type ComputationError struct {
	Op  string
	Err error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrUnexpectedComputation) hold for any ComputationError.
func (e *ComputationError) Is(target error) bool { return target == ErrUnexpectedComputation }

func computationError(op, format string, args ...interface{}) *ComputationError {
	return &ComputationError{Op: op, Err: fmt.Errorf(format, args...)}
}
