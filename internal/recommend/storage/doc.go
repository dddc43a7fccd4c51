// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package storage keeps a catalog artifact in a BadgerDB directory.
//
// It is the alternative to the single JSON artifact file and is meant for
// catalogs large enough that one JSON document becomes awkward to produce
// and ship. The layout is:
//
//	meta/vocabulary   JSON array of genre labels, in axis order
//	meta/count        number of movie rows, decimal
//	meta/info         Metadata (schema version, save time, checksum)
//	movie/00000042    JSON Record for row 42
//
// Row keys are zero-padded so that a prefix scan yields rows in order. Load
// verifies that rows are contiguous, that their number matches meta/count
// and that the SHA-256 checksum recorded at save time still holds.
//
// The package knows nothing about the matching engine; the recommend package
// converts Records to catalog entries and back.
package storage
