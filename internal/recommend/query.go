// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import "strings"

// Query is a request projected onto the catalog vocabulary.
type Query struct {
	// Vector is one-hot over the vocabulary, len == Catalog.Dim().
	Vector []float64

	// Known are the requested labels found in the vocabulary, in request order.
	Known []string

	// Unknown are the requested labels the vocabulary does not contain.
	Unknown []string
}

// BuildQuery maps requested genre labels onto cat's vocabulary. Labels are
// trimmed and matched exactly; blank labels are skipped and repeats are
// collapsed. Unknown labels are recorded, never rejected. When nothing is
// recognized the query is still returned together with ErrNoRecognizedGenres.
func BuildQuery(requested []string, cat *Catalog) (Query, error) {
	q := Query{
		Vector:  make([]float64, cat.Dim()),
		Known:   []string{},
		Unknown: []string{},
	}

	seen := make(map[string]struct{}, len(requested))
	for _, raw := range requested {
		label := strings.TrimSpace(raw)
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}

		axis, ok := cat.GenreIndex(label)
		if !ok {
			q.Unknown = append(q.Unknown, label)
			continue
		}
		q.Vector[axis] = 1
		q.Known = append(q.Known, label)
	}

	if len(q.Known) == 0 {
		return q, ErrNoRecognizedGenres
	}
	return q, nil
}
