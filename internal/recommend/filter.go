// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

// FilterResult is the set of rows that go on to ranking.
type FilterResult struct {
	Indices []int

	// Relaxed is set when strict matching found nothing and every row was
	// returned instead.
	Relaxed bool
}

// FilterCandidates narrows the catalog before ranking. Without strict every
// row is a candidate. With strict only rows carrying at least one of the
// known genres survive; if none do, all rows are returned with Relaxed set,
// so the result is never empty for a non-empty catalog.
func FilterCandidates(cat *Catalog, known []string, strict bool) FilterResult {
	if !strict {
		return FilterResult{Indices: allRows(cat.Len())}
	}

	axes := make([]int, 0, len(known))
	for _, label := range known {
		if axis, ok := cat.GenreIndex(label); ok {
			axes = append(axes, axis)
		}
	}

	var indices []int
	for row := 0; row < cat.Len(); row++ {
		for _, axis := range axes {
			if cat.HasGenre(row, axis) {
				indices = append(indices, row)
				break
			}
		}
	}

	if len(indices) == 0 {
		return FilterResult{Indices: allRows(cat.Len()), Relaxed: true}
	}
	return FilterResult{Indices: indices}
}

func allRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}
