// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"fmt"
	"math"
	"strings"
)

// Entry is one movie of the catalog together with its genre membership row.
type Entry struct {
	// MovieID is opaque and unique within a catalog.
	MovieID string `json:"movie_id"`

	// Title is what gets shown to the user.
	Title string `json:"title"`

	// Membership has one weight per vocabulary axis: 0/1 for one-hot
	// catalogs, any finite non-negative value for weighted ones.
	Membership []float64 `json:"-"`

	// Optional metadata carried through from ingestion.
	Year        int      `json:"year,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	AvgRating   float64  `json:"avg_rating,omitempty"`
	RatingCount int      `json:"rating_count,omitempty"`
}

func (e *Entry) clone() Entry {
	c := *e
	c.Membership = append([]float64(nil), e.Membership...)
	c.Genres = append([]string(nil), e.Genres...)
	return c
}

// GenreCount pairs a vocabulary label with the number of movies carrying it.
type GenreCount struct {
	Genre  string `json:"genre"`
	Movies int    `json:"movies"`
}

// Catalog is the genre vocabulary plus the membership matrix and titles.
// It never changes after construction, so concurrent readers need no locks.
// Accessors hand out copies.
type Catalog struct {
	vocabulary []string
	index      map[string]int
	entries    []Entry
	counts     []int
}

// NewCatalog validates and copies the given vocabulary and entries. Every
// membership row must have exactly len(vocabulary) finite, non-negative
// weights. Entries with no Genres get them derived from their row.
func NewCatalog(vocabulary []string, entries []Entry) (*Catalog, error) {
	c := &Catalog{
		vocabulary: make([]string, len(vocabulary)),
		index:      make(map[string]int, len(vocabulary)),
		entries:    make([]Entry, len(entries)),
		counts:     make([]int, len(vocabulary)),
	}

	for i, label := range vocabulary {
		if strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("vocabulary[%d] is empty", i)
		}
		if prev, dup := c.index[label]; dup {
			return nil, fmt.Errorf("vocabulary label %q repeated at %d and %d", label, prev, i)
		}
		c.vocabulary[i] = label
		c.index[label] = i
	}

	ids := make(map[string]int, len(entries))
	for i := range entries {
		e := &entries[i]
		if e.MovieID == "" {
			return nil, fmt.Errorf("row %d has no movie id", i)
		}
		if prev, dup := ids[e.MovieID]; dup {
			return nil, fmt.Errorf("movie id %q repeated at rows %d and %d", e.MovieID, prev, i)
		}
		ids[e.MovieID] = i

		if len(e.Membership) != len(vocabulary) {
			return nil, fmt.Errorf("row %d has %d columns, vocabulary has %d", i, len(e.Membership), len(vocabulary))
		}
		for axis, w := range e.Membership {
			if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
				return nil, fmt.Errorf("row %d weight for %q is %v, want a finite non-negative value", i, vocabulary[axis], w)
			}
			if w > 0 {
				c.counts[axis]++
			}
		}

		c.entries[i] = e.clone()
		if len(c.entries[i].Genres) == 0 {
			c.entries[i].Genres = c.labelsOf(i)
		}
	}

	return c, nil
}

func (c *Catalog) labelsOf(row int) []string {
	var labels []string
	for axis, w := range c.entries[row].Membership {
		if w > 0 {
			labels = append(labels, c.vocabulary[axis])
		}
	}
	return labels
}

// Vocabulary returns the ordered genre labels.
func (c *Catalog) Vocabulary() []string {
	return append([]string(nil), c.vocabulary...)
}

// Dim is the vocabulary size V.
func (c *Catalog) Dim() int { return len(c.vocabulary) }

// Len is the number of movies.
func (c *Catalog) Len() int { return len(c.entries) }

// Row returns a copy of row i of the membership matrix.
func (c *Catalog) Row(i int) []float64 {
	return append([]float64(nil), c.entries[i].Membership...)
}

// TitleOf returns the title of row i.
func (c *Catalog) TitleOf(i int) string { return c.entries[i].Title }

// Entry returns a copy of row i.
func (c *Catalog) Entry(i int) Entry { return c.entries[i].clone() }

// GenreIndex returns the axis of label. The match is exact and case-sensitive.
func (c *Catalog) GenreIndex(label string) (int, bool) {
	i, ok := c.index[label]
	return i, ok
}

// HasGenre reports whether row has a nonzero weight on axis.
func (c *Catalog) HasGenre(row, axis int) bool {
	return c.entries[row].Membership[axis] > 0
}

// GenreCounts lists every vocabulary label with its movie count, in
// vocabulary order.
func (c *Catalog) GenreCounts() []GenreCount {
	out := make([]GenreCount, len(c.vocabulary))
	for i, label := range c.vocabulary {
		out[i] = GenreCount{Genre: label, Movies: c.counts[i]}
	}
	return out
}

// row returns the stored slice without copying. Callers must not modify it.
func (c *Catalog) row(i int) []float64 { return c.entries[i].Membership }
