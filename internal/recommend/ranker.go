// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"math"
	"math/rand/v2"
	"sort"
)

// scoreTolerance is how close two similarities must be to count as equal
// when deciding whether a ranking carries any signal.
const scoreTolerance = 1e-12

// RankedCandidate is one scored movie.
type RankedCandidate struct {
	Row     int     `json:"-"`
	MovieID string  `json:"movie_id"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
}

// Ranking is the output of Rank.
type Ranking struct {
	Candidates []RankedCandidate

	// Randomized is set when every candidate scored the same and the
	// returned ones were sampled at random instead of sorted.
	Randomized bool
}

// CosineSimilarity returns a·b / (|a||b|), or 0 when either side has zero
// norm. The slices must have equal length.
func CosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Rank scores candidates against query by cosine similarity and returns at
// most topK of them, best first, ties broken by row index. When more than
// one candidate is given and all scores are equal, topK of them are drawn
// uniformly without replacement from rng instead. A nil rng is replaced by
// an entropy-seeded one.
func Rank(query []float64, cat *Catalog, candidates []int, topK int, rng *rand.Rand) (Ranking, error) {
	if len(candidates) == 0 {
		return Ranking{}, ErrEmptyCandidateSet
	}
	if topK < 1 {
		return Ranking{}, computationError("rank", "top_k must be positive, got %d", topK)
	}
	if len(query) != cat.Dim() {
		return Ranking{}, computationError("rank", "query has %d dimensions, catalog has %d", len(query), cat.Dim())
	}

	scored := make([]RankedCandidate, len(candidates))
	for i, row := range candidates {
		if row < 0 || row >= cat.Len() {
			return Ranking{}, computationError("rank", "candidate row %d out of range [0,%d)", row, cat.Len())
		}
		score := CosineSimilarity(query, cat.row(row))
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return Ranking{}, computationError("rank", "non-finite similarity %v for row %d", score, row)
		}
		scored[i] = RankedCandidate{
			Row:     row,
			MovieID: cat.entries[row].MovieID,
			Title:   cat.entries[row].Title,
			Score:   score,
		}
	}

	k := min(topK, len(scored))

	if len(scored) > 1 && allEqual(scored) {
		if rng == nil {
			rng = newEntropyRand()
		}
		return Ranking{Candidates: sample(scored, k, rng), Randomized: true}, nil
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Row < scored[j].Row
	})
	return Ranking{Candidates: scored[:k:k]}, nil
}

func allEqual(scored []RankedCandidate) bool {
	lo, hi := scored[0].Score, scored[0].Score
	for _, c := range scored[1:] {
		lo = math.Min(lo, c.Score)
		hi = math.Max(hi, c.Score)
	}
	return hi-lo <= scoreTolerance
}

// sample draws k items without replacement with a partial Fisher-Yates
// shuffle. items is reordered in place.
func sample[T any](items []T, k int, rng *rand.Rand) []T {
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(items)-i)
		items[i], items[j] = items[j], items[i]
	}
	return items[:k:k]
}

func newEntropyRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // sampling, not security
}

func newSeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)) //nolint:gosec // sampling, not security
}
