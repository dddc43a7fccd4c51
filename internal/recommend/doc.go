// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package recommend implements the genre-to-title matching engine.
//
// # Pipeline
//
// A request flows through four stages, each usable on its own:
//
//   - BuildQuery projects requested genre labels onto the catalog vocabulary
//     as a one-hot vector, recording labels the vocabulary lacks.
//   - FilterCandidates keeps rows sharing at least one requested genre when
//     strict matching is on, and relaxes to the full catalog when that
//     leaves nothing.
//   - Rank orders candidates by cosine similarity, ties by row index. When
//     every candidate scores the same it samples at random instead.
//   - Engine.Recommend ties the stages together and applies the fallback
//     policy.
//
// # Fallback Policy
//
// The engine never fails a request while the catalog has movies. If no
// requested genre is recognized, the classifier errors, or ranking hits an
// unexpected condition (including a panic), it returns random titles from
// the whole catalog with OutcomeFallbackRandom and a FallbackReason. Only an
// empty catalog yields OutcomeFailed.
//
// # Determinism
//
// Randomness is per request. Request.Seed (or Config.Seed) makes random
// choices reproducible; otherwise each request seeds a PCG generator from
// runtime entropy. No generator is shared between goroutines.
//
// # Artifacts
//
// A Catalog is loaded once at startup, either from a JSON file with the
// parts "vocabulary", "matrix" and "titles", or from a BadgerDB directory
// written by the storage subpackage:
//
//	cat, err := recommend.Open(ctx, "/data/catalog.json", recommend.FormatAuto)
//	if err != nil {
//	    // errors.Is(err, recommend.ErrModelLoad)
//	}
//	engine, _ := recommend.NewEngine(cat, recommend.DefaultConfig(), logger)
//	res := engine.Recommend(ctx, recommend.Request{Genres: []string{"Horror", "Thriller"}, TopK: 3})
//	fmt.Println(res.Outcome, res.Titles())
package recommend
