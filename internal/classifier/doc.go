// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package classifier talks to an external zero-shot text classification service
and turns its scores into genre labels.

Marquee never runs a model itself. It sends the user's description together
with the candidate genres to an inference endpoint that speaks the Hugging Face
zero-shot protocol:

	POST {url}
	Authorization: Bearer {token}

	{"inputs": "something with spaceships and laser battles",
	 "parameters": {"candidate_labels": ["Action", "Sci-Fi", ...], "multi_label": true}}

and expects back either

	{"sequence": "...", "labels": ["Sci-Fi", "Action", ...], "scores": [0.97, 0.88, ...]}

or the equivalent list form [{"label": "Sci-Fi", "score": 0.97}, ...].

# Layers

Clients compose from the outside in:

  - GenreExtractor keeps labels scoring strictly above the threshold and
    satisfies recommend.GenreClassifier.
  - CachedClient answers repeated descriptions from an LRU cache.
  - BreakerClient stops calling a failing service (sony/gobreaker).
  - HTTPClient performs the request, with a token bucket limiter
    (golang.org/x/time/rate) and bounded retries on 429/503.

New builds the usual stack from configuration.
*/
package classifier
