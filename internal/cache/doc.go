// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package cache provides a generic, thread-safe LRU cache with TTL expiry.
//
// It backs the classifier response cache, where the same description is
// often classified many times in a row:
//
//	c := cache.NewLRUCache[classifier.Scores](1000, 30*time.Minute)
//	if scores, ok := c.Get(key); ok {
//	    return scores, nil
//	}
//	c.Add(key, scores)
//
// Get and Add are O(1). Expired entries are dropped lazily on
// access, or in bulk by CleanupExpired.
package cache
