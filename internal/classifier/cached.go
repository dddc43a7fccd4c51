// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/metrics"
)

// CachedClient remembers scores per (normalized text, label set). Errors
// are never cached.
type CachedClient struct {
	next  Classifier
	cache *cache.LRUCache[Scores]
}

// NewCachedClient wraps next with an LRU cache of size entries living ttl.
func NewCachedClient(next Classifier, size int, ttl time.Duration) *CachedClient {
	return &CachedClient{
		next:  next,
		cache: cache.NewLRUCache[Scores](size, ttl),
	}
}

// Classify returns cached scores when available.
func (c *CachedClient) Classify(ctx context.Context, text string, labels []string) (Scores, error) {
	key := cacheKey(text, labels)

	if scores, ok := c.cache.Get(key); ok {
		metrics.ClassifierCacheHits.Inc()
		return scores.clone(), nil
	}
	metrics.ClassifierCacheMisses.Inc()

	scores, err := c.next.Classify(ctx, text, labels)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, scores.clone())
	return scores, nil
}

// Ping bypasses the cache. Expired entries are swept on every ping, so the
// periodic availability probe also keeps the cache from holding dead
// entries between lookups.
func (c *CachedClient) Ping(ctx context.Context) error {
	c.Sweep()
	return c.next.Ping(ctx)
}

// Sweep drops expired entries and returns how many were removed.
func (c *CachedClient) Sweep() int {
	removed := c.cache.CleanupExpired()
	metrics.ClassifierCacheEntries.Set(float64(c.cache.Len()))
	return removed
}

// Stats exposes cache counters.
func (c *CachedClient) Stats() cache.Stats {
	return c.cache.Stats()
}

// cacheKey hashes case-folded, whitespace-collapsed text with the sorted
// label set, so "Scary  movie" and "scary movie" share an entry.
func cacheKey(text string, labels []string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(text)), " ")

	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)

	h := sha256.New()
	h.Write([]byte(norm))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(sorted, "\x1f")))
	return hex.EncodeToString(h.Sum(nil))
}
