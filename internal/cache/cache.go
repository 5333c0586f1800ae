// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cache

import (
	"cmp"
	"slices"
)

// Cache is a generic keyed store with access-time tracking.
// The zero value is not usable; create caches with New.
//
// Callers must hold their own lock around every method.
type Cache[K comparable, V any] struct {
	entries map[K]*cacheEntry[V]
	tick    int64 // Monotonic access counter

	hits   uint64
	misses uint64
}

// cacheEntry holds a cached value with its access time.
type cacheEntry[V any] struct {
	value V
	atime int64 // Access time (tick value)
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*cacheEntry[V]),
	}
}

// Get retrieves a value from the cache and marks it as recently used.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}

	c.hits++
	c.tick++
	entry.atime = c.tick
	return entry.value, true
}

// Peek retrieves a value without touching its access time or statistics.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	entry, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Set stores a value in the cache, replacing any previous entry whole.
func (c *Cache[K, V]) Set(key K, value V) {
	c.tick++
	c.entries[key] = &cacheEntry[V]{
		value: value,
		atime: c.tick,
	}
}

// Delete removes an entry from the cache.
// Returns the removed value and true if the entry was found.
func (c *Cache[K, V]) Delete(key K) (V, bool) {
	entry, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	delete(c.entries, key)
	return entry.value, true
}

// DeleteFunc removes every entry for which match returns true and
// returns the removed values.
func (c *Cache[K, V]) DeleteFunc(match func(K, V) bool) []V {
	var removed []V
	for key, entry := range c.entries {
		if match(key, entry.value) {
			removed = append(removed, entry.value)
			delete(c.entries, key)
		}
	}
	return removed
}

// Clear removes all entries from the cache and returns them.
func (c *Cache[K, V]) Clear() []V {
	removed := make([]V, 0, len(c.entries))
	for _, entry := range c.entries {
		removed = append(removed, entry.value)
	}
	c.entries = make(map[K]*cacheEntry[V])
	c.tick = 0
	return removed
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	return len(c.entries)
}

// Sum adds size(v) over every cached value.
// Recomputed on each call so the total can never drift from the contents.
func (c *Cache[K, V]) Sum(size func(V) int) int {
	total := 0
	for _, entry := range c.entries {
		total += size(entry.value)
	}
	return total
}

// KeysByAge returns all keys ordered from least to most recently used.
func (c *Cache[K, V]) KeysByAge() []K {
	type aged struct {
		key   K
		atime int64
	}
	all := make([]aged, 0, len(c.entries))
	for key, e := range c.entries {
		all = append(all, aged{key: key, atime: e.atime})
	}
	slices.SortFunc(all, func(a, b aged) int { return cmp.Compare(a.atime, b.atime) })

	keys := make([]K, len(all))
	for i, a := range all {
		keys[i] = a.key
	}
	return keys
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	var hitRate float64
	if total := c.hits + c.misses; total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return Stats{
		Len:     len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Hits is the number of Get calls that found an entry.
	Hits uint64
	// Misses is the number of Get calls that found nothing.
	Misses uint64
	// HitRate is the cache hit rate 0.0 to 1.0.
	HitRate float64
}
