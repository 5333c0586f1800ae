// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package cache provides the keyed store behind every resolver layer.
//
// # Cache[K, V]
//
// A map with a monotonic access tick per entry. Entries never expire on
// their own: they leave the cache only through Delete, DeleteFunc, Clear,
// or an owner-driven eviction walk over KeysByAge.
//
//	c := cache.New[string, int]()
//	c.Set("key", 42)
//	value, ok := c.Get("key")
//
// # Thread Safety
//
// Cache is NOT safe for concurrent use. Each resolver guards its cache with
// its own mutex, together with any in-flight job bookkeeping, so that a
// lookup, a miss, and the install of a result happen under one lock.
package cache
