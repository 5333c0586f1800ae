// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package asset

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/asset/internal/cache"
)

// BytesScheme is the URI prefix owned by MemoryBytesResolver.
const BytesScheme = "bytes://"

// MemoryBytesResolverID identifies MemoryBytesResolver in a Registry.
const MemoryBytesResolverID = "github.com/gogpu/asset.MemoryBytesResolver"

// Bytes is an immutable byte buffer with optional metadata.
// Data is shared with the cache and must never be modified.
type Bytes struct {
	Data []byte

	// Size is the pixel size of the encoded image, if already known.
	Size Size

	// MIME is the declared media type, or empty.
	MIME string
}

// BytesInserter is a bytes resolver that accepts application-provided bytes.
// Registry.IncludeBytes forwards to the first one registered.
type BytesInserter interface {
	InsertBytes(uri string, b Bytes)
}

// MemoryBytesResolver serves bytes that the application inserted up front,
// typically embedded resources under bytes:// URIs.
//
// MemoryBytesResolver is safe for concurrent use.
type MemoryBytesResolver struct {
	mu    sync.Mutex
	cache *cache.Cache[string, Bytes]
}

// NewMemoryBytesResolver creates an empty resolver.
func NewMemoryBytesResolver() *MemoryBytesResolver {
	return &MemoryBytesResolver{cache: cache.New[string, Bytes]()}
}

// ID implements Resolver.
func (r *MemoryBytesResolver) ID() string { return MemoryBytesResolverID }

// Insert registers data under uri. The first insert for a URI wins; later
// inserts are ignored so that handed-out bytes never change.
func (r *MemoryBytesResolver) Insert(uri string, data []byte) {
	r.InsertBytes(uri, Bytes{Data: data})
}

// InsertBytes is like Insert but also records a size or MIME type.
func (r *MemoryBytesResolver) InsertBytes(uri string, b Bytes) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cache.Peek(uri); ok {
		Logger().Debug("asset: bytes already included", "uri", uri)
		return
	}
	r.cache.Set(uri, b)
	Logger().Debug("asset: bytes included", "uri", uri, "len", len(b.Data), "mime", b.MIME)
}

// ResolveBytes implements BytesSource.
//
// Inserted bytes are returned for any URI. A missing bytes:// URI fails with
// ErrNotYetAvailable; any other missing URI is unsupported.
func (r *MemoryBytesResolver) ResolveBytes(uri string) (BytesPoll, error) {
	r.mu.Lock()
	b, ok := r.cache.Get(uri)
	r.mu.Unlock()

	if ok {
		return Ready(b), nil
	}
	if strings.HasPrefix(uri, BytesScheme) {
		return BytesPoll{}, fmt.Errorf("%w: %s (include the bytes before resolving)", ErrNotYetAvailable, uri)
	}
	return BytesPoll{}, unsupported(uri)
}

// Forget implements Resolver.
func (r *MemoryBytesResolver) Forget(uri string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(uri)
}

// ForgetAll implements Resolver.
func (r *MemoryBytesResolver) ForgetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Clear()
}

// MemoryUsed implements Resolver.
func (r *MemoryBytesResolver) MemoryUsed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Sum(func(b Bytes) int { return len(b.Data) })
}

// CacheStats implements StatsReporter.
func (r *MemoryBytesResolver) CacheStats() CacheStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cacheStats(r.cache.Stats())
}

func cacheStats(s cache.Stats) CacheStats {
	return CacheStats{Entries: s.Len, Hits: s.Hits, Misses: s.Misses}
}
