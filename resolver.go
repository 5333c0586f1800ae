// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package asset

import "context"

// Resolver is the part of the contract shared by every layer.
type Resolver interface {
	// ID returns a stable identifier, unique within a layer of a Registry.
	ID() string

	// Forget evicts every cached entry for uri.
	Forget(uri string)

	// ForgetAll evicts every cached entry.
	ForgetAll()

	// MemoryUsed returns the bytes held by cached entries, computed on demand.
	MemoryUsed() int
}

// BytesSource yields raw bytes for a URI.
// Registry implements it by dispatching over its bytes resolvers.
type BytesSource interface {
	ResolveBytes(uri string) (BytesPoll, error)
}

// BytesResolver maps a URI to raw bytes.
type BytesResolver interface {
	Resolver
	BytesSource
}

// ImageSource yields decoded images.
// Registry implements it by dispatching over its image resolvers.
type ImageSource interface {
	ResolveImage(uri string, hint SizeHint) (ImagePoll, error)
}

// ImageResolver maps a URI and size hint to a decoded image, polling src
// for the bytes.
type ImageResolver interface {
	Resolver
	ResolveImage(src BytesSource, uri string, hint SizeHint) (ImagePoll, error)
}

// CachedImageResolver is implemented by image resolvers that can answer a
// request from memory, without polling the bytes layer. ok is false when
// the resolver holds neither an outcome nor a running decode for the key.
//
// Registry asks every resolver through CachedImage before dispatching, so
// an image cached by a later resolver is not re-fetched by an earlier one.
type CachedImageResolver interface {
	ImageResolver
	CachedImage(uri string, hint SizeHint) (poll ImagePoll, ok bool, err error)
}

// TextureResolver maps a URI and render options to a GPU texture, polling
// src for the image and creating textures through up.
type TextureResolver interface {
	Resolver
	ResolveTexture(src ImageSource, up Uploader, uri string, opts RenderOptions, hint SizeHint) (TexturePoll, error)

	// EndOfFrame may evict least recently used textures until the resolver
	// holds at most budget bytes. A budget of zero or less means unlimited.
	EndOfFrame(budget int)
}

// Runner runs tasks in the background. Implementations must not block
// the caller of Go.
//
// A task must tolerate its result being abandoned; ctx is cancelled when
// the runner shuts down.
type Runner interface {
	Go(task func(ctx context.Context))
}

// CacheStats reports cache effectiveness for diagnostics.
type CacheStats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// StatsReporter is implemented by resolvers that expose cache statistics.
type StatsReporter interface {
	CacheStats() CacheStats
}
