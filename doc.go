// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package asset turns opaque URIs into GPU textures through three layers of
// non-blocking, memoizing resolvers.
//
// # Overview
//
// An immediate-mode GUI asks for the same texture every frame. asset answers
// "is it ready yet?" without blocking the frame and without repeating the
// expensive steps (fetch, decode, upload) on every poll:
//
//	BytesResolver   URI            -> raw bytes (+ MIME, size estimate)
//	ImageResolver   URI, SizeHint  -> decoded RGBA image
//	TextureResolver URI, options   -> GPU texture (gpucontext.Texture)
//
// A [Registry] holds an ordered list of resolvers per layer and dispatches
// each request to them in order until one does not answer [ErrUnsupported].
//
// # Quick Start
//
//	reg := asset.NewRegistry()
//	loaders.Install(reg)
//	defer reg.Close()
//
//	reg.IncludeBytes("bytes://logo.png", logoPNG)
//	up := asset.NewUploader(drawer.TextureCreator())
//
//	// Every frame:
//	poll, err := reg.ResolveTexture(up, "bytes://logo.png", asset.DefaultRenderOptions(), asset.SizeHint{})
//	switch {
//	case err != nil:
//	    // draw an error placeholder
//	case poll.IsPending():
//	    // draw a spinner, poll again next frame
//	default:
//	    drawer.DrawTexture(poll.Value.Texture, x, y)
//	}
//	reg.EndOfFrame()
//
// # Polling Model
//
// Nothing in asset blocks. A resolver that needs slow work starts it once
// and returns a pending [Poll]; the caller polls again with the same
// arguments on a later frame. Only terminal outcomes are cached: a ready
// value, or a permanent failure such as a [DecodeError]. Pending is always
// recomputed from the layer below.
//
// Cached entries leave only through Forget, ForgetAll, or the texture
// layer's end-of-frame budget eviction.
//
// # Failures
//
// Failures are returned as errors:
//   - [ErrUnsupported]: this resolver does not handle the URI or format;
//     the registry tries the next one. Never cached.
//   - [ErrNotYetAvailable]: a bytes:// URI whose bytes were not included.
//     Never cached; the next poll checks again.
//   - [*DecodeError], [*FetchError]: permanent for the cache key until
//     forgotten.
//   - [*UploadError]: the GPU upload failed; not cached.
//
// # Thread Safety
//
// Every resolver guards its cache with its own mutex, and polls always go
// downward (texture, image, bytes), so the pipeline may be polled from
// several goroutines. Background work runs on a [Runner].
package asset
