// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package asset

import "fmt"

// Size is a width and height in pixels. The zero Size means unknown.
type Size struct {
	Width  int
	Height int
}

// IsZero reports whether the size is unknown.
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

// String returns the size as "WxH".
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Poll is the non-failed outcome of a resolve: either pending, with an
// optional size estimate, or ready with a value.
//
// Failures are reported through the accompanying error instead.
type Poll[T any] struct {
	// Value is set when the poll is ready.
	Value T

	// Size is the expected size of the resource while pending, if known.
	Size Size

	ready bool
}

// Pending returns a pending poll with an optional size estimate.
func Pending[T any](size Size) Poll[T] {
	return Poll[T]{Size: size}
}

// Ready returns a ready poll holding v.
func Ready[T any](v T) Poll[T] {
	return Poll[T]{Value: v, ready: true}
}

// IsReady reports whether the value is available.
func (p Poll[T]) IsReady() bool {
	return p.ready
}

// IsPending reports whether work is still in flight.
func (p Poll[T]) IsPending() bool {
	return !p.ready
}

// BytesPoll is the outcome of a bytes resolve.
type BytesPoll = Poll[Bytes]

// ImagePoll is the outcome of an image resolve.
type ImagePoll = Poll[*Image]

// TexturePoll is the outcome of a texture resolve.
type TexturePoll = Poll[SizedTexture]
