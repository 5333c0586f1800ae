// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package asset

import (
	"errors"
	"fmt"
)

// Resolution errors.
var (
	// ErrUnsupported is returned when a resolver does not handle a URI or
	// its content. The registry moves on to the next resolver.
	ErrUnsupported = errors.New("asset: unsupported")

	// ErrNotYetAvailable is returned for a recognized bytes:// URI whose
	// bytes were never included. Include the bytes and poll again.
	ErrNotYetAvailable = errors.New("asset: bytes not included")

	// ErrDuplicateResolver is returned when a resolver id is registered
	// twice on the same layer.
	ErrDuplicateResolver = errors.New("asset: duplicate resolver id")

	// ErrNoMemoryResolver is returned by IncludeBytes on a registry that
	// was created without the default bytes resolver.
	ErrNoMemoryResolver = errors.New("asset: registry has no memory bytes resolver")

	// ErrNilUploader is returned when a texture is requested without an uploader.
	ErrNilUploader = errors.New("asset: nil uploader")
)

// DecodeError is a permanent decode failure for one cache key.
// The message is kept verbatim so it can be shown in place of the image.
type DecodeError struct {
	// Format names the decoder that failed, e.g. "png" or "svg".
	Format string

	// Message is the decoder's error text.
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("asset: decode %s: %s", e.Format, e.Message)
}

// FetchError is a permanent failure to obtain bytes for a URI, such as a
// missing file or an HTTP error status.
type FetchError struct {
	URI string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("asset: fetch %s: %v", e.URI, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// UploadError reports that the uploader could not create a texture.
type UploadError struct {
	URI string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("asset: upload %s: %v", e.URI, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// unsupported wraps ErrUnsupported with the URI for diagnostics.
func unsupported(uri string) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, uri)
}

// ErrorSize is the number of bytes a cached decode failure accounts for
// in an image resolver's MemoryUsed: the length of its message.
func ErrorSize(err error) int {
	if err == nil {
		return 0
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return len(de.Message)
	}
	return len(err.Error())
}
