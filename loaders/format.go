// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package loaders

import (
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/gogpu/asset"
)

// Format is an encoded image format.
type Format uint8

const (
	// FormatUnknown is content no resolver here can decode.
	FormatUnknown Format = iota

	// FormatPNG is Portable Network Graphics.
	FormatPNG

	// FormatJPEG is baseline or progressive JPEG.
	FormatJPEG

	// FormatGIF is GIF; only the first frame is decoded.
	FormatGIF

	// FormatBMP is Windows bitmap.
	FormatBMP

	// FormatTIFF is Tagged Image File Format.
	FormatTIFF

	// FormatWebP is lossy or lossless WebP.
	FormatWebP

	// FormatSVG is Scalable Vector Graphics, rasterized at the size hint.
	FormatSVG
)

// String returns the short format name.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatGIF:
		return "gif"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	case FormatWebP:
		return "webp"
	case FormatSVG:
		return "svg"
	default:
		return "unknown"
	}
}

// IsRaster reports whether f is a pixel format.
func (f Format) IsRaster() bool {
	return f != FormatUnknown && f != FormatSVG
}

var formatByMIME = map[string]Format{
	"image/png":       FormatPNG,
	"image/x-png":     FormatPNG,
	"image/jpeg":      FormatJPEG,
	"image/jpg":       FormatJPEG,
	"image/pjpeg":     FormatJPEG,
	"image/gif":       FormatGIF,
	"image/bmp":       FormatBMP,
	"image/x-bmp":     FormatBMP,
	"image/x-ms-bmp":  FormatBMP,
	"image/tiff":      FormatTIFF,
	"image/webp":      FormatWebP,
	"image/svg+xml":   FormatSVG,
	"image/svg":       FormatSVG,
	"image/x-svg+xml": FormatSVG,
}

var formatByExt = map[string]Format{
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".jpe":  FormatJPEG,
	".gif":  FormatGIF,
	".bmp":  FormatBMP,
	".dib":  FormatBMP,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
	".webp": FormatWebP,
	".svg":  FormatSVG,
}

// DetectFormat recognizes the format of b, fetched for uri.
//
// A specific image/* MIME type is authoritative, even when it names a
// format this package cannot decode. Otherwise the URI extension decides,
// and content sniffing is the last resort.
func DetectFormat(uri string, b asset.Bytes) Format {
	if mt := imageMediaType(b.MIME); mt != "" {
		return formatByMIME[mt]
	}
	if f, ok := formatByExt[uriExt(uri)]; ok {
		return f
	}
	if len(b.Data) == 0 {
		return FormatUnknown
	}
	return formatByMIME[imageMediaType(mimetype.Detect(b.Data).String())]
}

// imageMediaType returns the lowercased image/* media type of a MIME
// header value, or "" when it is absent or not an image type.
func imageMediaType(v string) string {
	if v == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(v)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(v))
	}
	if !strings.HasPrefix(mt, "image/") {
		return ""
	}
	return mt
}

// uriExt returns the lowercased extension of the URI path, ignoring any
// query or fragment.
func uriExt(uri string) string {
	if i := strings.IndexAny(uri, "?#"); i >= 0 {
		uri = uri[:i]
	}
	if _, rest, ok := strings.Cut(uri, "://"); ok {
		uri = rest
	}
	return strings.ToLower(path.Ext(uri))
}
