// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package loaders provides the standard bytes and image resolvers for an
// asset.Registry.
//
// # Resolvers
//
// Bytes layer:
//   - FileResolver serves file:// URIs from a go-billy filesystem
//   - HTTPResolver serves http:// and https:// URIs
//
// Image layer:
//   - SVGResolver rasterizes SVG documents at the requested SizeHint
//   - RasterResolver decodes PNG, JPEG, GIF, BMP, TIFF and WebP
//
// Fetches always run in the background: the first poll starts the fetch and
// returns pending, and a later poll observes the result. Decoding runs on
// the polling goroutine unless WithBackgroundDecode is given.
//
// # Quick Start
//
//	reg := asset.NewRegistry()
//	if err := loaders.Install(reg); err != nil {
//	    return err
//	}
//	defer reg.Close()
//
// # Format Recognition
//
// Image resolvers pick a decoder from, in order: the MIME type reported by
// the bytes layer, the URI extension, and finally content sniffing. A
// resolver that does not recognize the format reports asset.ErrUnsupported
// so the registry can try the next one.
package loaders
