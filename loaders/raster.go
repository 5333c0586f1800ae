// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package loaders

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/gogpu/asset"
)

// RasterResolverID identifies RasterResolver in a Registry.
const RasterResolverID = "github.com/gogpu/asset/loaders.RasterResolver"

// RasterResolver decodes PNG, JPEG, GIF (first frame), BMP, TIFF and WebP.
//
// Raster decoding does not depend on the size hint, so the cache is keyed by
// URI alone and every hint shares one decoded image.
type RasterResolver struct {
	d *decoder
}

// NewRasterResolver creates a raster resolver. It honors WithBackgroundDecode.
func NewRasterResolver(opts ...Option) *RasterResolver {
	o := buildOptions(opts)
	return &RasterResolver{
		d: newDecoder(Format.IsRaster, decodeRaster, ignoreHint, o.decodeRunner),
	}
}

func ignoreHint(asset.SizeHint) asset.SizeHint { return asset.SizeHint{} }

// ID implements asset.Resolver.
func (r *RasterResolver) ID() string { return RasterResolverID }

// ResolveImage implements asset.ImageResolver.
func (r *RasterResolver) ResolveImage(src asset.BytesSource, uri string, hint asset.SizeHint) (asset.ImagePoll, error) {
	return r.d.resolve(src, uri, hint)
}

// CachedImage implements asset.CachedImageResolver.
func (r *RasterResolver) CachedImage(uri string, hint asset.SizeHint) (asset.ImagePoll, bool, error) {
	return r.d.lookup(uri, hint)
}

// Forget implements asset.Resolver.
func (r *RasterResolver) Forget(uri string) { r.d.forget(uri) }

// ForgetAll implements asset.Resolver.
func (r *RasterResolver) ForgetAll() { r.d.forgetAll() }

// MemoryUsed implements asset.Resolver.
func (r *RasterResolver) MemoryUsed() int { return r.d.memoryUsed() }

// CacheStats implements asset.StatsReporter.
func (r *RasterResolver) CacheStats() asset.CacheStats { return r.d.cacheStats() }

func decodeRaster(f Format, data []byte, _ asset.SizeHint) (*asset.Image, error) {
	rd := bytes.NewReader(data)

	var (
		img image.Image
		err error
	)
	switch f {
	case FormatPNG:
		img, err = png.Decode(rd)
	case FormatJPEG:
		img, err = jpeg.Decode(rd)
	case FormatGIF:
		img, err = gif.Decode(rd)
	case FormatBMP:
		img, err = bmp.Decode(rd)
	case FormatTIFF:
		img, err = tiff.Decode(rd)
	case FormatWebP:
		img, err = webp.Decode(rd)
	default:
		return nil, &asset.DecodeError{Format: f.String(), Message: "not a raster format"}
	}
	if err != nil {
		return nil, err
	}
	return asset.ImageFromStd(img), nil
}
