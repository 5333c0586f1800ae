// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package loaders

import (
	"bytes"
	"errors"
	"image"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/gogpu/asset"
)

// SVGResolverID identifies SVGResolver in a Registry.
const SVGResolverID = "github.com/gogpu/asset/loaders.SVGResolver"

// MaxSVGDimension caps either side of a rasterized SVG.
const MaxSVGDimension = 16384

var (
	// ErrSVGNoSize is the decode failure for documents with neither a
	// viewBox nor width and height.
	ErrSVGNoSize = errors.New("svg has no size")

	// ErrSVGTooLarge is the decode failure for targets above MaxSVGDimension.
	ErrSVGTooLarge = errors.New("svg target size too large")
)

// SVGResolver rasterizes SVG documents.
//
// The natural size is the document's viewBox; the SizeHint scales it. The
// cache is keyed by URI and normalized hint, so one document rendered at
// two sizes produces two images.
type SVGResolver struct {
	d *decoder
}

// NewSVGResolver creates an SVG resolver. It honors WithBackgroundDecode.
func NewSVGResolver(opts ...Option) *SVGResolver {
	o := buildOptions(opts)
	isSVG := func(f Format) bool { return f == FormatSVG }
	return &SVGResolver{
		d: newDecoder(isSVG, decodeSVG, asset.SizeHint.Normalize, o.decodeRunner),
	}
}

// ID implements asset.Resolver.
func (r *SVGResolver) ID() string { return SVGResolverID }

// ResolveImage implements asset.ImageResolver.
func (r *SVGResolver) ResolveImage(src asset.BytesSource, uri string, hint asset.SizeHint) (asset.ImagePoll, error) {
	return r.d.resolve(src, uri, hint)
}

// CachedImage implements asset.CachedImageResolver.
func (r *SVGResolver) CachedImage(uri string, hint asset.SizeHint) (asset.ImagePoll, bool, error) {
	return r.d.lookup(uri, hint)
}

// Forget implements asset.Resolver. All sizes of uri are evicted.
func (r *SVGResolver) Forget(uri string) { r.d.forget(uri) }

// ForgetAll implements asset.Resolver.
func (r *SVGResolver) ForgetAll() { r.d.forgetAll() }

// MemoryUsed implements asset.Resolver.
func (r *SVGResolver) MemoryUsed() int { return r.d.memoryUsed() }

// CacheStats implements asset.StatsReporter.
func (r *SVGResolver) CacheStats() asset.CacheStats { return r.d.cacheStats() }

func decodeSVG(_ Format, data []byte, hint asset.SizeHint) (*asset.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}

	vb := icon.ViewBox
	natural := asset.Size{
		Width:  int(math.Ceil(vb.W)),
		Height: int(math.Ceil(vb.H)),
	}
	if natural.Width <= 0 || natural.Height <= 0 {
		return nil, ErrSVGNoSize
	}

	target := hint.Apply(natural)
	w, h := target.Width, target.Height
	if w > MaxSVGDimension || h > MaxSVGDimension {
		return nil, ErrSVGTooLarge
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	return asset.ImageFromStd(dst), nil
}
