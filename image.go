// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package asset

import (
	"image"
	"image/color"
	"image/draw"
)

// BytesPerPixel is the storage size of one Image pixel (RGBA8).
const BytesPerPixel = 4

// Image is a decoded pixel grid: 8-bit RGBA, non-premultiplied, rows packed
// without padding (stride = Width*4).
//
// An Image is immutable once a resolver returns it; it is shared by
// reference between the cache and every consumer.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// NewImage allocates a transparent image of the given size.
// Non-positive dimensions produce an empty image.
func NewImage(width, height int) *Image {
	if width <= 0 || height <= 0 {
		return &Image{}
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*BytesPerPixel),
	}
}

// ImageFromStd converts a standard library image to an Image.
// The pixel data is always copied.
func ImageFromStd(img image.Image) *Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := NewImage(width, height)
	if len(out.Pix) == 0 {
		return out
	}
	stride := width * BytesPerPixel

	// Fast path: already non-premultiplied RGBA.
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := range height {
			src := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(out.Pix[y*stride:(y+1)*stride], nrgba.Pix[src:src+stride])
		}
		return out
	}

	// Everything else goes through image/draw, which un-premultiplies
	// correctly for every color model.
	dst := &image.NRGBA{Pix: out.Pix, Stride: stride, Rect: image.Rect(0, 0, width, height)}
	draw.Draw(dst, dst.Rect, img, bounds.Min, draw.Src)
	return out
}

// Size returns the image dimensions.
func (m *Image) Size() Size {
	return Size{Width: m.Width, Height: m.Height}
}

// ByteSize returns the memory held by the pixel grid.
func (m *Image) ByteSize() int {
	return m.Width * m.Height * BytesPerPixel
}

// NRGBAAt returns the pixel at (x, y), or transparent black outside the image.
func (m *Image) NRGBAAt(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return color.NRGBA{}
	}
	i := (y*m.Width + x) * BytesPerPixel
	return color.NRGBA{R: m.Pix[i], G: m.Pix[i+1], B: m.Pix[i+2], A: m.Pix[i+3]}
}

// ToStd returns a standard library view of the image sharing its pixels.
// The view must not be modified.
func (m *Image) ToStd() *image.NRGBA {
	return &image.NRGBA{
		Pix:    m.Pix,
		Stride: m.Width * BytesPerPixel,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
}
