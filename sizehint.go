// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package asset

import "math"

// HintKind selects how a SizeHint derives the target size.
type HintKind uint8

const (
	// HintOriginal keeps the source's natural size. It is the zero value.
	HintOriginal HintKind = iota

	// HintScale multiplies the natural size by Scale.
	HintScale

	// HintWidth sets the width and keeps the aspect ratio.
	HintWidth

	// HintHeight sets the height and keeps the aspect ratio.
	HintHeight

	// HintSize fits the source into Width x Height according to Fit.
	HintSize
)

// String returns the kind name.
func (k HintKind) String() string {
	switch k {
	case HintOriginal:
		return "Original"
	case HintScale:
		return "Scale"
	case HintWidth:
		return "Width"
	case HintHeight:
		return "Height"
	case HintSize:
		return "Size"
	default:
		return "Unknown"
	}
}

// Fit controls how HintSize maps the source into the target box.
type Fit uint8

const (
	// FitContain scales uniformly so the result fits inside the box.
	FitContain Fit = iota

	// FitCover scales uniformly so the result covers the box.
	FitCover

	// FitExact stretches to exactly the box.
	FitExact
)

// SizeHint is the target size for decoding scalable sources such as SVG.
// Raster decoders ignore it.
//
// SizeHint is comparable and is part of the image cache key wherever the
// decode output depends on it.
type SizeHint struct {
	Kind   HintKind
	Scale  float32
	Width  int
	Height int
	Fit    Fit
}

// ScaleHint returns a hint scaling the natural size by factor.
func ScaleHint(factor float32) SizeHint {
	return SizeHint{Kind: HintScale, Scale: factor}
}

// WidthHint returns a hint for a fixed width.
func WidthHint(width int) SizeHint {
	return SizeHint{Kind: HintWidth, Width: width}
}

// HeightHint returns a hint for a fixed height.
func HeightHint(height int) SizeHint {
	return SizeHint{Kind: HintHeight, Height: height}
}

// BoxHint returns a hint fitting the source into width x height.
func BoxHint(width, height int, fit Fit) SizeHint {
	return SizeHint{Kind: HintSize, Width: width, Height: height, Fit: fit}
}

// Normalize returns the canonical form of h, so that hints producing the
// same output compare equal. Only the fields used by Kind are kept, and
// every hint Apply treats as the natural size becomes the zero hint.
func (h SizeHint) Normalize() SizeHint {
	switch h.Kind {
	case HintScale:
		if !validScale(h.Scale) || h.Scale == 1 {
			return SizeHint{}
		}
		return SizeHint{Kind: HintScale, Scale: h.Scale}
	case HintWidth:
		if h.Width <= 0 {
			return SizeHint{}
		}
		return SizeHint{Kind: HintWidth, Width: h.Width}
	case HintHeight:
		if h.Height <= 0 {
			return SizeHint{}
		}
		return SizeHint{Kind: HintHeight, Height: h.Height}
	case HintSize:
		if h.Width <= 0 || h.Height <= 0 {
			return SizeHint{}
		}
		fit := h.Fit
		if fit != FitCover && fit != FitExact {
			fit = FitContain
		}
		return SizeHint{Kind: HintSize, Width: h.Width, Height: h.Height, Fit: fit}
	default:
		return SizeHint{}
	}
}

// validScale reports whether s is a finite, positive factor.
func validScale(s float32) bool {
	f := float64(s)
	return f > 0 && !math.IsInf(f, 0)
}

// Apply returns the target size for a source of natural size src.
// Both dimensions of the result are at least 1 unless src is empty.
func (h SizeHint) Apply(src Size) Size {
	if src.Width <= 0 || src.Height <= 0 {
		return src
	}
	w, ht := float64(src.Width), float64(src.Height)

	var sx, sy float64
	switch h.Kind {
	case HintScale:
		if !validScale(h.Scale) {
			return src
		}
		sx = float64(h.Scale)
		sy = sx
	case HintWidth:
		if h.Width <= 0 {
			return src
		}
		sx = float64(h.Width) / w
		sy = sx
	case HintHeight:
		if h.Height <= 0 {
			return src
		}
		sy = float64(h.Height) / ht
		sx = sy
	case HintSize:
		if h.Width <= 0 || h.Height <= 0 {
			return src
		}
		fx, fy := float64(h.Width)/w, float64(h.Height)/ht
		switch h.Fit {
		case FitCover:
			sx = math.Max(fx, fy)
			sy = sx
		case FitExact:
			return Size{Width: h.Width, Height: h.Height}
		default:
			sx = math.Min(fx, fy)
			sy = sx
		}
	default:
		return src
	}

	return Size{
		Width:  scaledDim(w * sx),
		Height: scaledDim(ht * sy),
	}
}

// scaledDim rounds v to a dimension in [1, math.MaxInt32].
func scaledDim(v float64) int {
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	return max(1, int(math.Round(v)))
}
