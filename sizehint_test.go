// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package asset

import (
	"math"
	"testing"
)

func TestSizeHintApply(t *testing.T) {
	src := Size{Width: 200, Height: 100}

	tests := []struct {
		name string
		hint SizeHint
		want Size
	}{
		{"original", SizeHint{}, src},
		{"scale 2", ScaleHint(2), Size{400, 200}},
		{"scale 0.5", ScaleHint(0.5), Size{100, 50}},
		{"scale invalid", ScaleHint(0), src},
		{"width", WidthHint(50), Size{50, 25}},
		{"height", HeightHint(50), Size{100, 50}},
		{"contain", BoxHint(100, 100, FitContain), Size{100, 50}},
		{"cover", BoxHint(100, 100, FitCover), Size{200, 100}},
		{"exact", BoxHint(30, 40, FitExact), Size{30, 40}},
		{"tiny never zero", ScaleHint(0.001), Size{1, 1}},
		{"scale NaN", ScaleHint(float32(math.NaN())), src},
		{"scale +Inf", ScaleHint(float32(math.Inf(1))), src},
		{"scale -Inf", ScaleHint(float32(math.Inf(-1))), src},
		{"huge scale clamped", ScaleHint(1e30), Size{math.MaxInt32, math.MaxInt32}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hint.Apply(src); got != tt.want {
				t.Errorf("Apply(%v) = %v, want %v", src, got, tt.want)
			}
		})
	}
}

func TestSizeHintApplyEmptySource(t *testing.T) {
	if got := ScaleHint(2).Apply(Size{}); !got.IsZero() {
		t.Errorf("Apply(empty) = %v, want zero", got)
	}
}

func TestSizeHintNormalize(t *testing.T) {
	tests := []struct {
		name string
		a, b SizeHint
	}{
		{"scale one is original", ScaleHint(1), SizeHint{}},
		{"stray fields dropped", SizeHint{Kind: HintWidth, Width: 10, Height: 99, Scale: 3}, WidthHint(10)},
		{"unknown kind", SizeHint{Kind: HintKind(42), Width: 5}, SizeHint{}},
		{"scale NaN", ScaleHint(float32(math.NaN())), SizeHint{}},
		{"scale +Inf", ScaleHint(float32(math.Inf(1))), SizeHint{}},
		{"scale -Inf", ScaleHint(float32(math.Inf(-1))), SizeHint{}},
		{"scale zero", ScaleHint(0), SizeHint{}},
		{"scale negative", ScaleHint(-2), SizeHint{}},
		{"width zero", WidthHint(0), SizeHint{}},
		{"height negative", HeightHint(-3), SizeHint{}},
		{"box without height", BoxHint(10, 0, FitCover), SizeHint{}},
		{"unknown fit is contain", BoxHint(10, 10, Fit(9)), BoxHint(10, 10, FitContain)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, want := tt.a.Normalize(), tt.b.Normalize(); got != want {
				t.Errorf("Normalize() = %+v, want %+v", got, want)
			}
		})
	}

	a := ScaleHint(float32(math.NaN())).Normalize()
	b := ScaleHint(float32(math.NaN())).Normalize()
	if a != b {
		t.Error("NaN scale must normalize to a comparable key")
	}

	if ScaleHint(2).Normalize() == ScaleHint(3).Normalize() {
		t.Error("different scales must not normalize to the same hint")
	}
}

func TestHintKindString(t *testing.T) {
	if got := HintSize.String(); got != "Size" {
		t.Errorf("HintSize.String() = %q, want %q", got, "Size")
	}
	if got := HintKind(99).String(); got != "Unknown" {
		t.Errorf("HintKind(99).String() = %q, want %q", got, "Unknown")
	}
}
