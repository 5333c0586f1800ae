// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
)

// cpuTexture is a texture kept in system memory.
type cpuTexture struct {
	width, height int
	pix           []byte
	destroyed     atomic.Bool
}

func (t *cpuTexture) Width() int  { return t.width }
func (t *cpuTexture) Height() int { return t.height }

// Destroy releases the pixel memory.
func (t *cpuTexture) Destroy() {
	t.destroyed.Store(true)
	t.pix = nil
}

// writePNG writes the texture contents to name.
func (t *cpuTexture) writePNG(name string) error {
	if t.destroyed.Load() {
		return fmt.Errorf("texture destroyed")
	}
	img := &image.NRGBA{
		Pix:    t.pix,
		Stride: t.width * 4,
		Rect:   image.Rect(0, 0, t.width, t.height),
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// cpuCreator implements gpucontext.TextureCreator without a GPU.
type cpuCreator struct {
	created atomic.Int64
}

var _ gpucontext.TextureCreator = (*cpuCreator)(nil)

func (c *cpuCreator) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	if len(data) != width*height*4 {
		return nil, fmt.Errorf("data size %d does not match %dx%d RGBA", len(data), width, height)
	}
	c.created.Add(1)
	return &cpuTexture{
		width:  width,
		height: height,
		pix:    append([]byte(nil), data...),
	}, nil
}
