// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package loaders

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/asset"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 10" width="20" height="10">` +
	`<rect x="0" y="0" width="20" height="10" fill="#ff0000"/></svg>`

// encodePNG returns a w x h PNG of random opaque pixels, which does not
// compress, so its size grows with w*h.
func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewPCG(1, 2))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(rng.UintN(256))
		img.Pix[i+1] = uint8(rng.UintN(256))
		img.Pix[i+2] = uint8(rng.UintN(256))
		img.Pix[i+3] = 255
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// countingBytes is a MemoryBytesResolver that counts resolves.
type countingBytes struct {
	*asset.MemoryBytesResolver
	calls atomic.Int32
}

func newCountingBytes() *countingBytes {
	return &countingBytes{MemoryBytesResolver: asset.NewMemoryBytesResolver()}
}

func (c *countingBytes) ResolveBytes(uri string) (asset.BytesPoll, error) {
	c.calls.Add(1)
	return c.MemoryBytesResolver.ResolveBytes(uri)
}

type testTexture struct {
	w, h      int
	destroyed atomic.Bool
}

func (t *testTexture) Width() int  { return t.w }
func (t *testTexture) Height() int { return t.h }
func (t *testTexture) Destroy()    { t.destroyed.Store(true) }

// testUploader creates testTextures and counts uploads.
type testUploader struct {
	mu      sync.Mutex
	created []*testTexture
}

func (u *testUploader) Upload(img *asset.Image, _ asset.RenderOptions) (gpucontext.Texture, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	tex := &testTexture{w: img.Width, h: img.Height}
	u.created = append(u.created, tex)
	return tex, nil
}

func (u *testUploader) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.created)
}
