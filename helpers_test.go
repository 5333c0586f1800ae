// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package asset

import (
	"errors"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// fakeTexture records whether it was destroyed.
type fakeTexture struct {
	w, h          int
	destroyed     bool
	premultiplied bool
	sampler       gputypes.SamplerDescriptor
}

func (t *fakeTexture) Width() int              { return t.w }
func (t *fakeTexture) Height() int             { return t.h }
func (t *fakeTexture) Destroy()                { t.destroyed = true }
func (t *fakeTexture) SetPremultiplied(p bool) { t.premultiplied = p }

func (t *fakeTexture) SetSamplerDescriptor(d gputypes.SamplerDescriptor) { t.sampler = d }

// countingUploader creates fakeTextures and counts calls.
type countingUploader struct {
	mu      sync.Mutex
	calls   int
	fail    error
	created []*fakeTexture
}

func (u *countingUploader) Upload(img *Image, _ RenderOptions) (gpucontext.Texture, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	if u.fail != nil {
		return nil, u.fail
	}
	tex := &fakeTexture{w: img.Width, h: img.Height}
	u.created = append(u.created, tex)
	return tex, nil
}

// fakeCreator implements gpucontext.TextureCreator.
type fakeCreator struct {
	last *fakeTexture
	fail error
}

func (c *fakeCreator) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	if c.fail != nil {
		return nil, c.fail
	}
	if len(data) != width*height*4 {
		return nil, errors.New("bad data size")
	}
	c.last = &fakeTexture{w: width, h: height, premultiplied: true}
	return c.last, nil
}

// scriptedImages is an ImageSource that replays results per URI and
// counts calls. Once the script for a URI is exhausted, the last entry
// repeats.
type scriptedImages struct {
	calls   map[string]int
	scripts map[string][]imageResult
}

type imageResult struct {
	poll ImagePoll
	err  error
}

func newScriptedImages() *scriptedImages {
	return &scriptedImages{calls: map[string]int{}, scripts: map[string][]imageResult{}}
}

func (s *scriptedImages) add(uri string, results ...imageResult) {
	s.scripts[uri] = append(s.scripts[uri], results...)
}

func (s *scriptedImages) ResolveImage(uri string, _ SizeHint) (ImagePoll, error) {
	n := s.calls[uri]
	s.calls[uri] = n + 1
	script := s.scripts[uri]
	if len(script) == 0 {
		return ImagePoll{}, unsupported(uri)
	}
	res := script[min(n, len(script)-1)]
	return res.poll, res.err
}

// stubImageResolver is a minimal ImageResolver: it claims URIs with prefix,
// decodes bytes into a 1-pixel-per-byte image and memoizes the result.
type stubImageResolver struct {
	id      string
	prefix  string
	mu      sync.Mutex
	decodes int
	cache   map[string]*Image
}

func newStubImageResolver(id, prefix string) *stubImageResolver {
	return &stubImageResolver{id: id, prefix: prefix, cache: map[string]*Image{}}
}

func (s *stubImageResolver) ID() string { return s.id }

func (s *stubImageResolver) ResolveImage(src BytesSource, uri string, _ SizeHint) (ImagePoll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if img, ok := s.cache[uri]; ok {
		return Ready(img), nil
	}
	if len(uri) < len(s.prefix) || uri[:len(s.prefix)] != s.prefix {
		return ImagePoll{}, unsupported(uri)
	}
	bp, err := src.ResolveBytes(uri)
	if err != nil {
		return ImagePoll{}, err
	}
	if bp.IsPending() {
		return Pending[*Image](bp.Size), nil
	}
	s.decodes++
	img := NewImage(len(bp.Value.Data), 1)
	s.cache[uri] = img
	return Ready(img), nil
}

func (s *stubImageResolver) Forget(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, uri)
}

func (s *stubImageResolver) ForgetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.cache)
}

func (s *stubImageResolver) MemoryUsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, img := range s.cache {
		n += img.ByteSize()
	}
	return n
}
