// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package asset

import (
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/asset/internal/cache"
)

// DefaultTextureResolverID identifies DefaultTextureResolver in a Registry.
const DefaultTextureResolverID = "github.com/gogpu/asset.DefaultTextureResolver"

// SizedTexture is a GPU texture paired with its pixel size.
type SizedTexture struct {
	Texture gpucontext.Texture
	Size    Size
}

// Uploader creates GPU textures from decoded images.
//
// Upload may be called several times for the same image with different
// options; each call must return a new, independent texture.
type Uploader interface {
	Upload(img *Image, opts RenderOptions) (gpucontext.Texture, error)
}

// UploaderFunc adapts a function to the Uploader interface.
type UploaderFunc func(img *Image, opts RenderOptions) (gpucontext.Texture, error)

// Upload calls f(img, opts).
func (f UploaderFunc) Upload(img *Image, opts RenderOptions) (gpucontext.Texture, error) {
	return f(img, opts)
}

// SamplerConfigurer is implemented by textures that accept a sampler
// descriptor after creation.
type SamplerConfigurer interface {
	SetSamplerDescriptor(desc gputypes.SamplerDescriptor)
}

// CreatorUploader uploads through a gpucontext.TextureCreator, the
// texture factory exposed by gogpu renderers.
type CreatorUploader struct {
	creator gpucontext.TextureCreator
}

// NewUploader returns an Uploader backed by creator.
func NewUploader(creator gpucontext.TextureCreator) *CreatorUploader {
	return &CreatorUploader{creator: creator}
}

// Upload implements Uploader.
func (u *CreatorUploader) Upload(img *Image, opts RenderOptions) (gpucontext.Texture, error) {
	tex, err := u.creator.NewTextureFromRGBA(img.Width, img.Height, img.Pix)
	if err != nil {
		return nil, err
	}

	// Image pixels are straight alpha.
	if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
		pt.SetPremultiplied(false)
	}
	if sc, ok := tex.(SamplerConfigurer); ok {
		sc.SetSamplerDescriptor(opts.SamplerDescriptor())
	}
	return tex, nil
}

// textureDestroyer is implemented by textures that own GPU memory.
type textureDestroyer interface {
	Destroy()
}

// releaseTexture destroys tex if it supports explicit release.
func releaseTexture(tex gpucontext.Texture) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}

type textureKey struct {
	uri  string
	opts RenderOptions
}

// DefaultTextureResolver uploads images from an ImageSource and caches one
// texture per (URI, RenderOptions).
//
// Failures are never cached here: image failures are memoized by the image
// layer, and upload failures are retried on the next poll.
//
// DefaultTextureResolver is safe for concurrent use.
type DefaultTextureResolver struct {
	mu    sync.Mutex
	cache *cache.Cache[textureKey, SizedTexture]
}

// NewDefaultTextureResolver creates an empty resolver.
func NewDefaultTextureResolver() *DefaultTextureResolver {
	return &DefaultTextureResolver{cache: cache.New[textureKey, SizedTexture]()}
}

// ID implements Resolver.
func (r *DefaultTextureResolver) ID() string { return DefaultTextureResolverID }

// ResolveTexture implements TextureResolver.
func (r *DefaultTextureResolver) ResolveTexture(src ImageSource, up Uploader, uri string, opts RenderOptions, hint SizeHint) (TexturePoll, error) {
	if up == nil {
		return TexturePoll{}, ErrNilUploader
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := textureKey{uri: uri, opts: opts}
	if st, ok := r.cache.Get(key); ok {
		return Ready(st), nil
	}

	poll, err := src.ResolveImage(uri, hint)
	if err != nil {
		return TexturePoll{}, err
	}
	if poll.IsPending() {
		return Pending[SizedTexture](poll.Size), nil
	}

	img := poll.Value
	tex, err := up.Upload(img, opts)
	if err != nil {
		Logger().Warn("asset: texture upload failed", "uri", uri, "err", err)
		return TexturePoll{}, &UploadError{URI: uri, Err: err}
	}

	st := SizedTexture{Texture: tex, Size: img.Size()}
	r.cache.Set(key, st)
	Logger().Debug("asset: texture uploaded", "uri", uri, "size", st.Size)
	return Ready(st), nil
}

// Forget releases every texture for uri, whatever its options.
func (r *DefaultTextureResolver) Forget(uri string) {
	r.mu.Lock()
	evicted := r.cache.DeleteFunc(func(k textureKey, _ SizedTexture) bool {
		return k.uri == uri
	})
	r.mu.Unlock()

	for _, st := range evicted {
		releaseTexture(st.Texture)
	}
}

// ForgetAll releases every texture.
func (r *DefaultTextureResolver) ForgetAll() {
	r.mu.Lock()
	evicted := r.cache.Clear()
	r.mu.Unlock()

	for _, st := range evicted {
		releaseTexture(st.Texture)
	}
}

// MemoryUsed implements Resolver. Each texture accounts for its RGBA8 size.
func (r *DefaultTextureResolver) MemoryUsed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Sum(textureBytes)
}

// EndOfFrame evicts least recently used textures until at most budget
// bytes remain.
func (r *DefaultTextureResolver) EndOfFrame(budget int) {
	if budget <= 0 {
		return
	}

	r.mu.Lock()
	total := r.cache.Sum(textureBytes)
	var evicted []SizedTexture
	for _, key := range r.cache.KeysByAge() {
		if total <= budget {
			break
		}
		st, _ := r.cache.Delete(key)
		total -= textureBytes(st)
		evicted = append(evicted, st)
	}
	r.mu.Unlock()

	if len(evicted) > 0 {
		Logger().Warn("asset: textures evicted over budget", "count", len(evicted), "budget", budget, "remaining", total)
	}
	for _, st := range evicted {
		releaseTexture(st.Texture)
	}
}

// CacheStats implements StatsReporter.
func (r *DefaultTextureResolver) CacheStats() CacheStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cacheStats(r.cache.Stats())
}

func textureBytes(st SizedTexture) int {
	return st.Size.Width * st.Size.Height * BytesPerPixel
}
