// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package asset

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
)

// Layer identifies one stage of the pipeline.
type Layer uint8

const (
	// LayerBytes maps URIs to raw bytes.
	LayerBytes Layer = iota

	// LayerImage maps URIs to decoded images.
	LayerImage

	// LayerTexture maps URIs to GPU textures.
	LayerTexture
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerBytes:
		return "bytes"
	case LayerImage:
		return "image"
	case LayerTexture:
		return "texture"
	default:
		return "unknown"
	}
}

// ResolverInfo describes one registered resolver.
type ResolverInfo struct {
	Layer      Layer
	ID         string
	MemoryUsed int
}

// MemoryStats holds the memory used by each layer.
type MemoryStats struct {
	Bytes    int
	Images   int
	Textures int
}

// Total returns the sum over all layers.
func (m MemoryStats) Total() int {
	return m.Bytes + m.Images + m.Textures
}

// Registry holds the resolvers of each layer in priority order and
// dispatches requests to them.
//
// A request goes to each resolver of the layer in registration order and
// stops at the first one that does not report ErrUnsupported. Resolvers
// registered earlier can therefore intercept URIs before the defaults.
//
// Registry is safe for concurrent use. Registration is expected at setup
// time, but may happen concurrently with resolves.
type Registry struct {
	mu       sync.RWMutex
	bytes    []BytesResolver
	images   []ImageResolver
	textures []TextureResolver
	memory   BytesInserter
	opts     registryOptions
}

// NewRegistry creates a registry.
//
// Unless WithoutDefaults is given, the registry starts with a
// MemoryBytesResolver on the bytes layer and a DefaultTextureResolver on the
// texture layer. There is no default image resolver; install decoders with
// loaders.Install or RegisterImage.
func NewRegistry(opts ...RegistryOption) *Registry {
	o := defaultRegistryOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registry{opts: o}
	if !o.noDefaults {
		m := NewMemoryBytesResolver()
		r.memory = m
		r.bytes = []BytesResolver{m}
		r.textures = []TextureResolver{NewDefaultTextureResolver()}
	}
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry, creating it with default
// resolvers on first use.
//
// Prefer passing an explicit Registry; Default exists for code that has no
// way to receive one.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// RegisterBytes appends a bytes resolver.
// It returns ErrDuplicateResolver if the id is already registered on the layer.
func (r *Registry) RegisterBytes(res BytesResolver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := checkUnique(LayerBytes, r.bytes, res); err != nil {
		return err
	}
	r.bytes = append(r.bytes, res)
	if m, ok := res.(BytesInserter); ok && r.memory == nil {
		r.memory = m
	}
	Logger().Info("asset: resolver registered", "layer", LayerBytes, "id", res.ID())
	return nil
}

// RegisterImage appends an image resolver.
// It returns ErrDuplicateResolver if the id is already registered on the layer.
func (r *Registry) RegisterImage(res ImageResolver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := checkUnique(LayerImage, r.images, res); err != nil {
		return err
	}
	r.images = append(r.images, res)
	Logger().Info("asset: resolver registered", "layer", LayerImage, "id", res.ID())
	return nil
}

// RegisterTexture appends a texture resolver.
// It returns ErrDuplicateResolver if the id is already registered on the layer.
func (r *Registry) RegisterTexture(res TextureResolver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := checkUnique(LayerTexture, r.textures, res); err != nil {
		return err
	}
	r.textures = append(r.textures, res)
	Logger().Info("asset: resolver registered", "layer", LayerTexture, "id", res.ID())
	return nil
}

func checkUnique[R Resolver](layer Layer, list []R, res R) error {
	id := res.ID()
	if slices.ContainsFunc(list, func(have R) bool { return have.ID() == id }) {
		return fmt.Errorf("%w: %s resolver %q", ErrDuplicateResolver, layer, id)
	}
	return nil
}

// IsRegistered reports whether a resolver with id is registered on layer.
func (r *Registry) IsRegistered(layer Layer, id string) bool {
	for _, info := range r.resolverIDs() {
		if info.Layer == layer && info.ID == id {
			return true
		}
	}
	return false
}

// Resolvers lists every registered resolver in dispatch order, with its
// current memory use.
func (r *Registry) Resolvers() []ResolverInfo {
	bytes, images, textures := r.snapshot()

	infos := make([]ResolverInfo, 0, len(bytes)+len(images)+len(textures))
	for _, res := range bytes {
		infos = append(infos, ResolverInfo{Layer: LayerBytes, ID: res.ID(), MemoryUsed: res.MemoryUsed()})
	}
	for _, res := range images {
		infos = append(infos, ResolverInfo{Layer: LayerImage, ID: res.ID(), MemoryUsed: res.MemoryUsed()})
	}
	for _, res := range textures {
		infos = append(infos, ResolverInfo{Layer: LayerTexture, ID: res.ID(), MemoryUsed: res.MemoryUsed()})
	}
	return infos
}

// resolverIDs is Resolvers without the memory computation.
func (r *Registry) resolverIDs() []ResolverInfo {
	bytes, images, textures := r.snapshot()

	var infos []ResolverInfo
	for _, res := range bytes {
		infos = append(infos, ResolverInfo{Layer: LayerBytes, ID: res.ID()})
	}
	for _, res := range images {
		infos = append(infos, ResolverInfo{Layer: LayerImage, ID: res.ID()})
	}
	for _, res := range textures {
		infos = append(infos, ResolverInfo{Layer: LayerTexture, ID: res.ID()})
	}
	return infos
}

// CacheStats returns the cache statistics of every resolver that reports
// them, keyed by layer and id.
func (r *Registry) CacheStats() map[ResolverInfo]CacheStats {
	stats := make(map[ResolverInfo]CacheStats)
	for _, info := range r.resolverIDs() {
		if sr, ok := r.lookup(info.Layer, info.ID).(StatsReporter); ok {
			stats[info] = sr.CacheStats()
		}
	}
	return stats
}

func (r *Registry) lookup(layer Layer, id string) Resolver {
	bytes, images, textures := r.snapshot()
	var list []Resolver
	switch layer {
	case LayerBytes:
		list = toResolvers(bytes)
	case LayerImage:
		list = toResolvers(images)
	case LayerTexture:
		list = toResolvers(textures)
	}
	for _, res := range list {
		if res.ID() == id {
			return res
		}
	}
	return nil
}

func toResolvers[R Resolver](list []R) []Resolver {
	out := make([]Resolver, len(list))
	for i, res := range list {
		out[i] = res
	}
	return out
}

// snapshot returns the current resolver lists. Dispatch runs on the
// snapshot so that resolvers never run under the registry lock.
func (r *Registry) snapshot() ([]BytesResolver, []ImageResolver, []TextureResolver) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bytes, r.images, r.textures
}

// IncludeBytes registers application-provided bytes for uri, usually a
// bytes:// URI, with the first registered BytesInserter (by default the
// MemoryBytesResolver).
func (r *Registry) IncludeBytes(uri string, data []byte) error {
	return r.InsertBytes(uri, Bytes{Data: data})
}

// InsertBytes is like IncludeBytes but also records a size or MIME type.
func (r *Registry) InsertBytes(uri string, b Bytes) error {
	r.mu.RLock()
	m := r.memory
	r.mu.RUnlock()

	if m == nil {
		return ErrNoMemoryResolver
	}
	m.InsertBytes(uri, b)
	return nil
}

// ResolveBytes dispatches to the bytes resolvers.
func (r *Registry) ResolveBytes(uri string) (BytesPoll, error) {
	bytes, _, _ := r.snapshot()
	return dispatch(bytes, uri, func(res BytesResolver) (BytesPoll, error) {
		return res.ResolveBytes(uri)
	})
}

// ResolveImage dispatches to the image resolvers, which poll the registry
// for bytes. A memoized or in-flight image held by any resolver is
// returned first, without touching the bytes layer.
func (r *Registry) ResolveImage(uri string, hint SizeHint) (ImagePoll, error) {
	_, images, _ := r.snapshot()
	for _, res := range images {
		c, ok := res.(CachedImageResolver)
		if !ok {
			continue
		}
		if poll, ok, err := c.CachedImage(uri, hint); ok {
			return poll, err
		}
	}
	return dispatch(images, uri, func(res ImageResolver) (ImagePoll, error) {
		return res.ResolveImage(r, uri, hint)
	})
}

// ResolveTexture dispatches to the texture resolvers, which poll the
// registry for images and create textures through up.
func (r *Registry) ResolveTexture(up Uploader, uri string, opts RenderOptions, hint SizeHint) (TexturePoll, error) {
	if up == nil {
		return TexturePoll{}, ErrNilUploader
	}
	_, _, textures := r.snapshot()
	return dispatch(textures, uri, func(res TextureResolver) (TexturePoll, error) {
		return res.ResolveTexture(r, up, uri, opts, hint)
	})
}

// dispatch calls resolve on each resolver in order until one returns
// something other than ErrUnsupported.
func dispatch[R any, T any](list []R, uri string, resolve func(R) (Poll[T], error)) (Poll[T], error) {
	for _, res := range list {
		poll, err := resolve(res)
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		return poll, err
	}
	return Poll[T]{}, unsupported(uri)
}

// Forget evicts uri from every resolver of every layer.
func (r *Registry) Forget(uri string) {
	bytes, images, textures := r.snapshot()
	for _, res := range textures {
		res.Forget(uri)
	}
	for _, res := range images {
		res.Forget(uri)
	}
	for _, res := range bytes {
		res.Forget(uri)
	}
	Logger().Debug("asset: forget", "uri", uri)
}

// ForgetAll evicts everything from every resolver.
func (r *Registry) ForgetAll() {
	bytes, images, textures := r.snapshot()
	for _, res := range textures {
		res.ForgetAll()
	}
	for _, res := range images {
		res.ForgetAll()
	}
	for _, res := range bytes {
		res.ForgetAll()
	}
}

// MemoryUsed returns the memory used by each layer.
func (r *Registry) MemoryUsed() MemoryStats {
	bytes, images, textures := r.snapshot()
	var m MemoryStats
	for _, res := range bytes {
		m.Bytes += res.MemoryUsed()
	}
	for _, res := range images {
		m.Images += res.MemoryUsed()
	}
	for _, res := range textures {
		m.Textures += res.MemoryUsed()
	}
	return m
}

// EndOfFrame lets every texture resolver enforce the budget configured
// with WithTextureBudget. Call it once per frame after drawing.
func (r *Registry) EndOfFrame() {
	_, _, textures := r.snapshot()
	for _, res := range textures {
		res.EndOfFrame(r.opts.textureBudget)
	}
}

// Close closes every resolver implementing io.Closer, which stops their
// background work, then releases all cached state including textures.
func (r *Registry) Close() error {
	bytes, images, textures := r.snapshot()

	var errs []error
	closeAll := func(list []Resolver) {
		for _, res := range list {
			if c, ok := res.(io.Closer); ok {
				if err := c.Close(); err != nil {
					errs = append(errs, fmt.Errorf("asset: close %s: %w", res.ID(), err))
				}
			}
		}
	}
	closeAll(toResolvers(textures))
	closeAll(toResolvers(images))
	closeAll(toResolvers(bytes))

	r.ForgetAll()
	return errors.Join(errs...)
}
