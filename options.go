// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package asset

import "github.com/gogpu/gputypes"

// RenderOptions configures how a texture is sampled.
//
// RenderOptions is comparable and is part of the texture cache key: the
// same image uploaded with two different options yields two textures.
type RenderOptions struct {
	// MagFilter is used when the texture is drawn larger than its size.
	MagFilter gputypes.FilterMode

	// MinFilter is used when the texture is drawn smaller than its size.
	MinFilter gputypes.FilterMode

	// MipmapFilter selects between mip levels. Undefined means no mipmaps.
	MipmapFilter gputypes.MipmapFilterMode

	// Wrap is the addressing mode for both texture axes.
	Wrap gputypes.AddressMode
}

// DefaultRenderOptions returns linear filtering with clamped edges.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		MagFilter: gputypes.FilterModeLinear,
		MinFilter: gputypes.FilterModeLinear,
		Wrap:      gputypes.AddressModeClampToEdge,
	}
}

// NearestRenderOptions returns nearest-neighbor filtering with clamped
// edges, suited to pixel art.
func NearestRenderOptions() RenderOptions {
	return RenderOptions{
		MagFilter: gputypes.FilterModeNearest,
		MinFilter: gputypes.FilterModeNearest,
		Wrap:      gputypes.AddressModeClampToEdge,
	}
}

// WithWrap returns a copy of o using the given addressing mode.
func (o RenderOptions) WithWrap(mode gputypes.AddressMode) RenderOptions {
	o.Wrap = mode
	return o
}

// SamplerDescriptor converts the options to a sampler descriptor.
func (o RenderOptions) SamplerDescriptor() gputypes.SamplerDescriptor {
	return gputypes.SamplerDescriptor{
		Label:         "asset",
		AddressModeU:  o.Wrap,
		AddressModeV:  o.Wrap,
		AddressModeW:  o.Wrap,
		MagFilter:     o.MagFilter,
		MinFilter:     o.MinFilter,
		MipmapFilter:  o.MipmapFilter,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

// RegistryOption configures a Registry during creation.
type RegistryOption func(*registryOptions)

// registryOptions holds optional configuration for Registry creation.
type registryOptions struct {
	textureBudget int
	noDefaults    bool
}

// defaultRegistryOptions returns the default registry options.
func defaultRegistryOptions() registryOptions {
	return registryOptions{}
}

// WithTextureBudget sets the texture memory budget in bytes enforced by
// Registry.EndOfFrame. Zero (the default) means unlimited.
func WithTextureBudget(bytes int) RegistryOption {
	return func(o *registryOptions) {
		o.textureBudget = max(0, bytes)
	}
}

// WithoutDefaults creates the registry without the default
// MemoryBytesResolver and DefaultTextureResolver.
//
// Use this to install custom resolvers in front of, or instead of, the
// defaults; they can be registered again explicitly afterwards.
func WithoutDefaults() RegistryOption {
	return func(o *registryOptions) {
		o.noDefaults = true
	}
}
