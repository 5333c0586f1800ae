// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package loaders

import (
	"fmt"

	"github.com/gogpu/asset"
)

// Install registers the standard resolvers on reg, in this order:
// FileResolver and HTTPResolver on the bytes layer, SVGResolver and
// RasterResolver on the image layer.
//
// Resolvers already registered stay in front, so custom resolvers
// registered before Install take priority. Install checks every id first:
// when one is taken it fails with asset.ErrDuplicateResolver and registers
// nothing. Registry.Close stops the background fetches.
func Install(reg *asset.Registry, opts ...Option) error {
	ids := []struct {
		layer asset.Layer
		id    string
	}{
		{asset.LayerBytes, FileResolverID},
		{asset.LayerBytes, HTTPResolverID},
		{asset.LayerImage, SVGResolverID},
		{asset.LayerImage, RasterResolverID},
	}
	for _, r := range ids {
		if reg.IsRegistered(r.layer, r.id) {
			return fmt.Errorf("%w: %s resolver %q", asset.ErrDuplicateResolver, r.layer, r.id)
		}
	}

	file := NewFileResolver(opts...)
	web := NewHTTPResolver(opts...)
	err := reg.RegisterBytes(file)
	if err == nil {
		err = reg.RegisterBytes(web)
	}
	if err == nil {
		err = reg.RegisterImage(NewSVGResolver(opts...))
	}
	if err == nil {
		err = reg.RegisterImage(NewRasterResolver(opts...))
	}
	if err != nil {
		// Only a concurrent registration gets here. Stop the pools of the
		// resolvers that did not make it.
		if !reg.IsRegistered(asset.LayerBytes, FileResolverID) {
			_ = file.Close()
		}
		if !reg.IsRegistered(asset.LayerBytes, HTTPResolverID) {
			_ = web.Close()
		}
		return err
	}
	return nil
}

func unsupported(uri string) error {
	return fmt.Errorf("%w: %s", asset.ErrUnsupported, uri)
}
