// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/asset"
)

// manifest lists application bytes to include before resolving.
//
//	bytes:
//	  - uri: bytes://logo
//	    path: assets/logo.png
//	  - uri: bytes://icon
//	    path: assets/icon.svg
//	    mime: image/svg+xml
type manifest struct {
	Bytes []manifestEntry `yaml:"bytes"`
}

type manifestEntry struct {
	URI  string `yaml:"uri"`
	Path string `yaml:"path"`
	MIME string `yaml:"mime,omitempty"`
}

// loadManifest parses the manifest at name. Relative entry paths are
// resolved against the manifest's directory.
func loadManifest(name string) (*manifest, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", name, err)
	}

	dir := filepath.Dir(name)
	for i, e := range m.Bytes {
		if e.URI == "" || e.Path == "" {
			return nil, fmt.Errorf("manifest %s: entry %d needs uri and path", name, i)
		}
		if !strings.HasPrefix(e.URI, asset.BytesScheme) {
			return nil, fmt.Errorf("manifest %s: entry %d: uri %q must start with %s", name, i, e.URI, asset.BytesScheme)
		}
		if !filepath.IsAbs(e.Path) {
			m.Bytes[i].Path = filepath.Join(dir, e.Path)
		}
	}
	return &m, nil
}

// include reads every manifest file concurrently and inserts the bytes
// into reg.
func (m *manifest) include(ctx context.Context, reg *asset.Registry) error {
	data := make([][]byte, len(m.Bytes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, e := range m.Bytes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := os.ReadFile(e.Path)
			if err != nil {
				return fmt.Errorf("read %s for %s: %w", e.Path, e.URI, err)
			}
			data[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, e := range m.Bytes {
		if err := reg.InsertBytes(e.URI, asset.Bytes{Data: data[i], MIME: e.MIME}); err != nil {
			return err
		}
	}
	return nil
}
