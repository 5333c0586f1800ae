// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package loaders

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/gogpu/asset"
)

// FileScheme is the URI prefix FileResolver serves.
const FileScheme = "file://"

// FileResolverID identifies FileResolver in a Registry.
const FileResolverID = "github.com/gogpu/asset/loaders.FileResolver"

// FileResolver reads file:// URIs from a filesystem in the background.
//
// Read failures, including missing files, are memoized as *asset.FetchError
// until the URI is forgotten.
type FileResolver struct {
	fs   billy.Filesystem
	base string // prefix for relative paths on the host filesystem
	f    *fetcher
}

// NewFileResolver creates a file resolver. It honors WithFilesystem,
// WithMaxConcurrentFetches and WithFetchRunner.
//
// Without WithFilesystem, URIs name host paths and relative paths resolve
// against the working directory at creation time. With a filesystem, URI
// paths are relative to its root.
func NewFileResolver(opts ...Option) *FileResolver {
	o := buildOptions(opts)
	r := &FileResolver{fs: o.fs}
	if r.fs == nil {
		r.fs = osfs.New("/")
		if wd, err := os.Getwd(); err == nil {
			r.base = wd
		}
	}
	r.f = newFetcher(r.read, o)
	return r
}

// ID implements asset.Resolver.
func (r *FileResolver) ID() string { return FileResolverID }

// ResolveBytes implements asset.BytesSource.
func (r *FileResolver) ResolveBytes(uri string) (asset.BytesPoll, error) {
	if !strings.HasPrefix(uri, FileScheme) {
		return asset.BytesPoll{}, unsupported(uri)
	}
	return r.f.resolve(uri)
}

func (r *FileResolver) read(ctx context.Context, uri string) (asset.Bytes, error) {
	if err := ctx.Err(); err != nil {
		return asset.Bytes{}, err
	}
	data, err := util.ReadFile(r.fs, r.path(uri))
	if err != nil {
		return asset.Bytes{}, err
	}
	return asset.Bytes{Data: data}, nil
}

// path maps a file:// URI to a filesystem path.
func (r *FileResolver) path(uri string) string {
	p := strings.TrimPrefix(uri, FileScheme)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if r.base != "" && !filepath.IsAbs(p) {
		return filepath.Join(r.base, p)
	}
	return path.Clean(p)
}

// Forget implements asset.Resolver.
func (r *FileResolver) Forget(uri string) { r.f.forget(uri) }

// ForgetAll implements asset.Resolver.
func (r *FileResolver) ForgetAll() { r.f.forgetAll() }

// MemoryUsed implements asset.Resolver.
func (r *FileResolver) MemoryUsed() int { return r.f.memoryUsed() }

// CacheStats implements asset.StatsReporter.
func (r *FileResolver) CacheStats() asset.CacheStats { return r.f.cacheStats() }

// Close stops background reads. Pending URIs stay pending.
func (r *FileResolver) Close() error { return r.f.close() }
