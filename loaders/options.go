// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package loaders

import (
	"net/http"

	"github.com/go-git/go-billy/v5"

	"github.com/gogpu/asset"
)

// DefaultMaxBodySize is the largest HTTP response body HTTPResolver reads.
const DefaultMaxBodySize = 64 << 20

// Option configures the resolvers in this package.
// Each constructor uses the options relevant to it and ignores the rest.
type Option func(*options)

type options struct {
	fs           billy.Filesystem
	client       *http.Client
	maxFetches   int
	maxBody      int64
	fetchRunner  asset.Runner
	decodeRunner asset.Runner
}

func defaultOptions() options {
	return options{
		client:  http.DefaultClient,
		maxBody: DefaultMaxBodySize,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFilesystem sets the filesystem FileResolver reads from.
// The default is the host filesystem.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithHTTPClient sets the client HTTPResolver uses.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.client = c
		}
	}
}

// WithMaxConcurrentFetches bounds the fetches each bytes resolver runs at
// once. Non-positive values select the default.
func WithMaxConcurrentFetches(n int) Option {
	return func(o *options) {
		o.maxFetches = n
	}
}

// WithMaxBodySize limits the HTTP response body size in bytes.
// Larger responses fail with ErrBodyTooLarge.
func WithMaxBodySize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBody = n
		}
	}
}

// WithFetchRunner runs fetches on r instead of a private worker pool.
// The caller owns r; closing the resolver does not stop it.
func WithFetchRunner(r asset.Runner) Option {
	return func(o *options) {
		o.fetchRunner = r
	}
}

// WithBackgroundDecode makes image resolvers decode on r. Polls return
// pending until the decode finishes.
func WithBackgroundDecode(r asset.Runner) Option {
	return func(o *options) {
		o.decodeRunner = r
	}
}
