// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package loaders

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gogpu/asset"
)

// HTTPResolverID identifies HTTPResolver in a Registry.
const HTTPResolverID = "github.com/gogpu/asset/loaders.HTTPResolver"

var (
	// ErrHTTPStatus wraps non-2xx responses.
	ErrHTTPStatus = errors.New("unexpected http status")

	// ErrBodyTooLarge is returned for responses above the body size limit.
	ErrBodyTooLarge = errors.New("response body too large")
)

// HTTPResolver fetches http:// and https:// URIs in the background.
//
// The response Content-Type becomes the MIME type of the bytes. Transport
// errors, non-2xx statuses and oversized bodies are memoized as
// *asset.FetchError until the URI is forgotten.
type HTTPResolver struct {
	client  *http.Client
	maxBody int64
	f       *fetcher
}

// NewHTTPResolver creates an HTTP resolver. It honors WithHTTPClient,
// WithMaxBodySize, WithMaxConcurrentFetches and WithFetchRunner.
func NewHTTPResolver(opts ...Option) *HTTPResolver {
	o := buildOptions(opts)
	r := &HTTPResolver{
		client:  o.client,
		maxBody: o.maxBody,
	}
	r.f = newFetcher(r.get, o)
	return r
}

// ID implements asset.Resolver.
func (r *HTTPResolver) ID() string { return HTTPResolverID }

// ResolveBytes implements asset.BytesSource.
func (r *HTTPResolver) ResolveBytes(uri string) (asset.BytesPoll, error) {
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		return asset.BytesPoll{}, unsupported(uri)
	}
	return r.f.resolve(uri)
}

func (r *HTTPResolver) get(ctx context.Context, uri string) (asset.Bytes, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, http.NoBody)
	if err != nil {
		return asset.Bytes{}, err
	}
	req.Header.Set("Accept", "image/*")

	resp, err := r.client.Do(req)
	if err != nil {
		return asset.Bytes{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return asset.Bytes{}, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBody+1))
	if err != nil {
		return asset.Bytes{}, err
	}
	if int64(len(data)) > r.maxBody {
		return asset.Bytes{}, fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, r.maxBody)
	}
	return asset.Bytes{Data: data, MIME: resp.Header.Get("Content-Type")}, nil
}

// Forget implements asset.Resolver.
func (r *HTTPResolver) Forget(uri string) { r.f.forget(uri) }

// ForgetAll implements asset.Resolver.
func (r *HTTPResolver) ForgetAll() { r.f.forgetAll() }

// MemoryUsed implements asset.Resolver.
func (r *HTTPResolver) MemoryUsed() int { return r.f.memoryUsed() }

// CacheStats implements asset.StatsReporter.
func (r *HTTPResolver) CacheStats() asset.CacheStats { return r.f.cacheStats() }

// Close cancels in-flight requests. Pending URIs stay pending.
func (r *HTTPResolver) Close() error { return r.f.close() }
