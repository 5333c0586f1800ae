// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package loaders

import (
	"context"
	"errors"
	"sync"

	"github.com/gogpu/asset"
	"github.com/gogpu/asset/internal/async"
	"github.com/gogpu/asset/internal/cache"
)

type fetchFunc func(ctx context.Context, uri string) (asset.Bytes, error)

// fetchResult is a memoized fetch outcome: bytes or a *asset.FetchError.
type fetchResult struct {
	bytes asset.Bytes
	err   error
}

// size counts buffer bytes only; memoized failures hold no buffer.
func (r fetchResult) size() int {
	return len(r.bytes.Data)
}

// fetcher runs fetches in the background and memoizes their outcome.
//
// The first poll for a URI starts a fetch and returns pending; polls that
// arrive while it runs also return pending. A fetch whose URI was
// forgotten meanwhile, or whose context was cancelled, is dropped instead
// of installed.
type fetcher struct {
	fetch  fetchFunc
	runner asset.Runner
	pool   *async.Pool // owned runner, nil when supplied by the caller

	mu    sync.Mutex
	cache *cache.Cache[string, fetchResult]
	jobs  async.Tracker[string]
}

func newFetcher(fetch fetchFunc, o options) *fetcher {
	f := &fetcher{
		fetch: fetch,
		cache: cache.New[string, fetchResult](),
	}
	if o.fetchRunner != nil {
		f.runner = o.fetchRunner
	} else {
		f.pool = async.NewPool(o.maxFetches)
		f.runner = f.pool
	}
	return f
}

func (f *fetcher) resolve(uri string) (asset.BytesPoll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r, ok := f.cache.Get(uri); ok {
		if r.err != nil {
			return asset.BytesPoll{}, r.err
		}
		return asset.Ready(r.bytes), nil
	}
	if f.jobs.Running(uri) {
		return asset.Pending[asset.Bytes](asset.Size{}), nil
	}

	id, _ := f.jobs.Begin(uri)
	asset.Logger().Debug("asset: fetch started", "uri", uri)
	f.runner.Go(func(ctx context.Context) {
		b, err := f.fetch(ctx, uri)
		cancelled := err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err())
		if err != nil && !cancelled {
			var fe *asset.FetchError
			if !errors.As(err, &fe) {
				err = &asset.FetchError{URI: uri, Err: err}
			}
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		if !f.jobs.Finish(uri, id) {
			asset.Logger().Debug("asset: stale fetch dropped", "uri", uri)
			return
		}
		if cancelled {
			// Shutdown is not a property of the URI.
			asset.Logger().Debug("asset: cancelled fetch dropped", "uri", uri)
			return
		}
		f.cache.Set(uri, fetchResult{bytes: b, err: err})
		asset.Logger().Debug("asset: fetch finished", "uri", uri, "len", len(b.Data), "err", err)
	})
	return asset.Pending[asset.Bytes](asset.Size{}), nil
}

func (f *fetcher) forget(uri string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache.Delete(uri)
	f.jobs.Cancel(func(k string) bool { return k == uri })
}

func (f *fetcher) forgetAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache.Clear()
	f.jobs.Reset()
}

func (f *fetcher) memoryUsed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cache.Sum(fetchResult.size)
}

func (f *fetcher) cacheStats() asset.CacheStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.cache.Stats()
	return asset.CacheStats{Entries: s.Len, Hits: s.Hits, Misses: s.Misses}
}

// close stops the owned pool, cancelling running fetches.
func (f *fetcher) close() error {
	if f.pool == nil {
		return nil
	}
	return f.pool.Close()
}
