// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package loaders

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/asset"
	"github.com/gogpu/asset/internal/async"
	"github.com/gogpu/asset/internal/cache"
)

type imageKey struct {
	uri  string
	hint asset.SizeHint
}

// imageEntry is a memoized decode outcome: an image or a decode error.
type imageEntry struct {
	img *asset.Image
	err error
}

func (e imageEntry) size() int {
	if e.err != nil {
		return asset.ErrorSize(e.err)
	}
	return e.img.ByteSize()
}

// decodeFunc decodes data of format f at the given hint.
type decodeFunc func(f Format, data []byte, hint asset.SizeHint) (*asset.Image, error)

// decoder is the cache and scheduling shared by the image resolvers.
//
// Only terminal outcomes are cached. Unrecognized formats and failures of
// the bytes layer pass through uncached.
type decoder struct {
	accept  func(Format) bool
	decode  decodeFunc
	keyHint func(asset.SizeHint) asset.SizeHint
	runner  asset.Runner

	mu    sync.Mutex
	cache *cache.Cache[imageKey, imageEntry]
	jobs  async.Tracker[imageKey]
}

func newDecoder(accept func(Format) bool, decode decodeFunc, keyHint func(asset.SizeHint) asset.SizeHint, runner asset.Runner) *decoder {
	return &decoder{
		accept:  accept,
		decode:  decode,
		keyHint: keyHint,
		runner:  runner,
		cache:   cache.New[imageKey, imageEntry](),
	}
}

func (d *decoder) resolve(src asset.BytesSource, uri string, hint asset.SizeHint) (asset.ImagePoll, error) {
	key := imageKey{uri: uri, hint: d.keyHint(hint)}

	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.cache.Get(key); ok {
		return e.poll()
	}
	if d.jobs.Running(key) {
		return asset.Pending[*asset.Image](asset.Size{}), nil
	}

	bp, err := src.ResolveBytes(uri)
	if err != nil {
		return asset.ImagePoll{}, err
	}
	if bp.IsPending() {
		return asset.Pending[*asset.Image](bp.Size), nil
	}

	b := bp.Value
	format := DetectFormat(uri, b)
	if !d.accept(format) {
		return asset.ImagePoll{}, fmt.Errorf("%w: %s (format %s)", asset.ErrUnsupported, uri, format)
	}

	if d.runner == nil {
		e := d.run(format, b.Data, key.hint)
		d.cache.Set(key, e)
		asset.Logger().Debug("asset: image decoded", "uri", uri, "format", format, "err", e.err)
		return e.poll()
	}

	id, _ := d.jobs.Begin(key)
	d.runner.Go(func(context.Context) {
		e := d.run(format, b.Data, key.hint)

		d.mu.Lock()
		defer d.mu.Unlock()
		if !d.jobs.Finish(key, id) {
			asset.Logger().Debug("asset: stale decode dropped", "uri", uri)
			return
		}
		d.cache.Set(key, e)
		asset.Logger().Debug("asset: image decoded", "uri", uri, "format", format, "err", e.err)
	})
	return asset.Pending[*asset.Image](b.Size), nil
}

// lookup answers from the cache and running jobs only. Misses are not
// counted in the cache statistics; resolve counts them.
func (d *decoder) lookup(uri string, hint asset.SizeHint) (asset.ImagePoll, bool, error) {
	key := imageKey{uri: uri, hint: d.keyHint(hint)}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.cache.Peek(key); ok {
		e, _ := d.cache.Get(key)
		poll, err := e.poll()
		return poll, true, err
	}
	if d.jobs.Running(key) {
		return asset.Pending[*asset.Image](asset.Size{}), true, nil
	}
	return asset.ImagePoll{}, false, nil
}

// run invokes the decoder, turning errors and panics into a DecodeError.
func (d *decoder) run(format Format, data []byte, hint asset.SizeHint) (e imageEntry) {
	defer func() {
		if r := recover(); r != nil {
			e = imageEntry{err: &asset.DecodeError{Format: format.String(), Message: fmt.Sprint(r)}}
		}
	}()

	img, err := d.decode(format, data, hint)
	if err != nil {
		var de *asset.DecodeError
		if !errors.As(err, &de) {
			de = &asset.DecodeError{Format: format.String(), Message: err.Error()}
		}
		return imageEntry{err: de}
	}
	return imageEntry{img: img}
}

func (e imageEntry) poll() (asset.ImagePoll, error) {
	if e.err != nil {
		return asset.ImagePoll{}, e.err
	}
	return asset.Ready(e.img), nil
}

func (d *decoder) forget(uri string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache.DeleteFunc(func(k imageKey, _ imageEntry) bool { return k.uri == uri })
	d.jobs.Cancel(func(k imageKey) bool { return k.uri == uri })
}

func (d *decoder) forgetAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache.Clear()
	d.jobs.Reset()
}

func (d *decoder) memoryUsed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cache.Sum(imageEntry.size)
}

func (d *decoder) cacheStats() asset.CacheStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.cache.Stats()
	return asset.CacheStats{Entries: s.Len, Hits: s.Hits, Misses: s.Misses}
}
