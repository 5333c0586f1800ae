// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package loaders

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/asset"
	"github.com/gogpu/asset/internal/async"
)

func TestFileResolver(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "icons/a.png", []byte("png-bytes"), 0o644))

	var q async.Queue
	r := NewFileResolver(WithFilesystem(fs), WithFetchRunner(&q))

	poll, err := r.ResolveBytes("file://icons/a.png")
	require.NoError(t, err)
	assert.True(t, poll.IsPending(), "the first poll starts the read")

	poll, err = r.ResolveBytes("file://icons/a.png")
	require.NoError(t, err)
	assert.True(t, poll.IsPending())
	assert.Equal(t, 1, q.Len(), "one read per URI")

	q.Drain()

	poll, err = r.ResolveBytes("file://icons/a.png")
	require.NoError(t, err)
	require.True(t, poll.IsReady())
	assert.Equal(t, "png-bytes", string(poll.Value.Data))
	assert.Equal(t, len("png-bytes"), r.MemoryUsed())
}

func TestFileResolverMissingFileMemoized(t *testing.T) {
	var q async.Queue
	r := NewFileResolver(WithFilesystem(memfs.New()), WithFetchRunner(&q))

	_, err := r.ResolveBytes("file://nope.png")
	require.NoError(t, err)
	q.Drain()

	for range 3 {
		_, err = r.ResolveBytes("file://nope.png")
		var fe *asset.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "file://nope.png", fe.URI)
		assert.ErrorIs(t, err, os.ErrNotExist)
	}
	assert.Zero(t, q.Len(), "failures are not retried")
	assert.Equal(t, 1, r.CacheStats().Entries)
	assert.Zero(t, r.MemoryUsed(), "bytes memory counts buffers only")

	r.ForgetAll()
	assert.Zero(t, r.CacheStats().Entries)
}

func TestFileResolverUnsupported(t *testing.T) {
	r := NewFileResolver(WithFilesystem(memfs.New()))
	defer r.Close()

	_, err := r.ResolveBytes("https://x.test/a.png")
	assert.ErrorIs(t, err, asset.ErrUnsupported)
}

func TestFileResolverHostPath(t *testing.T) {
	dir := t.TempDir()
	name := dir + "/logo.png"
	require.NoError(t, os.WriteFile(name, []byte{1, 2, 3}, 0o600))

	r := NewFileResolver(WithMaxConcurrentFetches(1))
	defer r.Close()

	require.Eventually(t, func() bool {
		poll, err := r.ResolveBytes("file://" + name)
		return err == nil && poll.IsReady() && len(poll.Value.Data) == 3
	}, 5*time.Second, 5*time.Millisecond)
}

func TestFetchForgetDropsInFlightResult(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "a.png", []byte("old"), 0o644))

	var q async.Queue
	r := NewFileResolver(WithFilesystem(fs), WithFetchRunner(&q))

	_, err := r.ResolveBytes("file://a.png")
	require.NoError(t, err)

	r.Forget("file://a.png")
	require.NoError(t, util.WriteFile(fs, "a.png", []byte("new"), 0o644))
	q.Drain()
	assert.Zero(t, r.MemoryUsed(), "stale read is not installed")

	poll, err := r.ResolveBytes("file://a.png")
	require.NoError(t, err)
	require.True(t, poll.IsPending())
	q.Drain()

	poll, err = r.ResolveBytes("file://a.png")
	require.NoError(t, err)
	assert.Equal(t, "new", string(poll.Value.Data))
}

// cancelledQueue defers tasks and runs them with a cancelled context, as a
// closing pool does.
type cancelledQueue struct {
	tasks []func(ctx context.Context)
}

func (q *cancelledQueue) Go(task func(ctx context.Context)) { q.tasks = append(q.tasks, task) }

func (q *cancelledQueue) run() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tasks := q.tasks
	q.tasks = nil
	for _, task := range tasks {
		task(ctx)
	}
}

func TestFetchCancelledResultDropped(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "a.png", []byte("data"), 0o644))

	q := &cancelledQueue{}
	r := NewFileResolver(WithFilesystem(fs), WithFetchRunner(q))

	_, err := r.ResolveBytes("file://a.png")
	require.NoError(t, err)
	q.run()

	assert.Zero(t, r.CacheStats().Entries, "cancellation is not memoized")
	assert.Zero(t, r.MemoryUsed())

	poll, err := r.ResolveBytes("file://a.png")
	require.NoError(t, err)
	assert.True(t, poll.IsPending())
	assert.Len(t, q.tasks, 1, "the next poll starts a new read")
}

func TestHTTPResolverCloseDropsInFlight(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	r := NewHTTPResolver(WithHTTPClient(srv.Client()))
	poll, err := r.ResolveBytes(srv.URL + "/slow")
	require.NoError(t, err)
	require.True(t, poll.IsPending())

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the server")
	}
	require.NoError(t, r.Close())

	poll, err = r.ResolveBytes(srv.URL + "/slow")
	require.NoError(t, err, "a cancelled fetch is not a FetchError")
	assert.True(t, poll.IsPending())
	assert.Zero(t, r.CacheStats().Entries)
}

func newImageServer(t *testing.T, pngData []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/logo", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngData)
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = fmt.Fprint(w, strings.Repeat("x", 2048))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestHTTPResolver(t *testing.T) {
	pngData := encodePNG(t, 2, 2)
	srv, hits := newImageServer(t, pngData)

	var q async.Queue
	r := NewHTTPResolver(WithHTTPClient(srv.Client()), WithFetchRunner(&q))
	uri := srv.URL + "/logo"

	poll, err := r.ResolveBytes(uri)
	require.NoError(t, err)
	assert.True(t, poll.IsPending())
	q.Drain()

	for range 2 {
		poll, err = r.ResolveBytes(uri)
		require.NoError(t, err)
		require.True(t, poll.IsReady())
		assert.Equal(t, pngData, poll.Value.Data)
		assert.Equal(t, "image/png", poll.Value.MIME)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestHTTPResolverFailures(t *testing.T) {
	srv, hits := newImageServer(t, nil)

	var q async.Queue
	r := NewHTTPResolver(WithHTTPClient(srv.Client()), WithFetchRunner(&q), WithMaxBodySize(1024))

	for _, uri := range []string{srv.URL + "/missing", srv.URL + "/big"} {
		_, err := r.ResolveBytes(uri)
		require.NoError(t, err)
	}
	q.Drain()

	_, err := r.ResolveBytes(srv.URL + "/missing")
	var fe *asset.FetchError
	require.ErrorAs(t, err, &fe)
	assert.ErrorIs(t, err, ErrHTTPStatus)
	assert.Contains(t, err.Error(), "404")

	_, err = r.ResolveBytes(srv.URL + "/big")
	assert.ErrorIs(t, err, ErrBodyTooLarge)

	// Memoized: no further requests.
	_, _ = r.ResolveBytes(srv.URL + "/missing")
	assert.Zero(t, q.Len())
	assert.Equal(t, int32(2), hits.Load())

	_, err = r.ResolveBytes("file://a.png")
	assert.ErrorIs(t, err, asset.ErrUnsupported)
}

func TestHTTPResolverPool(t *testing.T) {
	pngData := encodePNG(t, 2, 2)
	srv, _ := newImageServer(t, pngData)

	r := NewHTTPResolver(WithHTTPClient(srv.Client()), WithMaxConcurrentFetches(2))
	defer r.Close()

	require.Eventually(t, func() bool {
		poll, err := r.ResolveBytes(srv.URL + "/logo")
		return err == nil && poll.IsReady()
	}, 5*time.Second, 5*time.Millisecond)
}
