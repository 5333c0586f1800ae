// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package async

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultLimit is the number of tasks a Pool runs concurrently when
// NewPool is given a non-positive limit.
const DefaultLimit = 4

// Pool runs tasks on background goroutines with bounded concurrency.
// Pool is safe for concurrent use.
type Pool struct {
	ctx    context.Context
	cancel context.CancelFunc
	sem    *semaphore.Weighted
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPool creates a pool running at most limit tasks at a time.
func NewPool(limit int) *Pool {
	if limit <= 0 {
		limit = DefaultLimit
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		ctx:    ctx,
		cancel: cancel,
		sem:    semaphore.NewWeighted(int64(limit)),
	}
}

// Go schedules task and returns immediately. The task waits for a free
// slot on its own goroutine, so Go never blocks the caller.
//
// Tasks scheduled after Close are dropped.
func (p *Pool) Go(task func(ctx context.Context)) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			return
		}
		defer p.sem.Release(1)
		task(p.ctx)
	}()
}

// Close cancels the context handed to running tasks, drops queued ones,
// and waits for all goroutines to return. Close is idempotent.
func (p *Pool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
	return nil
}
