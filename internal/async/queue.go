// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package async

import (
	"context"
	"sync"
)

// Queue is a runner that defers every task until Drain.
// Queue is safe for concurrent use.
type Queue struct {
	mu    sync.Mutex
	tasks []func(ctx context.Context)
}

// Go appends task to the queue.
func (q *Queue) Go(task func(ctx context.Context)) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Drain runs all queued tasks on the calling goroutine and returns how
// many ran. Tasks queued by running tasks run in the same call.
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		tasks := q.tasks
		q.tasks = nil
		q.mu.Unlock()

		if len(tasks) == 0 {
			return n
		}
		for _, task := range tasks {
			task(context.Background())
			n++
		}
	}
}
