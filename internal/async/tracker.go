// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package async

// Tracker records in-flight jobs by key.
//
// Each Begin hands out a fresh job id. Finish reports whether that id is
// still the current job for the key, which is false once the key was
// cancelled (for example by a Forget) or restarted. Results of stale jobs
// must be dropped.
//
// Tracker is not safe for concurrent use; the owner's mutex guards it.
type Tracker[K comparable] struct {
	next   uint64
	active map[K]uint64
}

// Begin marks key as in flight. It returns false if a job for key is
// already running.
func (t *Tracker[K]) Begin(key K) (id uint64, ok bool) {
	if _, running := t.active[key]; running {
		return 0, false
	}
	if t.active == nil {
		t.active = make(map[K]uint64)
	}
	t.next++
	t.active[key] = t.next
	return t.next, true
}

// Finish ends job id for key. It returns true if the job was still
// current, meaning the caller should install its result.
func (t *Tracker[K]) Finish(key K, id uint64) bool {
	if cur, ok := t.active[key]; !ok || cur != id {
		return false
	}
	delete(t.active, key)
	return true
}

// Running reports whether a job for key is in flight.
func (t *Tracker[K]) Running(key K) bool {
	_, ok := t.active[key]
	return ok
}

// Cancel forgets every in-flight key matched by match.
func (t *Tracker[K]) Cancel(match func(K) bool) {
	for key := range t.active {
		if match(key) {
			delete(t.active, key)
		}
	}
}

// Reset forgets all in-flight keys.
func (t *Tracker[K]) Reset() {
	clear(t.active)
}

// Len returns the number of jobs in flight.
func (t *Tracker[K]) Len() int {
	return len(t.active)
}
