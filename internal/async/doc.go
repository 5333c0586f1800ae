// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package async runs the background half of non-blocking resolution.
//
// A poll that needs slow work (a file read, an HTTP fetch, a decode) starts
// it once and returns Pending. The work runs on a runner and installs its
// result into the owning resolver's cache; a later poll observes it.
//
//   - Pool runs tasks on goroutines, at most N at a time, and cancels them
//     through their context on Close.
//   - Queue collects tasks and runs them only when Drain is called, which
//     makes "work completes between two frames" deterministic in tests.
//   - Tracker records which keys have a job in flight. It is not locked:
//     the owning resolver guards it with the same mutex as its cache.
package async
