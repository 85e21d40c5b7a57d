// Package pool provides the bounded-concurrency execution service behind the
// scheduler. The pool owns every concurrency primitive in the core: worker
// goroutines run Executor invocations in parallel and hand completions back
// one at a time over a channel, serialized, to the single scheduling
// goroutine.
package pool
