// Package record holds the per-package lifecycle bookkeeping for an install
// run: the forward-only state machine, the cached and validated dependency
// list, and the ordered Set the scheduler drives. Records are owned by the
// scheduler goroutine; nothing here is safe for concurrent mutation and
// nothing needs to be.
package record
