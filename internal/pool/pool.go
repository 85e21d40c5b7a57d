package pool

import (
	"context"
	"sync"

	"github.com/vk/packrun/internal/ctxlog"
	"github.com/vk/packrun/internal/manifest"
	"github.com/vk/packrun/internal/record"
)

// Executor performs the actual unit of work for one package. It is invoked
// at most once per package, concurrently across workers, and must be safe
// for concurrent calls on distinct packages.
type Executor interface {
	Install(ctx context.Context, pkg *manifest.Package, workerID int) (string, error)
}

// Completion is the hand-off from a worker back to the scheduler. Workers
// never mutate the record; the scheduler applies Message or Err itself, so
// all record writes stay on one goroutine.
type Completion struct {
	Rec     *record.Record
	Message string
	Err     error
}

// Pool runs Executor invocations on a fixed number of worker goroutines.
// Both channels are sized to the total record count, so Submit never blocks
// the scheduler and workers never block handing a completion back.
type Pool struct {
	exec     Executor
	submitCh chan *record.Record
	doneCh   chan Completion
	wg       sync.WaitGroup
	stop     sync.Once
}

// New starts a pool with the given worker count. Capacity must be the total
// number of records the scheduler may submit over the pool's lifetime. A
// worker count below one is clamped to one.
func New(ctx context.Context, exec Executor, workers, capacity int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		exec:     exec,
		submitCh: make(chan *record.Record, capacity),
		doneCh:   make(chan Completion, capacity),
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting worker pool.", "workers", workers, "capacity", capacity)
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(ctx, i)
	}
	return p
}

// worker is the processing loop for a single concurrent worker.
func (p *Pool) worker(ctx context.Context, workerID int) {
	defer p.wg.Done()
	logger := ctxlog.FromContext(ctx).With("workerID", workerID)
	logger.Debug("Worker started.")

	for rec := range p.submitCh {
		logger.Debug("Worker picked up package.", "package", rec.Name())
		message, err := p.exec.Install(ctx, rec.Pkg, workerID)
		p.doneCh <- Completion{Rec: rec, Message: message, Err: err}
	}
	logger.Debug("Worker finished.")
}

// Submit hands a record to the pool for asynchronous execution. The caller
// must have transitioned the record to Queued first.
func (p *Pool) Submit(rec *record.Record) {
	p.submitCh <- rec
}

// TakeCompleted blocks until a submitted package has finished and returns
// its completion. Completion order is unrelated to submission order.
func (p *Pool) TakeCompleted() Completion {
	return <-p.doneCh
}

// Shutdown stops accepting work and waits for in-flight installs to finish.
// It is idempotent and safe to call on a pool that was never used.
func (p *Pool) Shutdown() {
	p.stop.Do(func() {
		close(p.submitCh)
		p.wg.Wait()
	})
}
