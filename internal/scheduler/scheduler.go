package scheduler

import (
	"context"
	"errors"

	"github.com/vk/packrun/internal/ctxlog"
	"github.com/vk/packrun/internal/pool"
	"github.com/vk/packrun/internal/record"
)

// WorkPool is the execution service contract the scheduler drives. The real
// implementation is pool.Pool; tests substitute their own.
type WorkPool interface {
	Submit(*record.Record)
	TakeCompleted() pool.Completion
	Shutdown()
}

// Scheduler drives a record set through a worker pool so every package
// installs exactly once, never before its dependencies.
type Scheduler struct {
	pool WorkPool
}

// New creates a scheduler bound to the given pool.
func New(p WorkPool) *Scheduler {
	return &Scheduler{pool: p}
}

// Run installs every record in the set. It returns nil when all records end
// Done. On failure it returns the first classified error found in record
// order, or an AggregateError listing every observed failure.
//
// All record mutation happens on the calling goroutine; the only blocking
// point is TakeCompleted. The pool is shut down on every exit path.
func (s *Scheduler) Run(ctx context.Context, set *record.Set) error {
	logger := ctxlog.FromContext(ctx)
	defer s.pool.Shutdown()

	if err := set.Validate(); err != nil {
		return err
	}
	if err := checkResolvable(set); err != nil {
		return err
	}
	if set.Len() == 0 {
		logger.Debug("Empty record set, nothing to schedule.")
		return nil
	}

	logger.Debug("Scheduling started.", "packages", set.Len())
	s.dispatch(ctx, set)

	failed := false
	for remaining := set.Len(); remaining > 0; remaining-- {
		c := s.pool.TakeCompleted()
		if c.Err != nil {
			c.Rec.MarkFailed(c.Err)
			logger.Error("Package install failed.", "package", c.Rec.Name(), "error", c.Err)
			failed = true
			// Remaining in-flight installs finish inside Shutdown, but the
			// run's outcome is already decided.
			break
		}
		c.Rec.MarkDone(c.Message)
		logger.Debug("Package installed.", "package", c.Rec.Name())
		s.dispatch(ctx, set)
	}

	if failed {
		return s.aggregate(set)
	}
	logger.Debug("Scheduling finished, all packages done.")
	return nil
}

// dispatch scans the set in declaration order and submits every record whose
// dependencies are all Done. It runs once up front and again after every
// completion, so newly unblocked records become eligible incrementally.
func (s *Scheduler) dispatch(ctx context.Context, set *record.Set) {
	logger := ctxlog.FromContext(ctx)
	for _, rec := range set.Records() {
		if !rec.Submittable(set) {
			continue
		}
		rec.MarkQueued()
		logger.Debug("Dispatching package.", "package", rec.Name())
		s.pool.Submit(rec)
	}
}

// aggregate builds the run's failure outcome from the failed records.
func (s *Scheduler) aggregate(set *record.Set) error {
	var failures []Failure
	for _, rec := range set.Records() {
		if rec.State() != record.Failed {
			continue
		}
		var classified record.ClassifiedError
		if errors.As(rec.Err(), &classified) {
			return classified
		}
		failures = append(failures, Failure{Package: rec.Name(), Err: rec.Err()})
	}
	return &AggregateError{Failures: failures}
}

// checkResolvable runs a Kahn-style ordering pass over the filtered
// dependency graph. If any record cannot be ordered the graph contains a
// cycle, and the run fails up front instead of stalling in the drain loop.
func checkResolvable(set *record.Set) error {
	indegree := make(map[string]int, set.Len())
	dependents := make(map[string][]string)
	for _, rec := range set.Records() {
		deps, err := rec.DependencyNames(set)
		if err != nil {
			return err
		}
		indegree[rec.Name()] = len(deps)
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], rec.Name())
		}
	}

	var queue []string
	for _, rec := range set.Records() {
		if indegree[rec.Name()] == 0 {
			queue = append(queue, rec.Name())
		}
	}

	ordered := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		ordered++
		for _, dependent := range dependents[name] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if ordered == set.Len() {
		return nil
	}
	var stuck []string
	for _, rec := range set.Records() {
		if indegree[rec.Name()] > 0 {
			stuck = append(stuck, rec.Name())
		}
	}
	return &UnresolvableDependenciesError{Packages: stuck}
}
