package record

import (
	"fmt"

	"github.com/vk/packrun/internal/manifest"
)

// State is the lifecycle state of a record. Transitions only move forward:
// Pending -> Queued -> Done or Failed.
type State int

const (
	// Pending indicates the record has not been handed to the pool yet.
	Pending State = iota
	// Queued indicates the record was submitted to the pool exactly once.
	Queued
	// Done indicates the install completed successfully.
	Done
	// Failed indicates the install reported an error.
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Queued:
		return "queued"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Record tracks one package through an install run. Records are created in
// bulk before scheduling starts and mutated only by the scheduler goroutine,
// so fields need no synchronization.
type Record struct {
	// Pkg is the manifest entry this record tracks.
	Pkg *manifest.Package

	state   State
	message string
	err     error

	// resolved caches the filtered dependency list. Dev-only and
	// self-referential dependencies are excluded before validation.
	resolved   []string
	resolvedOK bool
}

// New wraps a manifest package in a fresh Pending record.
func New(pkg *manifest.Package) *Record {
	return &Record{Pkg: pkg}
}

// Name returns the package identity.
func (r *Record) Name() string {
	return r.Pkg.Name
}

// State returns the record's current lifecycle state.
func (r *Record) State() State {
	return r.state
}

// Message returns the message reported by the installer on success.
func (r *Record) Message() string {
	return r.message
}

// Err returns the error reported by the installer on failure.
func (r *Record) Err() error {
	return r.err
}

// MarkQueued transitions Pending -> Queued. Submitting a record twice is a
// scheduler bug, so any other starting state panics.
func (r *Record) MarkQueued() {
	if r.state != Pending {
		panic(fmt.Sprintf("record %q: queued from %s", r.Name(), r.state))
	}
	r.state = Queued
}

// MarkDone transitions Queued -> Done and stores the installer's message.
func (r *Record) MarkDone(message string) {
	if r.state != Queued {
		panic(fmt.Sprintf("record %q: done from %s", r.Name(), r.state))
	}
	r.state = Done
	r.message = message
}

// MarkFailed transitions Queued -> Failed and stores the installer's error.
func (r *Record) MarkFailed(err error) {
	if r.state != Queued {
		panic(fmt.Sprintf("record %q: failed from %s", r.Name(), r.state))
	}
	r.state = Failed
	r.err = err
}

// DependencyNames returns the record's filtered dependency list: declared
// dependencies minus dev-only entries and self-references. The list is
// computed once and cached; recomputation is idempotent. Any remaining name
// absent from set is a fatal MissingDependencyError.
func (r *Record) DependencyNames(set *Set) ([]string, error) {
	if r.resolvedOK {
		return r.resolved, nil
	}

	var names []string
	var missing []string
	for _, dep := range r.Pkg.Deps {
		if dep.Dev || dep.Name == r.Name() {
			continue
		}
		if _, ok := set.Lookup(dep.Name); !ok {
			missing = append(missing, dep.Name)
			continue
		}
		names = append(names, dep.Name)
	}
	if len(missing) > 0 {
		return nil, &MissingDependencyError{Package: r.Name(), Missing: missing}
	}

	r.resolved = names
	r.resolvedOK = true
	return r.resolved, nil
}

// Satisfied reports whether every non-ignorable dependency's record is Done.
func (r *Record) Satisfied(set *Set) bool {
	deps, err := r.DependencyNames(set)
	if err != nil {
		return false
	}
	for _, name := range deps {
		dep, ok := set.Lookup(name)
		if !ok || dep.State() != Done {
			return false
		}
	}
	return true
}

// Submittable reports whether the record is Pending with all of its
// non-ignorable dependencies Done.
func (r *Record) Submittable(set *Set) bool {
	return r.state == Pending && r.Satisfied(set)
}
