package scheduler_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/packrun/internal/manifest"
	"github.com/vk/packrun/internal/pool"
	"github.com/vk/packrun/internal/record"
	"github.com/vk/packrun/internal/scheduler"
	"github.com/vk/packrun/internal/testutil"
)

func pkg(name string, deps ...string) *manifest.Package {
	p := &manifest.Package{Name: name, Source: manifest.Source{Type: "test"}}
	for _, d := range deps {
		p.Deps = append(p.Deps, manifest.Dependency{Name: d})
	}
	return p
}

func newSet(t *testing.T, packages ...*manifest.Package) *record.Set {
	t.Helper()
	set, err := record.NewSet(packages)
	require.NoError(t, err)
	return set
}

// run wires a real pool around the recorder and drives the scheduler.
func run(t *testing.T, set *record.Set, recorder *testutil.RecordingInstaller, workers int) error {
	t.Helper()
	p := pool.New(context.Background(), recorder, workers, set.Len())
	return scheduler.New(p).Run(context.Background(), set)
}

// classifiedTestError implements record.ClassifiedError for pass-through tests.
type classifiedTestError struct{ pkg string }

func (e *classifiedTestError) Error() string { return fmt.Sprintf("known failure for %s", e.pkg) }
func (e *classifiedTestError) Classified()   {}

func TestScheduler_EmptySetReturnsImmediately(t *testing.T) {
	set := newSet(t)
	recorder := testutil.NewRecordingInstaller()

	require.NoError(t, run(t, set, recorder, 2))
	assert.Zero(t, recorder.InvocationCount())
}

func TestScheduler_DiamondScenario(t *testing.T) {
	// --- Arrange ---
	// A has no dependencies; B and C both depend on A.
	set := newSet(t, pkg("A"), pkg("B", "A"), pkg("C", "A"))
	recorder := testutil.NewRecordingInstaller()
	recorder.Sleep = 20 * time.Millisecond

	// --- Act ---
	err := run(t, set, recorder, 2)

	// --- Assert ---
	require.NoError(t, err)
	for _, rec := range set.Records() {
		assert.Equal(t, record.Done, rec.State(), "package %s", rec.Name())
	}

	a, b, c := recorder.Record("A"), recorder.Record("B"), recorder.Record("C")
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.NotNil(t, c)
	assert.False(t, b.Start.Before(a.End), "B started before A finished")
	assert.False(t, c.Start.Before(a.End), "C started before A finished")
	assert.Equal(t, "A", recorder.StartOrder()[0], "A must dispatch first, alone")
}

func TestScheduler_IndependentPackagesRunConcurrently(t *testing.T) {
	set := newSet(t, pkg("A"), pkg("B"), pkg("C"), pkg("D"))
	recorder := testutil.NewRecordingInstaller()
	recorder.Sleep = 60 * time.Millisecond

	require.NoError(t, run(t, set, recorder, 4))

	assert.Greater(t, recorder.MaxConcurrent(), 1,
		"independent packages with spare workers never overlapped")
}

func TestScheduler_SingleWorkerRunsSequentially(t *testing.T) {
	set := newSet(t, pkg("A"), pkg("B"), pkg("C"))
	recorder := testutil.NewRecordingInstaller()
	recorder.Sleep = 10 * time.Millisecond

	require.NoError(t, run(t, set, recorder, 1))

	assert.Equal(t, 1, recorder.MaxConcurrent())
	for _, rec := range set.Records() {
		assert.Equal(t, record.Done, rec.State())
	}
	// Dispatch tie-break among equally ready packages is declaration order.
	assert.Equal(t, []string{"A", "B", "C"}, recorder.StartOrder())
}

func TestScheduler_EachPackageInstalledExactlyOnce(t *testing.T) {
	set := newSet(t,
		pkg("base"),
		pkg("lib1", "base"), pkg("lib2", "base"),
		pkg("app", "lib1", "lib2"),
	)
	recorder := testutil.NewRecordingInstaller()

	require.NoError(t, run(t, set, recorder, 3))

	assert.Equal(t, set.Len(), recorder.InvocationCount())
	seen := make(map[string]int)
	for _, name := range recorder.StartOrder() {
		seen[name]++
	}
	for name, count := range seen {
		assert.Equal(t, 1, count, "package %s dispatched more than once", name)
	}
}

// invariantPool asserts at every submission that the record's dependencies
// are all Done before delegating to the real pool.
type invariantPool struct {
	*pool.Pool
	t   *testing.T
	set *record.Set
}

func (p *invariantPool) Submit(rec *record.Record) {
	p.t.Helper()
	deps, err := rec.DependencyNames(p.set)
	require.NoError(p.t, err)
	for _, name := range deps {
		dep, ok := p.set.Lookup(name)
		require.True(p.t, ok)
		assert.Equal(p.t, record.Done, dep.State(),
			"package %s submitted while dependency %s is %s", rec.Name(), name, dep.State())
	}
	p.Pool.Submit(rec)
}

func TestScheduler_NeverSubmitsBeforeDependenciesDone(t *testing.T) {
	set := newSet(t,
		pkg("A"), pkg("B", "A"), pkg("C", "B"), pkg("D", "A", "C"),
	)
	recorder := testutil.NewRecordingInstaller()
	recorder.Sleep = 5 * time.Millisecond
	p := &invariantPool{
		Pool: pool.New(context.Background(), recorder, 3, set.Len()),
		t:    t,
		set:  set,
	}

	require.NoError(t, scheduler.New(p).Run(context.Background(), set))
	assert.Equal(t, 4, recorder.InvocationCount())
}

func TestScheduler_FailureShortCircuitsDependents(t *testing.T) {
	// --- Arrange ---
	set := newSet(t, pkg("A"), pkg("B", "A"))
	recorder := testutil.NewRecordingInstaller()
	recorder.FailFor["A"] = errors.New("compile error")

	// --- Act ---
	err := run(t, set, recorder, 2)

	// --- Assert ---
	require.Error(t, err)
	var aggregate *scheduler.AggregateError
	require.ErrorAs(t, err, &aggregate)
	require.Len(t, aggregate.Failures, 1)
	assert.Equal(t, "A", aggregate.Failures[0].Package)
	assert.Contains(t, err.Error(), "compile error")

	a, _ := set.Lookup("A")
	b, _ := set.Lookup("B")
	assert.Equal(t, record.Failed, a.State())
	assert.Equal(t, record.Pending, b.State())
	assert.False(t, recorder.Installed("B"), "dependent of a failed package must never run")
}

func TestScheduler_ClassifiedErrorSurfacesDirectly(t *testing.T) {
	set := newSet(t, pkg("A"))
	recorder := testutil.NewRecordingInstaller()
	known := &classifiedTestError{pkg: "A"}
	recorder.FailFor["A"] = known

	err := run(t, set, recorder, 1)

	require.Error(t, err)
	var classified *classifiedTestError
	require.ErrorAs(t, err, &classified)
	assert.Same(t, known, classified)

	var aggregate *scheduler.AggregateError
	assert.False(t, errors.As(err, &aggregate), "classified errors must not be wrapped in an aggregate")
}

func TestScheduler_OpaqueFailureBecomesAggregate(t *testing.T) {
	set := newSet(t, pkg("A"), pkg("B"))
	recorder := testutil.NewRecordingInstaller()
	recorder.FailFor["B"] = errors.New("disk full")
	// Keep A busy so B's failure is observed deterministically first.
	recorder.SleepFor["A"] = 60 * time.Millisecond

	err := run(t, set, recorder, 2)

	require.Error(t, err)
	var aggregate *scheduler.AggregateError
	require.ErrorAs(t, err, &aggregate)
	assert.Contains(t, aggregate.Error(), "B: disk full")
}

func TestScheduler_MissingDependencyAbortsBeforeDispatch(t *testing.T) {
	set := newSet(t, pkg("A"), pkg("B", "ghost"))
	recorder := testutil.NewRecordingInstaller()

	err := run(t, set, recorder, 2)

	var missing *record.MissingDependencyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "B", missing.Package)
	assert.Equal(t, []string{"ghost"}, missing.Missing)
	assert.Zero(t, recorder.InvocationCount(), "no installer may run when validation fails")
}

func TestScheduler_CycleFailsInsteadOfStalling(t *testing.T) {
	set := newSet(t, pkg("A", "B"), pkg("B", "A"), pkg("C"))
	recorder := testutil.NewRecordingInstaller()

	done := make(chan error, 1)
	go func() { done <- run(t, set, recorder, 2) }()

	select {
	case err := <-done:
		var unresolvable *scheduler.UnresolvableDependenciesError
		require.ErrorAs(t, err, &unresolvable)
		assert.ElementsMatch(t, []string{"A", "B"}, unresolvable.Packages)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler stalled on a cyclic dependency graph")
	}
	assert.Zero(t, recorder.InvocationCount())
}

func TestScheduler_SelfAndDevDependenciesDoNotGate(t *testing.T) {
	set := newSet(t, &manifest.Package{
		Name: "A",
		Deps: []manifest.Dependency{
			{Name: "A"},
			{Name: "linter", Dev: true},
		},
		Source: manifest.Source{Type: "test"},
	})
	recorder := testutil.NewRecordingInstaller()

	require.NoError(t, run(t, set, recorder, 1))

	a, _ := set.Lookup("A")
	assert.Equal(t, record.Done, a.State())
}

func TestScheduler_SuccessKeepsResultMessages(t *testing.T) {
	set := newSet(t, pkg("A"), pkg("B", "A"))
	recorder := testutil.NewRecordingInstaller()
	recorder.MessageFor["A"] = "remember to rehash"

	require.NoError(t, run(t, set, recorder, 2))

	a, _ := set.Lookup("A")
	assert.Equal(t, "remember to rehash", a.Message())
}
