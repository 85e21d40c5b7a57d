package scheduler

import (
	"fmt"
	"strings"
)

// UnresolvableDependenciesError reports records that can never become
// submittable because their dependency graph contains a cycle. Detected
// before dispatch, so no installer has run when it surfaces.
type UnresolvableDependenciesError struct {
	Packages []string
}

func (e *UnresolvableDependenciesError) Error() string {
	return fmt.Sprintf("dependency cycle leaves package(s) unresolvable: %s",
		strings.Join(e.Packages, ", "))
}

// Classified implements record.ClassifiedError.
func (e *UnresolvableDependenciesError) Classified() {}

// Failure pairs a failed package with the error its installer reported.
type Failure struct {
	Package string
	Err     error
}

// AggregateError is the run outcome when one or more packages failed and
// none of their errors carried a classified cause. Every observed failure is
// listed; nothing is dropped.
type AggregateError struct {
	Failures []Failure
}

func (e *AggregateError) Error() string {
	if len(e.Failures) == 1 {
		f := e.Failures[0]
		return fmt.Sprintf("install failed for %s: %v", f.Package, f.Err)
	}
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Package, f.Err))
	}
	return fmt.Sprintf("install failed for %d packages:\n- %s",
		len(e.Failures), strings.Join(parts, "\n- "))
}
