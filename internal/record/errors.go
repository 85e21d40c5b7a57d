package record

import (
	"fmt"
	"strings"
)

// ClassifiedError marks errors with a single known cause. When a run fails
// and any failed record carries a classified error, the scheduler surfaces
// that error directly instead of folding it into an aggregate.
type ClassifiedError interface {
	error
	// Classified is a marker method; implementations carry no behavior here.
	Classified()
}

// MissingDependencyError reports a package whose declared dependencies name
// identities absent from the manifest. It indicates inconsistent input and
// aborts the run before any dispatch.
type MissingDependencyError struct {
	Package string
	Missing []string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("package %q depends on unknown package(s): %s",
		e.Package, strings.Join(e.Missing, ", "))
}

// Classified implements ClassifiedError.
func (e *MissingDependencyError) Classified() {}
