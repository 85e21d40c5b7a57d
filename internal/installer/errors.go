package installer

import "fmt"

// FetchError reports a non-OK HTTP response while fetching an archive. It is
// a classified error: the scheduler surfaces it directly instead of folding
// it into an aggregate.
type FetchError struct {
	Package string
	URL     string
	Status  int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch for %q failed: %s returned status %d", e.Package, e.URL, e.Status)
}

// Classified implements record.ClassifiedError.
func (e *FetchError) Classified() {}
