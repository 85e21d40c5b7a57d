package record

import (
	"fmt"

	"github.com/vk/packrun/internal/manifest"
)

// Set is the full record collection for one run. It preserves manifest
// declaration order, which is the dispatch tie-break among simultaneously
// submittable records.
type Set struct {
	records []*Record
	byName  map[string]*Record
}

// NewSet builds records for every manifest package. Each identity must
// appear exactly once.
func NewSet(packages []*manifest.Package) (*Set, error) {
	set := &Set{byName: make(map[string]*Record, len(packages))}
	for _, pkg := range packages {
		if _, ok := set.byName[pkg.Name]; ok {
			return nil, fmt.Errorf("duplicate package %q in manifest", pkg.Name)
		}
		rec := New(pkg)
		set.records = append(set.records, rec)
		set.byName[pkg.Name] = rec
	}
	return set, nil
}

// Records returns all records in declaration order. Callers must not reorder
// the returned slice.
func (s *Set) Records() []*Record {
	return s.records
}

// Lookup returns the record for the given identity.
func (s *Set) Lookup(name string) (*Record, bool) {
	rec, ok := s.byName[name]
	return rec, ok
}

// Len returns the number of records in the set.
func (s *Set) Len() int {
	return len(s.records)
}

// Validate resolves every record's dependency list, failing fast on the
// first record that names an unknown package. It runs before any dispatch,
// so a MissingDependencyError means no installer was ever invoked.
func (s *Set) Validate() error {
	for _, rec := range s.records {
		if _, err := rec.DependencyNames(s); err != nil {
			return err
		}
	}
	return nil
}
