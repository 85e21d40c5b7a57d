package manifest

// Dependency names one prerequisite of a package. Dev dependencies are
// tooling-only and never gate install order.
type Dependency struct {
	Name string
	Dev  bool
}

// Source describes where a package's payload comes from and which installer
// handles it. Options are free-form attributes passed to the installer
// untouched.
type Source struct {
	Type    string
	URL     string
	Command string
	Options map[string]string
}

// Package is the format-agnostic representation of one `package` block.
type Package struct {
	Name string
	Deps []Dependency
	// Source selects and configures the installer for this package.
	Source Source
	// PostInstall is an optional notice surfaced to the user after the
	// package installs successfully.
	PostInstall string
}

// Manifest is the full, ordered set of packages requested for a run. Order
// matches declaration order and is the tie-break for dispatch.
type Manifest struct {
	Packages []*Package
}

// SourceTypes returns the distinct source types referenced by the manifest,
// in first-seen order.
func (m *Manifest) SourceTypes() []string {
	seen := make(map[string]struct{})
	var types []string
	for _, pkg := range m.Packages {
		if _, ok := seen[pkg.Source.Type]; ok {
			continue
		}
		seen[pkg.Source.Type] = struct{}{}
		types = append(types, pkg.Source.Type)
	}
	return types
}
