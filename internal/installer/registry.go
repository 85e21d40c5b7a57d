package installer

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/packrun/internal/ctxlog"
	"github.com/vk/packrun/internal/manifest"
)

// Registry maps manifest source types to installers. It implements Installer
// itself by routing each package to the installer registered for its source
// type, which is what the pool executes.
type Registry struct {
	installers map[string]Installer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{installers: make(map[string]Installer)}
}

// DefaultRegistry returns a registry with the built-in installers wired up.
func DefaultRegistry(opts Options) *Registry {
	r := NewRegistry()
	r.Register("archive", NewArchiveInstaller(opts))
	r.Register("command", NewCommandInstaller(opts))
	r.Register("noop", NoopInstaller{})
	return r
}

// Register binds an installer to a source type, replacing any previous
// binding for that type.
func (r *Registry) Register(sourceType string, inst Installer) {
	r.installers[sourceType] = inst
}

// Lookup returns the installer registered for the given source type.
func (r *Registry) Lookup(sourceType string) (Installer, bool) {
	inst, ok := r.installers[sourceType]
	return inst, ok
}

// Validate performs a parity check between the manifest and the registered
// installers: every source type a package references must resolve. It runs
// at startup so a bad manifest fails before any scheduling.
func (r *Registry) Validate(ctx context.Context, m *manifest.Manifest) error {
	logger := ctxlog.FromContext(ctx)

	var errs []string
	for _, pkg := range m.Packages {
		if pkg.Source.Type == "" {
			errs = append(errs, fmt.Sprintf("package %q: source has no type", pkg.Name))
			continue
		}
		if _, ok := r.installers[pkg.Source.Type]; !ok {
			errs = append(errs, fmt.Sprintf("package %q: no installer registered for source type %q", pkg.Name, pkg.Source.Type))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validation passed.", "source_types", m.SourceTypes())
	return nil
}

// Install implements Installer by dispatching on the package's source type.
func (r *Registry) Install(ctx context.Context, pkg *manifest.Package, workerID int) (string, error) {
	inst, ok := r.installers[pkg.Source.Type]
	if !ok {
		return "", fmt.Errorf("no installer registered for source type %q", pkg.Source.Type)
	}
	return inst.Install(ctx, pkg, workerID)
}
