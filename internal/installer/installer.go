package installer

import (
	"context"

	"github.com/vk/packrun/internal/manifest"
)

// Installer performs the actual work for one package. Install is called at
// most once per package, concurrently across pool workers, and must be safe
// to invoke concurrently for distinct packages. The returned message is
// surfaced to the user on success.
type Installer interface {
	Install(ctx context.Context, pkg *manifest.Package, workerID int) (string, error)
}

// Options carries run-level flags into installers. The scheduler never
// interprets them; they are captured at registry construction and passed
// through untouched.
type Options struct {
	// DestDir is where archive installers place fetched payloads.
	DestDir string
	// Force reinstalls packages whose payload is already present.
	Force bool
	// Standalone is exposed to command installers via the environment.
	Standalone bool
}
