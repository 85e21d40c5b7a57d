package installer

import (
	"context"
	"fmt"

	"github.com/vk/packrun/internal/manifest"
)

// NoopInstaller succeeds without doing any work. Useful for meta-packages
// that exist only to group dependencies.
type NoopInstaller struct{}

// Install implements Installer.
func (NoopInstaller) Install(_ context.Context, pkg *manifest.Package, _ int) (string, error) {
	return fmt.Sprintf("installed %s", pkg.Name), nil
}
