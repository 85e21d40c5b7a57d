package installer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/vk/packrun/internal/ctxlog"
	"github.com/vk/packrun/internal/manifest"
)

// CommandInstaller runs a package's source command through the shell. The
// run-level flags are exposed to the command via PACKRUN_FORCE and
// PACKRUN_STANDALONE so install scripts can honor them.
type CommandInstaller struct {
	opts Options
}

// NewCommandInstaller creates a command installer with the given options.
func NewCommandInstaller(opts Options) *CommandInstaller {
	return &CommandInstaller{opts: opts}
}

// Install implements Installer.
func (c *CommandInstaller) Install(ctx context.Context, pkg *manifest.Package, workerID int) (string, error) {
	logger := ctxlog.FromContext(ctx).With("package", pkg.Name, "workerID", workerID)

	if pkg.Source.Command == "" {
		return "", fmt.Errorf("package %q: command source has no command", pkg.Name)
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", pkg.Source.Command)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("PACKRUN_PACKAGE=%s", pkg.Name),
		fmt.Sprintf("PACKRUN_FORCE=%t", c.opts.Force),
		fmt.Sprintf("PACKRUN_STANDALONE=%t", c.opts.Standalone),
	)
	if c.opts.DestDir != "" {
		cmd.Dir = c.opts.DestDir
	}

	logger.Debug("Running install command.", "command", pkg.Source.Command)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("install command for %q failed: %w\n%s", pkg.Name, err, strings.TrimSpace(string(out)))
	}

	logger.Info("Install command finished.", "output_bytes", len(out))
	return fmt.Sprintf("installed %s", pkg.Name), nil
}
