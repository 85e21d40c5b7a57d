package installer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/vk/packrun/internal/ctxlog"
	"github.com/vk/packrun/internal/manifest"
)

// ArchiveInstaller fetches a package's payload over HTTP into the
// destination directory.
type ArchiveInstaller struct {
	opts Options
	// client is shared across all installs to reuse TCP connections.
	client *http.Client
}

// NewArchiveInstaller creates an installer writing into opts.DestDir.
func NewArchiveInstaller(opts Options) *ArchiveInstaller {
	return &ArchiveInstaller{opts: opts, client: &http.Client{}}
}

// Install implements Installer. An already-present payload is skipped unless
// Force is set.
func (a *ArchiveInstaller) Install(ctx context.Context, pkg *manifest.Package, workerID int) (string, error) {
	logger := ctxlog.FromContext(ctx).With("package", pkg.Name, "workerID", workerID)

	if pkg.Source.URL == "" {
		return "", fmt.Errorf("package %q: archive source has no url", pkg.Name)
	}

	dest := filepath.Join(a.opts.DestDir, pkg.Name+archiveExt(pkg))
	if !a.opts.Force {
		if _, err := os.Stat(dest); err == nil {
			logger.Debug("Payload already present, skipping fetch.", "dest", dest)
			return fmt.Sprintf("%s already installed", pkg.Name), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pkg.Source.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create fetch request for %q: %w", pkg.Name, err)
	}

	logger.Debug("Fetching archive.", "url", pkg.Source.URL)
	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %q: %w", pkg.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{Package: pkg.Name, URL: pkg.Source.URL, Status: resp.StatusCode}
	}

	if err := os.MkdirAll(a.opts.DestDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}
	file, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer file.Close()

	written, err := io.Copy(file, resp.Body)
	if err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to write payload for %q: %w", pkg.Name, err)
	}

	logger.Info("Archive installed.", "dest", dest, "size", humanize.Bytes(uint64(written)))
	return fmt.Sprintf("installed %s (%s)", pkg.Name, humanize.Bytes(uint64(written))), nil
}

// archiveExt preserves the extension of the source URL, defaulting to
// .tar.gz when the URL has none.
func archiveExt(pkg *manifest.Package) string {
	if ext := filepath.Ext(pkg.Source.URL); ext != "" {
		return ext
	}
	return ".tar.gz"
}
