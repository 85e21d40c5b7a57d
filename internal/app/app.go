package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/packrun/internal/ctxlog"
	"github.com/vk/packrun/internal/installer"
	"github.com/vk/packrun/internal/manifest"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *installer.Registry
	manifest *manifest.Manifest
}

// NewApp is the constructor for the main application. It loads the manifest
// through the provided loader and validates the installer registry against
// it. Startup failures are configuration or programmer errors, so it panics;
// main recovers to print a clean message.
func NewApp(outW io.Writer, cfg *Config, loader manifest.Loader, registry *installer.Registry) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	m, err := loader.Load(ctx, cfg.ManifestPath)
	if err != nil {
		panic(fmt.Errorf("failed to load manifest: %w", err))
	}
	logger.Debug("Manifest loaded.", "packages", len(m.Packages))

	if err := registry.Validate(ctx, m); err != nil {
		panic(err)
	}

	return &App{
		outW:     outW,
		logger:   logger,
		registry: registry,
		manifest: m,
	}
}

// Manifest returns the loaded manifest. This is primarily for testing.
func (a *App) Manifest() *manifest.Manifest {
	return a.manifest
}
