package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/packrun/internal/ctxlog"
	"github.com/vk/packrun/internal/pool"
	"github.com/vk/packrun/internal/record"
	"github.com/vk/packrun/internal/report"
	"github.com/vk/packrun/internal/scheduler"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if cfg.HealthcheckPort > 0 {
		go a.startHealthcheckServer(ctx, cfg.HealthcheckPort)
	}

	set, err := record.NewSet(a.manifest.Packages)
	if err != nil {
		return err
	}
	if set.Len() == 0 {
		a.logger.Warn("No packages found in manifest, nothing to install.")
		return nil
	}

	a.logger.Info("Starting parallel install.", "packages", set.Len(), "workers", cfg.WorkerCount)
	started := time.Now()

	p := pool.New(ctx, a.registry, cfg.WorkerCount, set.Len())
	if err := scheduler.New(p).Run(ctx, set); err != nil {
		return fmt.Errorf("install failed: %w", err)
	}

	a.logger.Info("Install finished.", "packages", set.Len(), "elapsed", time.Since(started).Round(time.Millisecond))
	for _, rec := range set.Records() {
		if rec.Pkg.PostInstall != "" {
			a.logger.Info("Post-install notice.", "package", rec.Name(), "notice", rec.Pkg.PostInstall)
		}
	}

	if cfg.ReportPath != "" {
		if err := report.Build(set, cfg.WorkerCount).Write(cfg.ReportPath); err != nil {
			return err
		}
		a.logger.Debug("Install report written.", "path", cfg.ReportPath)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
