package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/packrun/internal/app"
	"github.com/vk/packrun/internal/cli"
	"github.com/vk/packrun/internal/hclmanifest"
	"github.com/vk/packrun/internal/installer"
)

// main is the entrypoint for the packrun application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) (err error) {
	cfg, shouldExit, parseErr := cli.Parse(args, outW)
	if parseErr != nil {
		return parseErr
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical startup errors, so we recover here and
	// surface them as ordinary errors.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked | %v", r)
		}
	}()

	registry := installer.DefaultRegistry(installer.Options{
		DestDir:    cfg.DestDir,
		Force:      cfg.Force,
		Standalone: cfg.Standalone,
	})
	packrunApp := app.NewApp(outW, cfg, hclmanifest.NewLoader(), registry)

	return packrunApp.Run(context.Background(), cfg)
}
