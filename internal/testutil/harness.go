package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/packrun/internal/app"
	"github.com/vk/packrun/internal/hclmanifest"
	"github.com/vk/packrun/internal/installer"
)

// HarnessResult holds the outcomes of an app-level test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
}

// RunAppTest writes the given manifest files into a temp directory, builds
// an app whose registry routes the "test" source type to inst, and runs it.
// Startup panics are converted into errors so failure tests stay ordinary
// assertions. Custom configuration goes through mutate, which may be nil.
func RunAppTest(t *testing.T, files map[string]string, inst installer.Installer, mutate func(*app.Config)) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	manifestDir := filepath.Join(tmpDir, "manifest")
	require.NoError(t, os.Mkdir(manifestDir, 0755))

	for name, content := range files {
		path := filepath.Join(manifestDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	cfg, err := app.NewConfig(app.Config{
		ManifestPath: manifestDir,
		DestDir:      filepath.Join(tmpDir, "packages"),
		LogLevel:     "debug",
		LogFormat:    "text",
		WorkerCount:  4,
	})
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}

	registry := installer.DefaultRegistry(installer.Options{DestDir: cfg.DestDir})
	if inst != nil {
		registry.Register("test", inst)
	}

	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var startupErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				startupErr = fmt.Errorf("application startup panicked | %v", r)
			}
		}()
		testApp = app.NewApp(logBuffer, cfg, hclmanifest.NewLoader(), registry)
	}()

	if startupErr != nil {
		return &HarnessResult{LogOutput: logBuffer.String(), Err: startupErr}
	}

	runErr := testApp.Run(context.Background(), cfg)
	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
	}
}
