package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ManifestPath is a single .hcl file or a directory of .hcl files.
	ManifestPath string
	// DestDir is where archive installers place payloads.
	DestDir string
	// ReportPath, when non-empty, is where the YAML install report lands
	// after a successful run.
	ReportPath string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	WorkerCount     int

	// Force and Standalone pass through to installers untouched.
	Force      bool
	Standalone bool
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 1 {
		return nil, errors.New("WorkerCount must be at least 1")
	}
	return &cfg, nil
}
