// Package report persists the outcome of an install run as YAML so other
// tooling can consume what was installed and which post-install notices
// apply.
package report

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vk/packrun/internal/record"
)

// Entry is the reported outcome of one package.
type Entry struct {
	Package     string `yaml:"package"`
	State       string `yaml:"state"`
	Message     string `yaml:"message,omitempty"`
	PostInstall string `yaml:"post_install,omitempty"`
}

// Report is the persisted result of a run.
type Report struct {
	GeneratedAt time.Time `yaml:"generated_at"`
	Workers     int       `yaml:"workers"`
	Packages    []Entry   `yaml:"packages"`
}

// Build assembles a report from a completed record set, preserving manifest
// order.
func Build(set *record.Set, workers int) *Report {
	r := &Report{
		GeneratedAt: time.Now().UTC(),
		Workers:     workers,
	}
	for _, rec := range set.Records() {
		r.Packages = append(r.Packages, Entry{
			Package:     rec.Name(),
			State:       rec.State().String(),
			Message:     rec.Message(),
			PostInstall: rec.Pkg.PostInstall,
		})
	}
	return r
}

// Write marshals the report to YAML at path.
func (r *Report) Write(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal install report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write install report: %w", err)
	}
	return nil
}

// Read loads a previously written report.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read install report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse install report %s: %w", path, err)
	}
	return &r, nil
}
