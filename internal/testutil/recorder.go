package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vk/packrun/internal/manifest"
)

// ExecutionRecord captures when one package's install started and ended.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// RecordingInstaller is a self-contained installer for scheduler and pool
// tests. It records per-package execution windows, the order in which
// installs started, and the high-water mark of concurrent installs, and can
// be told to fail or sleep for specific packages.
type RecordingInstaller struct {
	mu         sync.Mutex
	records    map[string]*ExecutionRecord
	startOrder []string
	inFlight   int
	maxTracked int

	// Sleep is applied to every install; per-package overrides win.
	Sleep      time.Duration
	SleepFor   map[string]time.Duration
	FailFor    map[string]error
	MessageFor map[string]string
}

// NewRecordingInstaller creates a recorder with no delays or failures.
func NewRecordingInstaller() *RecordingInstaller {
	return &RecordingInstaller{
		records:    make(map[string]*ExecutionRecord),
		SleepFor:   make(map[string]time.Duration),
		FailFor:    make(map[string]error),
		MessageFor: make(map[string]string),
	}
}

// Install implements installer.Installer.
func (r *RecordingInstaller) Install(ctx context.Context, pkg *manifest.Package, workerID int) (string, error) {
	r.mu.Lock()
	r.startOrder = append(r.startOrder, pkg.Name)
	r.records[pkg.Name] = &ExecutionRecord{Start: time.Now()}
	r.inFlight++
	if r.inFlight > r.maxTracked {
		r.maxTracked = r.inFlight
	}
	sleep := r.Sleep
	if d, ok := r.SleepFor[pkg.Name]; ok {
		sleep = d
	}
	failure := r.FailFor[pkg.Name]
	message, hasMessage := r.MessageFor[pkg.Name]
	r.mu.Unlock()

	if sleep > 0 {
		select {
		case <-time.After(sleep):
		case <-ctx.Done():
		}
	}

	r.mu.Lock()
	r.records[pkg.Name].End = time.Now()
	r.inFlight--
	r.mu.Unlock()

	if failure != nil {
		return "", failure
	}
	if hasMessage {
		return message, nil
	}
	return fmt.Sprintf("installed %s", pkg.Name), nil
}

// Record returns the execution window recorded for a package, or nil if the
// package never ran.
func (r *RecordingInstaller) Record(name string) *ExecutionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[name]
}

// StartOrder returns the package names in the order installs started.
func (r *RecordingInstaller) StartOrder() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.startOrder...)
}

// Installed reports whether the installer was invoked for the package.
func (r *RecordingInstaller) Installed(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[name]
	return ok
}

// InvocationCount returns how many installs were started in total.
func (r *RecordingInstaller) InvocationCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.startOrder)
}

// MaxConcurrent returns the high-water mark of simultaneous installs.
func (r *RecordingInstaller) MaxConcurrent() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxTracked
}
