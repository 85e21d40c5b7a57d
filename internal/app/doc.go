// Package app wires the application together: configuration, logging,
// manifest loading, installer registry validation, and the run lifecycle
// that hands the record set to the scheduler.
package app
