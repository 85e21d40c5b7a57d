// Package manifest defines the format-agnostic model of an install manifest:
// the ordered set of packages, their dependency declarations, and their
// installer sources. Loading from a concrete format (HCL) lives behind the
// Loader interface so new formats never touch the scheduling core.
package manifest
