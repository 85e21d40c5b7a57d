// Package installer defines the contract for the work performed per package
// and the built-in implementations. The scheduler and pool treat installers
// as black boxes; a Registry routes each package to the installer registered
// for its manifest source type and is validated at startup.
package installer
