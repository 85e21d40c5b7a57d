package manifest

import "context"

// Loader loads a Manifest from a path. Implementations are format-specific;
// the rest of the application only ever sees the Manifest model.
type Loader interface {
	// Load reads the manifest at path, which may be a single file or a
	// directory scanned recursively.
	Load(ctx context.Context, path string) (*Manifest, error)
}
