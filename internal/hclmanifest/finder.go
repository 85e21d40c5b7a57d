package hclmanifest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// findManifestFiles resolves path to the list of .hcl files to parse. A file
// path is returned as-is; a directory is walked recursively. The returned
// order is deterministic (WalkDir is lexical), so manifest merge order is
// stable across runs.
func findManifestFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("manifest path %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl manifest files found under %s", path)
	}
	return files, nil
}
