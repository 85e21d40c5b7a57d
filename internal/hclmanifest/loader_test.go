package hclmanifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/packrun/internal/manifest"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_SingleFile(t *testing.T) {
	// --- Arrange ---
	content := `
		package "zlib" {
			source {
				type = "archive"
				url  = "https://example.com/zlib-1.3.tar.gz"
			}
		}

		package "openssl" {
			depends_on     = ["zlib"]
			dev_depends_on = ["test-kit"]
			post_install   = "run c_rehash to refresh certificate links"

			source {
				type     = "archive"
				url      = "https://example.com/openssl-3.2.tar.gz"
				checksum = "sha256:deadbeef"
				retries  = 3
			}
		}
	`
	path := writeFile(t, t.TempDir(), "main.hcl", content)

	// --- Act ---
	m, err := NewLoader().Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	want := &manifest.Manifest{Packages: []*manifest.Package{
		{
			Name:   "zlib",
			Source: manifest.Source{Type: "archive", URL: "https://example.com/zlib-1.3.tar.gz"},
		},
		{
			Name: "openssl",
			Deps: []manifest.Dependency{
				{Name: "zlib"},
				{Name: "test-kit", Dev: true},
			},
			PostInstall: "run c_rehash to refresh certificate links",
			Source: manifest.Source{
				Type: "archive",
				URL:  "https://example.com/openssl-3.2.tar.gz",
				Options: map[string]string{
					"checksum": "sha256:deadbeef",
					"retries":  "3",
				},
			},
		},
	}}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_DirectoryMergesFilesInLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "10-base.hcl", `
		package "base" {
			source { type = "noop" }
		}
	`)
	writeFile(t, dir, "20-apps/app.hcl", `
		package "app" {
			depends_on = ["base"]
			source { type = "noop" }
		}
	`)

	m, err := NewLoader().Load(context.Background(), dir)

	require.NoError(t, err)
	require.Len(t, m.Packages, 2)
	assert.Equal(t, "base", m.Packages[0].Name)
	assert.Equal(t, "app", m.Packages[1].Name)
}

func TestLoader_RejectsDuplicatePackages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.hcl", `
		package "zlib" {
			source { type = "noop" }
		}
	`)
	writeFile(t, dir, "b.hcl", `
		package "zlib" {
			source { type = "noop" }
		}
	`)

	_, err := NewLoader().Load(context.Background(), dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `package "zlib" declared in both`)
}

func TestLoader_RejectsPackageWithoutSource(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.hcl", `
		package "zlib" {}
	`)

	_, err := NewLoader().Load(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no source block")
}

func TestLoader_RejectsInvalidHCL(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.hcl", `package "zlib" {`)

	_, err := NewLoader().Load(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse manifest file")
}

func TestLoader_RejectsNonConstantOption(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.hcl", `
		package "zlib" {
			source {
				type     = "archive"
				url      = "https://example.com/zlib.tar.gz"
				checksum = var.nope
			}
		}
	`)

	_, err := NewLoader().Load(context.Background(), path)
	require.Error(t, err)
}

func TestLoader_MissingPathFails(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestLoader_EmptyDirectoryFails(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .hcl manifest files found")
}
