package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/packrun/internal/manifest"
	"github.com/vk/packrun/internal/record"
)

func completedSet(t *testing.T) *record.Set {
	t.Helper()
	set, err := record.NewSet([]*manifest.Package{
		{Name: "zlib", Source: manifest.Source{Type: "archive"}},
		{Name: "openssl", Source: manifest.Source{Type: "archive"}, PostInstall: "run c_rehash"},
	})
	require.NoError(t, err)

	for _, rec := range set.Records() {
		rec.MarkQueued()
	}
	zlib, _ := set.Lookup("zlib")
	zlib.MarkDone("installed zlib (1.2 MB)")
	openssl, _ := set.Lookup("openssl")
	openssl.MarkFailed(errors.New("checksum mismatch"))
	return set
}

func TestReport_BuildPreservesManifestOrder(t *testing.T) {
	r := Build(completedSet(t), 4)

	require.Len(t, r.Packages, 2)
	assert.Equal(t, 4, r.Workers)
	assert.False(t, r.GeneratedAt.IsZero())

	want := []Entry{
		{Package: "zlib", State: "done", Message: "installed zlib (1.2 MB)"},
		{Package: "openssl", State: "failed", PostInstall: "run c_rehash"},
	}
	if diff := cmp.Diff(want, r.Packages); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestReport_WriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "install-report.yaml")
	wrote := Build(completedSet(t), 2)

	require.NoError(t, wrote.Write(path))
	got, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, wrote.Workers, got.Workers)
	if diff := cmp.Diff(wrote.Packages, got.Packages); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReport_ReadMissingFileFails(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestReport_ReadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("packages: [unclosed"), 0644))

	_, err := Read(path)
	require.Error(t, err)
}
