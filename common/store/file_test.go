package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/coreos/go-semver/semver"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updraft-io/updraft-go/common/manifest"
)

func testManifest(t *testing.T) *manifest.Manifest {
	t.Helper()
	m := manifest.New()
	dv, err := manifest.ParseDataVersion("1.0")
	require.NoError(t, err)
	_, err = m.AddUpdate(manifest.Update{
		Variant:          "aws-k8s",
		Arch:             "x86_64",
		Version:          *semver.New("1.0.0"),
		DatastoreVersion: dv,
		Images: manifest.Images{
			Root: "root-1.0.0.img",
			Boot: "boot-1.0.0.img",
			Hash: "hash-1.0.0.img",
		},
		Waves: []manifest.Wave{},
	}, nil)
	require.NoError(t, err)
	_, err = m.AddWave("aws-k8s", "x86_64", *semver.New("1.0.0"), 512,
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return m
}

func TestFileStoreRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newFileWithFs(fs, "/var/lib/updraft/manifest.json")
	m := testManifest(t)

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, m))
	assert.False(t, m.Metadata.Updated.IsZero(), "saving stamps the document")

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)
}

func TestFileStoreYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newFileWithFs(fs, "/srv/manifest.yaml")

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, testManifest(t)))

	data, err := afero.ReadFile(fs, "/srv/manifest.yaml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "metadata:"), "expected YAML, got %q", string(data[:20]))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Updates, 1)
}

func TestFileStoreLoadMissing(t *testing.T) {
	s := newFileWithFs(afero.NewMemMapFs(), "/absent/manifest.json")
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestFileStoreLoadGarbage(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/manifest.json", []byte("{broken"), 0644))
	s := newFileWithFs(fs, "/manifest.json")

	_, err := s.Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotExist)
}

func TestFileStoreSaveCreatesDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newFileWithFs(fs, "/deeply/nested/path/manifest.json")
	require.NoError(t, s.Save(context.Background(), testManifest(t)))

	exists, err := afero.Exists(fs, "/deeply/nested/path/manifest.json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newFileWithFs(fs, "/srv/manifest.json")
	require.NoError(t, s.Save(context.Background(), testManifest(t)))
	// Overwrite once more to exercise the replace path.
	require.NoError(t, s.Save(context.Background(), testManifest(t)))

	entries, err := afero.ReadDir(fs, "/srv")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "manifest.json", entries[0].Name())
}

func TestFileStoreOnDisk(t *testing.T) {
	// One pass against the host filesystem so the lock sidecar path runs.
	path := t.TempDir() + "/manifest.json"
	s := NewFile(path)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testManifest(t)))
	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Updates, 1)
}
