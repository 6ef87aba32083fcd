package manifest

import (
	"testing"

	"github.com/coreos/go-semver/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updraft-io/updraft-go/common/manifest"
)

func TestSummarize(t *testing.T) {
	m := manifest.New()
	for _, u := range []manifest.Update{
		{Variant: "bravo", Arch: "x86_64", Version: *semver.New("1.2.0")},
		{Variant: "alpha", Arch: "arm64", Version: *semver.New("1.0.0")},
	} {
		u.DatastoreVersion = manifest.DataVersion{Major: 1}
		_, err := m.AddUpdate(u, nil)
		require.NoError(t, err)
	}
	_, err := m.AddUpdate(manifest.Update{
		Variant: "alpha", Arch: "arm64", Version: *semver.New("1.1.0"),
		DatastoreVersion: manifest.DataVersion{Major: 1},
	}, semver.New("1.1.0"))
	require.NoError(t, err)
	m.SetMigrations([]manifest.Migration{
		{From: manifest.DataVersion{Major: 1}, To: manifest.DataVersion{Major: 2}, Name: "migrate_v2_flip"},
	})

	s := summarize("manifest.json", m)

	assert.Equal(t, "manifest.json", s.Store)
	assert.Equal(t, m.Metadata, s.Metadata)
	assert.Equal(t, 3, s.Updates)
	assert.Equal(t, m.Migrations, s.Migrations)

	// Groups come back sorted by name with the shared ceiling and a member
	// count per group.
	require.Len(t, s.Groups, 2)
	assert.Equal(t, "alpha/arm64", s.Groups[0].Group.String())
	assert.Equal(t, "1.1.0", s.Groups[0].Ceiling.String())
	assert.Equal(t, 2, s.Groups[0].Updates)
	assert.Equal(t, "bravo/x86_64", s.Groups[1].Group.String())
	assert.Equal(t, 1, s.Groups[1].Updates)

	// Mappings come back sorted by image version.
	require.Len(t, s.Mappings, 3)
	assert.Equal(t, "1.0.0", s.Mappings[0].Version.String())
	assert.Equal(t, "1.1.0", s.Mappings[1].Version.String())
	assert.Equal(t, "1.2.0", s.Mappings[2].Version.String())
}

func TestSummarizeEmptyManifest(t *testing.T) {
	s := summarize("manifest.json", manifest.New())
	assert.Zero(t, s.Updates)
	assert.Empty(t, s.Groups)
	assert.Empty(t, s.Mappings)
	assert.Empty(t, s.Migrations)
}
