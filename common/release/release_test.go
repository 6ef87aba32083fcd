package release

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updraft-io/updraft-go/common/manifest"
)

func writeRelease(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Release.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeRelease(t, `
version = "1.2"

[[migration]]
from = "1.0"
to = "1.1"
name = "migrate_v1.1_settings"

[[migration]]
from = "1.1"
to = "1.2"
name = "migrate_v1.2_hostname"
`)

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, manifest.DataVersion{Major: 1, Minor: 2}, r.Version)
	require.Len(t, r.Migrations, 2)
	// File order is preserved; the migration set is ordered, not keyed.
	assert.Equal(t, "migrate_v1.1_settings", r.Migrations[0].Name)
	assert.Equal(t, manifest.DataVersion{Major: 1}, r.Migrations[0].From)
	assert.Equal(t, manifest.DataVersion{Major: 1, Minor: 1}, r.Migrations[0].To)
	assert.Equal(t, "migrate_v1.2_hostname", r.Migrations[1].Name)
}

func TestLoadWithoutMigrations(t *testing.T) {
	r, err := Load(writeRelease(t, `version = "2.0"`))
	require.NoError(t, err)
	assert.Equal(t, manifest.DataVersion{Major: 2}, r.Version)
	assert.Empty(t, r.Migrations)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"MissingVersion", `[[migration]]
from = "1.0"
to = "1.1"
name = "x"`},
		{"BadVersion", `version = "one.two"`},
		{"UnnamedMigration", `version = "1.1"

[[migration]]
from = "1.0"
to = "1.1"
name = ""`},
		{"MigrationGoesNowhere", `version = "1.1"

[[migration]]
from = "1.0"
to = "1.0"
name = "noop"`},
		{"MalformedTOML", `version = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeRelease(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
