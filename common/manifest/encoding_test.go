package manifest

import (
	"testing"
	"time"

	"github.com/coreos/go-semver/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodingFixture(t *testing.T) *Manifest {
	t.Helper()
	m := New()
	m.Metadata.Updated = time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	mustAdd(t, m, testUpdate("aws-k8s", "x86_64", "1.0.0", "1.0"), nil)
	mustAdd(t, m, testUpdate("aws-k8s", "x86_64", "1.1.0", "1.1"), semver.New("1.1.0"))
	mustAdd(t, m, testUpdate("metal-dev", "aarch64", "1.1.0", "1.1"), nil)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	_, err := m.AddWave("aws-k8s", "x86_64", *semver.New("1.1.0"), 256, start)
	require.NoError(t, err)
	_, err = m.AddWave("aws-k8s", "x86_64", *semver.New("1.1.0"), 1024, start.Add(6*time.Hour))
	require.NoError(t, err)

	m.SetMigrations([]Migration{
		{From: mustDataVersion("1.0"), To: mustDataVersion("1.1"), Name: "migrate_v1.1_settings"},
	})
	return m
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(format.String(), func(t *testing.T) {
			m := encodingFixture(t)

			data, err := Encode(m, format)
			require.NoError(t, err)

			decoded, err := Decode(data, format)
			require.NoError(t, err)
			assert.Equal(t, m, decoded)

			// Loading and saving without touching anything reproduces the
			// document byte for byte.
			again, err := Encode(decoded, format)
			require.NoError(t, err)
			assert.Equal(t, string(data), string(again))
		})
	}
}

func TestDecodeRestoresOrdering(t *testing.T) {
	// Hand-edited documents often list updates oldest first; loading must
	// restore the catalog order.
	doc := `{
  "metadata": {"schema_version": 1, "id": "0b921b2d-2260-47e5-b166-b5cbd0f0eb25", "updated": "2026-08-20T09:30:00Z"},
  "updates": [
    {
      "variant": "aws-k8s", "arch": "x86_64", "version": "1.0.0", "max_version": "1.1.0",
      "datastore_version": "1.0",
      "images": {"root": "root-1.0.0.img", "boot": "boot-1.0.0.img", "hash": "hash-1.0.0.img"},
      "waves": []
    },
    {
      "variant": "aws-k8s", "arch": "x86_64", "version": "1.1.0", "max_version": "1.1.0",
      "datastore_version": "1.1",
      "images": {"root": "root-1.1.0.img", "boot": "boot-1.1.0.img", "hash": "hash-1.1.0.img"},
      "waves": [{"bound": 256, "start": "2026-09-01T00:00:00Z"}]
    }
  ],
  "datastore_versions": {"1.0.0": "1.0", "1.1.0": "1.1"},
  "migrations": [{"from": "1.0", "to": "1.1", "name": "migrate_v1.1_settings"}]
}`

	m, err := Decode([]byte(doc), FormatJSON)
	require.NoError(t, err)
	require.Len(t, m.Updates, 2)
	assert.Equal(t, "1.1.0", m.Updates[0].Version.String())
	assert.Equal(t, "1.0.0", m.Updates[1].Version.String())
	assert.NoError(t, m.Validate())
}

func TestDecodeYAML(t *testing.T) {
	doc := `metadata:
  schema_version: 1
  id: 0b921b2d-2260-47e5-b166-b5cbd0f0eb25
  updated: 2026-08-20T09:30:00Z
updates:
  - variant: aws-k8s
    arch: x86_64
    version: 1.0.0
    max_version: 1.0.0
    datastore_version: "1.0"
    images:
      root: root-1.0.0.img
      boot: boot-1.0.0.img
      hash: hash-1.0.0.img
    waves:
      - bound: 512
        start: 2026-09-01T00:00:00Z
datastore_versions:
  1.0.0: "1.0"
migrations: []
`
	m, err := Decode([]byte(doc), FormatYAML)
	require.NoError(t, err)
	require.Len(t, m.Updates, 1)
	u := m.Updates[0]
	assert.Equal(t, "aws-k8s", u.Variant)
	assert.Equal(t, "1.0.0", u.Version.String())
	assert.Equal(t, mustDataVersion("1.0"), u.DatastoreVersion)
	require.Len(t, u.Waves, 1)
	assert.Equal(t, uint32(512), u.Waves[0].Bound)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), u.Waves[0].Start)
	assert.Equal(t, mustDataVersion("1.0"), m.DatastoreVersions[*semver.New("1.0.0")])
}

func TestDecodeRejectsNewerSchema(t *testing.T) {
	doc := `{"metadata": {"schema_version": 2, "id": "x", "updated": "2026-08-20T09:30:00Z"}}`
	_, err := Decode([]byte(doc), FormatJSON)
	assert.ErrorIs(t, err, ErrSchemaVersion)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte("{not json"), FormatJSON)
	assert.Error(t, err)
	_, err = Decode([]byte(":\n\t- not yaml"), FormatYAML)
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"manifest.json", FormatJSON},
		{"manifest.yaml", FormatYAML},
		{"manifest.yml", FormatYAML},
		{"MANIFEST.YAML", FormatYAML},
		{"/var/lib/updates/manifest", FormatJSON},
		{"s3://bucket/path/manifest.yaml", FormatYAML},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFromPath(tt.path), "path %q", tt.path)
	}
}
