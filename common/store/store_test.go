package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddr(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Addr
		wantErr bool
	}{
		{name: "RelativePath", raw: "manifest.json", want: Addr{scheme: schemeFile, Path: "manifest.json"}},
		{name: "AbsolutePath", raw: "/var/lib/updraft/manifest.json", want: Addr{scheme: schemeFile, Path: "/var/lib/updraft/manifest.json"}},
		{name: "FileScheme", raw: "file:manifest.yaml", want: Addr{scheme: schemeFile, Path: "manifest.yaml"}},
		{name: "FileURL", raw: "file:///etc/updraft/manifest.json", want: Addr{scheme: schemeFile, Path: "/etc/updraft/manifest.json"}},
		{name: "S3", raw: "s3://updates/site/manifest.json", want: Addr{scheme: schemeS3, Bucket: "updates", Key: "site/manifest.json"}},
		{name: "S3WithoutKey", raw: "s3://updates", wantErr: true},
		{name: "S3EmptyKey", raw: "s3://updates/", wantErr: true},
		{name: "S3WithoutBucket", raw: "s3:///manifest.json", wantErr: true},
		{name: "UnknownScheme", raw: "http://updates/manifest.json", wantErr: true},
		{name: "Empty", raw: "", wantErr: true},
		{name: "Whitespace", raw: "   ", wantErr: true},
		{name: "BareFilePrefix", raw: "file:", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAddr(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddrString(t *testing.T) {
	a, err := ParseAddr("s3://updates/site/manifest.json")
	require.NoError(t, err)
	assert.Equal(t, "s3://updates/site/manifest.json", a.String())

	a, err = ParseAddr("/var/lib/updraft/manifest.json")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/updraft/manifest.json", a.String())
}

func TestNewDispatch(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, "/tmp/manifest.json", S3Options{})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	// Static credentials keep client construction entirely local.
	s, err = New(ctx, "s3://updates/manifest.json", S3Options{
		Region:    "us-east-1",
		AccessKey: "test",
		SecretKey: "test",
	})
	require.NoError(t, err)
	assert.IsType(t, &S3Store{}, s)

	_, err = New(ctx, "gs://updates/manifest.json", S3Options{})
	assert.Error(t, err)
}
