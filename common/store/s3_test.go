package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updraft-io/updraft-go/common/manifest"
)

// fakeS3 implements s3API on an in-memory object map.
type fakeS3 struct {
	objects     map[string][]byte
	contentType map[string]string
	getErr      error
	putErr      error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, contentType: map[string]string{}}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	if in.ContentType != nil {
		f.contentType[*in.Key] = *in.ContentType
	}
	return &s3.PutObjectOutput{}, nil
}

func newTestS3Store(client s3API, key string) *S3Store {
	return &S3Store{
		client: client,
		bucket: "updates",
		key:    key,
		format: manifest.FormatFromPath(key),
	}
}

func TestS3StoreRoundTrip(t *testing.T) {
	fake := newFakeS3()
	s := newTestS3Store(fake, "site/manifest.json")
	m := testManifest(t)

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, m))
	assert.Equal(t, "application/json", fake.contentType["site/manifest.json"])

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)
}

func TestS3StoreYAMLContentType(t *testing.T) {
	fake := newFakeS3()
	s := newTestS3Store(fake, "site/manifest.yaml")
	require.NoError(t, s.Save(context.Background(), testManifest(t)))
	assert.Equal(t, "application/yaml", fake.contentType["site/manifest.yaml"])
}

func TestS3StoreLoadMissing(t *testing.T) {
	s := newTestS3Store(newFakeS3(), "site/manifest.json")
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestS3StoreNotFoundCode(t *testing.T) {
	// S3-compatible stores commonly answer with a bare NotFound code rather
	// than the typed NoSuchKey.
	fake := newFakeS3()
	fake.getErr = &smithy.GenericAPIError{Code: "NotFound", Message: "no such object"}
	s := newTestS3Store(fake, "site/manifest.json")

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestS3StoreOtherErrorsPassThrough(t *testing.T) {
	fake := newFakeS3()
	fake.getErr = errors.New("connection reset")
	s := newTestS3Store(fake, "site/manifest.json")

	_, err := s.Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotExist)

	fake.putErr = &smithy.GenericAPIError{Code: "AccessDenied", Message: "nope"}
	assert.Error(t, s.Save(context.Background(), testManifest(t)))
}

func TestNewS3(t *testing.T) {
	addr, err := ParseAddr("s3://updates/site/manifest.yaml")
	require.NoError(t, err)

	s, err := NewS3(context.Background(), addr, S3Options{
		Region:       "us-east-1",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
		AccessKey:    "test",
		SecretKey:    "test",
	})
	require.NoError(t, err)
	assert.Equal(t, "s3://updates/site/manifest.yaml", s.String())
	assert.Equal(t, manifest.FormatYAML, s.format)
}
