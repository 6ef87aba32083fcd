package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/updraft-io/updraft-go/common/manifest"
)

// S3Options carries the client overrides for S3 and S3-compatible object
// stores.
type S3Options struct {
	// Region overrides the default AWS region resolution.
	Region string
	// Endpoint points the client at an S3-compatible endpoint (MinIO, Ceph
	// RGW) instead of AWS.
	Endpoint string
	// UsePathStyle addresses the bucket in the URL path instead of the
	// subdomain. Most non-AWS endpoints need it.
	UsePathStyle bool
	// AccessKey and SecretKey are static credentials overriding the default
	// provider chain when both are set.
	AccessKey string
	SecretKey string
}

// s3API is the slice of the S3 client the store calls, split out so tests can
// substitute a fake.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store persists the document as a single S3 object. PutObject replaces the
// object atomically, so no extra write dance is needed.
type S3Store struct {
	client s3API
	bucket string
	key    string
	format manifest.Format
}

// NewS3 builds the client from the default AWS configuration chain with the
// given overrides applied.
func NewS3(ctx context.Context, addr Addr, opts S3Options) (*S3Store, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})
	return &S3Store{
		client: client,
		bucket: addr.Bucket,
		key:    addr.Key,
		format: manifest.FormatFromPath(addr.Key),
	}, nil
}

func (s *S3Store) String() string {
	return "s3://" + s.bucket + "/" + s.key
}

func (s *S3Store) Load(ctx context.Context) (*manifest.Manifest, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", s, ErrNotExist)
		}
		return nil, fmt.Errorf("fetching %s: %w", s, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s, err)
	}
	m, err := manifest.Decode(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s, err)
	}
	return m, nil
}

func (s *S3Store) Save(ctx context.Context, m *manifest.Manifest) error {
	data, err := encodeForSave(m, s.format)
	if err != nil {
		return fmt.Errorf("%s: %w", s, err)
	}
	contentType := "application/json"
	if s.format == manifest.FormatYAML {
		contentType = "application/yaml"
	}
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}); err != nil {
		return fmt.Errorf("uploading %s: %w", s, err)
	}
	return nil
}

// isNotFound catches the object-missing shapes S3 and compatible stores
// return: the typed NoSuchKey plus the NoSuchKey/NotFound API codes.
func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) &&
		(apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound")
}
