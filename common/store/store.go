// Package store persists manifest documents. A store is bound to one document
// address: a local file path or an s3://bucket/key object. The encoding is
// chosen from the address extension, JSON unless it names .yaml/.yml.
package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/updraft-io/updraft-go/common/manifest"
)

// ErrNotExist reports that the addressed document is absent. Callers that
// legitimately start from scratch (the first add against a fresh path) test
// for it and substitute an empty manifest.
var ErrNotExist = errors.New("manifest document does not exist")

// Store loads and saves the manifest document at one fixed address.
type Store interface {
	// Load reads and decodes the document. A missing document reports
	// ErrNotExist.
	Load(ctx context.Context) (*manifest.Manifest, error)
	// Save encodes and writes the document, refreshing Metadata.Updated
	// first. The write replaces the previous document atomically where the
	// backend allows it.
	Save(ctx context.Context, m *manifest.Manifest) error
	// String returns the document address for log and error messages.
	String() string
}

const (
	schemeFile = "file"
	schemeS3   = "s3"
)

// Addr is a parsed document address.
type Addr struct {
	scheme string
	// Path of the document for file addresses.
	Path string
	// Bucket and Key of the object for s3 addresses.
	Bucket string
	Key    string
}

func (a Addr) IsS3() bool {
	return a.scheme == schemeS3
}

func (a Addr) String() string {
	if a.IsS3() {
		return "s3://" + a.Bucket + "/" + a.Key
	}
	return a.Path
}

func invalidAddr(raw string) error {
	return fmt.Errorf("invalid manifest address %q: expected a file path, a file: URL, or s3://<bucket>/<key>", raw)
}

// ParseAddr classifies a document address. Anything without a scheme is a
// plain file path.
func ParseAddr(raw string) (Addr, error) {
	addr := strings.TrimSpace(raw)
	if addr == "" {
		return Addr{}, invalidAddr(raw)
	}
	if !strings.Contains(addr, "://") {
		if path := strings.TrimPrefix(addr, "file:"); path != addr {
			if path == "" {
				return Addr{}, invalidAddr(raw)
			}
			return Addr{scheme: schemeFile, Path: path}, nil
		}
		return Addr{scheme: schemeFile, Path: addr}, nil
	}

	u, err := url.Parse(addr)
	if err != nil {
		return Addr{}, invalidAddr(raw)
	}
	switch u.Scheme {
	case schemeS3:
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Addr{}, invalidAddr(raw)
		}
		return Addr{scheme: schemeS3, Bucket: u.Host, Key: key}, nil
	case schemeFile:
		if u.Path == "" {
			return Addr{}, invalidAddr(raw)
		}
		return Addr{scheme: schemeFile, Path: u.Path}, nil
	}
	return Addr{}, invalidAddr(raw)
}

// New builds the store for a document address. opts only applies to S3
// addresses.
func New(ctx context.Context, addr string, opts S3Options) (Store, error) {
	parsed, err := ParseAddr(addr)
	if err != nil {
		return nil, err
	}
	if parsed.IsS3() {
		return NewS3(ctx, parsed, opts)
	}
	return NewFile(parsed.Path), nil
}

// encodeForSave stamps the document and encodes it in the store's format.
// Second precision keeps the stamp readable and the encoding stable.
func encodeForSave(m *manifest.Manifest, f manifest.Format) ([]byte, error) {
	m.Metadata.Updated = time.Now().UTC().Truncate(time.Second)
	return manifest.Encode(m, f)
}
