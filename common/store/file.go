package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/updraft-io/updraft-go/common/manifest"
)

// FileStore persists the document as a local file. Saves go through a temp
// file in the destination directory plus a rename, so readers never observe a
// partial document, and an advisory lock on a sidecar file serializes racing
// writers on the same path.
type FileStore struct {
	fs     afero.Fs
	path   string
	format manifest.Format
}

// NewFile returns a store for the document at path on the host filesystem.
func NewFile(path string) *FileStore {
	return newFileWithFs(afero.NewOsFs(), path)
}

func newFileWithFs(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path, format: manifest.FormatFromPath(path)}
}

func (s *FileStore) String() string {
	return s.path
}

func (s *FileStore) Load(_ context.Context) (*manifest.Manifest, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", s.path, ErrNotExist)
		}
		return nil, fmt.Errorf("reading manifest %s: %w", s.path, err)
	}
	m, err := manifest.Decode(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return m, nil
}

func (s *FileStore) Save(_ context.Context, m *manifest.Manifest) error {
	data, err := encodeForSave(m, s.format)
	if err != nil {
		return fmt.Errorf("%s: %w", s.path, err)
	}

	// Advisory locks need a real file descriptor, so only the host
	// filesystem takes one.
	if _, ok := s.fs.(*afero.OsFs); ok {
		unlock, err := lockFile(s.path + ".lock")
		if err != nil {
			return fmt.Errorf("locking %s: %w", s.path, err)
		}
		defer unlock()
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := afero.TempFile(s.fs, dir, ".manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer s.fs.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := s.fs.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}
