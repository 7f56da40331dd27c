// Package fileio provides the minimal, platform-agnostic file capability
// contract the storage layer depends on: an append-only writable file and a
// random-access readable file. github.com/spf13/afero supplies the two
// realizations (a real OS filesystem and an in-memory one for tests)
// without the rest of the engine ever importing os directly.
package fileio

import (
	"io"
	"os"

	"github.com/spf13/afero"
)

// WritableFile is the capability set a table/log writer needs: Write,
// Sync, Close. It has no separate Flush; writes go straight to the backing
// file and Sync persists them.
type WritableFile interface {
	io.Writer
	Sync() error
	Close() error
}

// ReadableFile is the capability set a table/log reader needs: Read (at
// arbitrary offsets) and Close.
type ReadableFile interface {
	io.ReaderAt
	io.Closer
	Size() (int64, error)
}

// FileManager creates and opens files against a backing afero.Fs.
type FileManager struct {
	fs afero.Fs
}

// NewOSFileManager returns a FileManager backed by the real filesystem.
func NewOSFileManager() *FileManager {
	return &FileManager{fs: afero.NewOsFs()}
}

// NewMemFileManager returns a FileManager backed by an in-memory
// filesystem, for tests that want file-like semantics without touching
// disk.
func NewMemFileManager() *FileManager {
	return &FileManager{fs: afero.NewMemMapFs()}
}

// Create opens path for writing, truncating any existing content.
func (m *FileManager) Create(path string) (WritableFile, error) {
	f, err := m.fs.Create(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// OpenRead opens path for random-access reads.
func (m *FileManager) OpenRead(path string) (ReadableFile, error) {
	f, err := m.fs.Open(path)
	if err != nil {
		return nil, err
	}
	return &readableFile{f}, nil
}

// Rename atomically renames oldPath to newPath.
func (m *FileManager) Rename(oldPath, newPath string) error {
	return m.fs.Rename(oldPath, newPath)
}

// Exists reports whether path is present on the backing filesystem.
func (m *FileManager) Exists(path string) bool {
	_, err := m.fs.Stat(path)
	return err == nil
}

// Remove deletes path. Deleting an absent path is not an error.
func (m *FileManager) Remove(path string) error {
	err := m.fs.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// MkdirAll ensures path and all parents exist.
func (m *FileManager) MkdirAll(path string) error {
	return m.fs.MkdirAll(path, 0755)
}

type readableFile struct {
	afero.File
}

func (r *readableFile) Size() (int64, error) {
	info, err := r.File.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
