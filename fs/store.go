// Package fs provides file-based output storage.
package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/blogsnap"
)

// Ensure FileStore implements blogsnap.OutputStore at compile time.
var _ blogsnap.OutputStore = (*FileStore)(nil)

// FileStore implements blogsnap.OutputStore with atomic update semantics.
// Files are created in a temporary directory, then moved into baseDir on
// Commit.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore.
// baseDir is the destination directory; files are staged in
// baseDir/name.tmp until Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

// Create opens a staged file. name is relative to the destination
// directory and may contain subdirectories.
func (s *FileStore) Create(name string) (io.WriteCloser, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return nil, blogsnap.Errorf(blogsnap.EINVALID, "invalid output name %q", name)
	}

	fullPath := filepath.Join(s.tempDir(), clean)

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, err
	}

	return os.Create(fullPath)
}

// Commit moves every staged entry into the destination directory,
// replacing existing entries of the same name.
func (s *FileStore) Commit() error {
	entries, err := os.ReadDir(s.tempDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}

	for _, e := range entries {
		final := filepath.Join(s.baseDir, e.Name())

		// Remove existing final entry if present
		if err := os.RemoveAll(final); err != nil {
			return err
		}

		if err := os.Rename(filepath.Join(s.tempDir(), e.Name()), final); err != nil {
			return err
		}
	}

	return os.RemoveAll(s.tempDir())
}

// Abort discards everything staged.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
