package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystemBackend stores each document as a file. Keys are file paths;
// relative keys resolve against the process working directory.
type FileSystemBackend struct{}

// NewFileSystemBackend creates a filesystem backend.
func NewFileSystemBackend() *FileSystemBackend {
	return &FileSystemBackend{}
}

// Put writes the document using an atomic write (temp file + rename), so a
// failed save never leaves a half-written data file behind.
func (b *FileSystemBackend) Put(key string, r io.Reader, size int64) error {
	dir := filepath.Dir(key)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// Temp file lives in the same directory so the rename stays atomic
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if written != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := os.Rename(tmpPath, key); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Get copies the file at key to w.
func (b *FileSystemBackend) Get(key string, w io.Writer) error {
	f, err := os.Open(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", key, ErrNotExist)
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	return nil
}

// Compile-time check that FileSystemBackend implements Backend
var _ Backend = (*FileSystemBackend)(nil)
