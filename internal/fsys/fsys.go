// Package fsys is the narrow filesystem boundary used by the cache and the
// location snapshot. Everything above it talks to FS, never to package os.
package fsys

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Permission bits used for everything weathr writes.
const (
	DirPerm  fs.FileMode = 0o750
	FilePerm fs.FileMode = 0o600
)

// tempPrefix marks in-flight writes. Readers listing a directory skip names
// with this prefix.
const tempPrefix = ".tmp-"

// FS is the set of file operations the core needs.
type FS interface {
	ReadFile(name string) ([]byte, error)
	// WriteFile replaces name atomically: the content is written to a
	// temporary file in the same directory and renamed into place.
	WriteFile(name string, data []byte) error
	MkdirAll(path string) error
	ReadDir(name string) ([]fs.DirEntry, error)
	Remove(name string) error
	RemoveAll(path string) error
}

// OS implements FS on the real filesystem.
type OS struct{}

// ReadFile reads the whole file.
func (OS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFile writes data to a temp file next to name and renames it over name.
func (OS) WriteFile(name string, data []byte) error {
	dir := filepath.Dir(name)
	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, writeErr := tmp.Write(data); writeErr != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, writeErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, closeErr)
	}
	if chmodErr := os.Chmod(tmpName, FilePerm); chmodErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, chmodErr)
	}
	if renameErr := os.Rename(tmpName, name); renameErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming %s to %s: %w", tmpName, name, renameErr)
	}
	return nil
}

// MkdirAll creates path and any missing parents.
func (OS) MkdirAll(path string) error {
	return os.MkdirAll(path, DirPerm)
}

// ReadDir lists a directory sorted by name.
func (OS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

// Remove deletes a single file or empty directory.
func (OS) Remove(name string) error {
	return os.Remove(name)
}

// RemoveAll deletes path recursively. A missing path is not an error.
func (OS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// IsTemp reports whether a directory entry name belongs to an unfinished write.
func IsTemp(name string) bool {
	return len(name) >= len(tempPrefix) && name[:len(tempPrefix)] == tempPrefix
}

// IsNotExist reports whether err means the file or directory does not exist.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
