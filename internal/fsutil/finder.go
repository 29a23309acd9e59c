// Package fsutil provides the filesystem collaborator used by the generator.
//
// The core only ever touches the disk through the FS interface, so tests run
// the whole pipeline against an in-memory filesystem.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	// DefaultDirMode is the permission mode for created directories.
	DefaultDirMode os.FileMode = 0755

	// DefaultFileMode is the permission mode for written files.
	DefaultFileMode os.FileMode = 0644
)

// FS is the set of filesystem operations the generator depends on.
type FS interface {
	Exists(path string) bool
	IsDir(path string) bool
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
	MakeDirs(path string) error
	RemoveAll(path string) error
	// ListFiles returns the regular, non-hidden files directly inside dir,
	// sorted by name.
	ListFiles(dir string) ([]string, error)
}

// Afero adapts an afero.Fs to the FS interface.
type Afero struct {
	fs afero.Fs
}

// New wraps the given afero filesystem.
func New(fs afero.Fs) *Afero {
	return &Afero{fs: fs}
}

// NewOS returns an FS backed by the host filesystem.
func NewOS() *Afero {
	return New(afero.NewOsFs())
}

// NewMemory returns an empty in-memory FS.
func NewMemory() *Afero {
	return New(afero.NewMemMapFs())
}

// Afero exposes the wrapped filesystem.
func (a *Afero) Afero() afero.Fs {
	return a.fs
}

// Exists reports whether path exists. Stat failures count as absent.
func (a *Afero) Exists(path string) bool {
	ok, err := afero.Exists(a.fs, path)
	return err == nil && ok
}

// IsDir reports whether path exists and is a directory.
func (a *Afero) IsDir(path string) bool {
	ok, err := afero.DirExists(a.fs, path)
	return err == nil && ok
}

// Read returns the full content of the file at path.
func (a *Afero) Read(path string) ([]byte, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, errIsDir)
	}
	return afero.ReadFile(a.fs, path)
}

// Write replaces the file at path, creating parent directories as needed.
func (a *Afero) Write(path string, data []byte) error {
	if err := a.fs.MkdirAll(filepath.Dir(path), DefaultDirMode); err != nil {
		return err
	}
	return afero.WriteFile(a.fs, path, data, DefaultFileMode)
}

// MakeDirs creates path and all missing parents.
func (a *Afero) MakeDirs(path string) error {
	return a.fs.MkdirAll(path, DefaultDirMode)
}

// RemoveAll deletes path recursively. A missing path is not an error.
func (a *Afero) RemoveAll(path string) error {
	return a.fs.RemoveAll(path)
}

// ListFiles returns the regular, non-hidden files directly inside dir.
func (a *Afero) ListFiles(dir string) ([]string, error) {
	entries, err := afero.ReadDir(a.fs, dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

var errIsDir = errors.New("is a directory")

// IsNotExist reports whether err means a path does not exist.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
