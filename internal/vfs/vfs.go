// Package vfs adapts spf13/afero filesystems to the InputFileSystem and
// OutputFileSystem contracts the compiler core consumes, the same way the
// teacher wraps os-level file access behind small helpers
// (internal/testutil/copytree.go) rather than calling os directly from
// pipeline code.
package vfs

import (
	"os"

	"github.com/spf13/afero"

	"github.com/buildforge/compiler/internal/contract"
)

// Afero wraps an afero.Fs to satisfy both contract.InputFileSystem and
// contract.OutputFileSystem.
type Afero struct {
	fs afero.Fs
}

// NewOS returns a production filesystem backed by the real OS.
func NewOS() *Afero {
	return &Afero{fs: afero.NewOsFs()}
}

// NewMem returns an in-memory filesystem, used by the Asset Emission Engine
// and Records Store test suites.
func NewMem() *Afero {
	return &Afero{fs: afero.NewMemMapFs()}
}

// New wraps an arbitrary afero.Fs, used when a caller needs layering (e.g.
// afero.NewReadOnlyFs for an input-only surface).
func New(fs afero.Fs) *Afero {
	return &Afero{fs: fs}
}

func (a *Afero) Stat(path string) (os.FileInfo, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		return nil, &contract.IOFailureError{Op: "stat", Path: path, Err: err}
	}
	return info, nil
}

func (a *Afero) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return nil, &contract.IOFailureError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

func (a *Afero) WriteFile(path string, data []byte) error {
	if err := afero.WriteFile(a.fs, path, data, 0o644); err != nil {
		return &contract.IOFailureError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func (a *Afero) Mkdir(path string) error {
	return MkdirAll(a.fs, path)
}

// Purge drops any in-process caching layered in front of the filesystem.
// Afero itself caches nothing at this layer, so Purge is a no-op; it
// exists to satisfy InputFileSystem for callers that swap in a caching
// decorator.
func (a *Afero) Purge() {}

// Underlying exposes the wrapped afero.Fs for callers (the watch
// collaborator, tests) that need afero-specific operations such as
// directory listing.
func (a *Afero) Underlying() afero.Fs { return a.fs }

// MkdirAll is the one algorithmic helper the core owns directly: it
// tolerates "already exists" and fails on "exists but is not a
// directory", mirroring the teacher's repeated os.MkdirAll(dir, 0o755)
// call sites (internal/stage/write_output.go, internal/metafile/write.go)
// generalized to an injected afero.Fs.
func MkdirAll(fs afero.Fs, path string) error {
	info, err := fs.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return &contract.IOFailureError{Op: "mkdir", Path: path, Err: os.ErrExist}
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return &contract.IOFailureError{Op: "mkdir", Path: path, Err: err}
	}
	if err := fs.MkdirAll(path, 0o755); err != nil {
		return &contract.IOFailureError{Op: "mkdir", Path: path, Err: err}
	}
	return nil
}
