// Package system provides abstractions for OS operations to enable testing.
package system

import (
	"context"
	"io/fs"
	"os"
)

// FileSystem abstracts file system operations for testability.
type FileSystem interface {
	// ReadFile reads the named file and returns the contents.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to the named file, creating it if necessary.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// Stat returns file info for the named file.
	Stat(path string) (fs.FileInfo, error)

	// MkdirAll creates a directory named path, along with any necessary parents.
	MkdirAll(path string, perm fs.FileMode) error

	// RemoveAll removes path and anything it contains. A missing path is not an error.
	RemoveAll(path string) error

	// Exists returns true if the path exists.
	Exists(path string) bool

	// IsDir returns true if the path is a directory.
	IsDir(path string) bool
}

// Runner executes external commands. Every call names its own working
// directory; nothing relies on the process-wide current directory.
type Runner interface {
	// Run executes name with args in dir and captures its output. A nonzero
	// exit status is reported on the Result, not as an error. The error is
	// reserved for commands that could not be started at all; it wraps
	// ErrNotFound when the binary is missing.
	Run(ctx context.Context, dir, name string, args ...string) (*Result, error)

	// RunInteractive runs a command with stdin/stdout/stderr connected to the terminal.
	RunInteractive(ctx context.Context, dir, name string, args ...string) error
}

// Default instances using real OS operations.
var (
	defaultFS     FileSystem = &osFileSystem{}
	defaultRunner Runner     = &osRunner{}
)

// DefaultFS returns the default FileSystem implementation using real OS operations.
func DefaultFS() FileSystem {
	return defaultFS
}

// DefaultRunner returns the default Runner implementation.
func DefaultRunner() Runner {
	return defaultRunner
}

// osFileSystem implements FileSystem using real OS operations.
type osFileSystem struct{}

func (f *osFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (f *osFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (f *osFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (f *osFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (f *osFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (f *osFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (f *osFileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
