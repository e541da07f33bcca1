package fsops

import (
	"errors"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// FileSystem abstracts the per-file operations performed by the services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, permissions fs.FileMode) error
	CanExecute(path string) (bool, error)
}

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// NewOSFileSystem constructs an OSFileSystem instance.
func NewOSFileSystem() OSFileSystem {
	return OSFileSystem{}
}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads file contents.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a file with the supplied permissions.
func (OSFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	return os.WriteFile(path, data, permissions)
}

// CanExecute reports whether the invoking user may execute the file. A
// permission denial is an answer, not an error.
func (OSFileSystem) CanExecute(path string) (bool, error) {
	accessError := unix.Access(path, unix.X_OK)
	switch {
	case accessError == nil:
		return true, nil
	case errors.Is(accessError, unix.EACCES):
		return false, nil
	default:
		return false, accessError
	}
}
