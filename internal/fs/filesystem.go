package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fleet-go/internal/fleet"
)

// OSFilesystemManager reads from the local disk.
type OSFilesystemManager struct{}

func NewOSFilesystemManager() *OSFilesystemManager {
	return &OSFilesystemManager{}
}

// Resolve accepts regular files and directories only. Symlinks are not followed.
func (m *OSFilesystemManager) Resolve(rawPath string) (*fleet.Path, error) {
	abs, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", rawPath, err)
	}
	info, err := os.Lstat(abs)
	if err != nil {
		return nil, err
	}
	if t := info.Mode().Type(); t&^os.ModeDir != 0 {
		return nil, fmt.Errorf("%s: unsupported file type %v", abs, t)
	}
	return fleet.NewPath(abs, info.IsDir(), info), nil
}

func (m *OSFilesystemManager) Open(path *fleet.Path) (io.ReadCloser, error) {
	if path.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return os.Open(path.String())
}

var _ fleet.FilesystemManager = (*OSFilesystemManager)(nil)
