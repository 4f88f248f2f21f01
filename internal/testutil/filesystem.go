package testutil

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing/fstest"

	"fleet-go/internal/fleet"
)

// MockFilesystemManager serves files from an in-memory tree. Paths given to
// the Add methods are made absolute the same way Resolve does.
type MockFilesystemManager struct {
	files fstest.MapFS
}

func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{files: fstest.MapFS{}}
}

func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.files[mapKey(path)] = &fstest.MapFile{Data: content, Mode: 0o644}
}

func (m *MockFilesystemManager) AddDirectory(path string) {
	m.files[mapKey(path)] = &fstest.MapFile{Mode: fs.ModeDir | 0o755}
}

// AddSymlink adds a dangling symlink, which Resolve refuses.
func (m *MockFilesystemManager) AddSymlink(path string) {
	m.files[mapKey(path)] = &fstest.MapFile{Mode: fs.ModeSymlink | 0o777}
}

func (m *MockFilesystemManager) Resolve(rawPath string) (*fleet.Path, error) {
	abs, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, err
	}
	info, err := fs.Lstat(m.files, mapKey(abs))
	if err != nil {
		return nil, err
	}
	if t := info.Mode().Type(); t&^fs.ModeDir != 0 {
		return nil, fmt.Errorf("%s: unsupported file type %v", abs, t)
	}
	return fleet.NewPath(abs, info.IsDir(), info), nil
}

func (m *MockFilesystemManager) Open(path *fleet.Path) (io.ReadCloser, error) {
	if path.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return m.files.Open(mapKey(path.String()))
}

// mapKey turns a path into the slash-separated, unrooted form fs.FS expects.
func mapKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return strings.TrimPrefix(filepath.ToSlash(path), "/")
}

var _ fleet.FilesystemManager = (*MockFilesystemManager)(nil)
