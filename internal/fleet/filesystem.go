package fleet

import (
	"io"
	"io/fs"
)

// FilesystemManager gives read access to local files the user points at,
// such as avatar images.
type FilesystemManager interface {
	// Resolve makes rawPath absolute, stats it and rejects symlinks, devices,
	// pipes and sockets.
	Resolve(rawPath string) (*Path, error)

	// Open opens a resolved regular file for reading.
	Open(path *Path) (io.ReadCloser, error)
}

// Path is a resolved filesystem path with the stat info taken at resolve time.
type Path struct {
	absPath string
	isDir   bool
	info    fs.FileInfo
}

// NewPath creates a Path. Only FilesystemManager implementations should call it.
func NewPath(absPath string, isDir bool, info fs.FileInfo) *Path {
	return &Path{
		absPath: absPath,
		isDir:   isDir,
		info:    info,
	}
}

func (p *Path) String() string { return p.absPath }

func (p *Path) IsDir() bool { return p.isDir }

// Info returns the cached file info from when the path was resolved.
func (p *Path) Info() fs.FileInfo { return p.info }
