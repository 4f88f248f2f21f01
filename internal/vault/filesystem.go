package vault

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"fleet-go/internal/fleet"
)

// FileSystemVault keeps each fleet's latest snapshot under a local directory:
//
//	<root>/snapshots/<fleetID>.snapshot   snapshot bytes
//	<root>/snapshots/<fleetID>.json       SnapshotInfo manifest
//
// The manifest is written after the snapshot, so a manifest always describes
// a complete snapshot file.
type FileSystemVault struct {
	name string
	root string
	dir  string
}

// NewFileSystemVault opens the vault at root, creating its directories.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	dir := filepath.Join(root, "snapshots")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating vault %s: %w", name, err)
	}
	return &FileSystemVault{name: name, root: root, dir: dir}, nil
}

func (v *FileSystemVault) snapshotPath(fleetID string) string {
	return filepath.Join(v.dir, fleetID+".snapshot")
}

func (v *FileSystemVault) manifestPath(fleetID string) string {
	return filepath.Join(v.dir, fleetID+".json")
}

// PutSnapshot replaces the fleet's snapshot and manifest.
func (v *FileSystemVault) PutSnapshot(fleetID string, r io.Reader, info fleet.SnapshotInfo) error {
	if _, err := replaceFile(v.snapshotPath(fleetID), r, info.Size); err != nil {
		return fmt.Errorf("storing snapshot for %s: %w", fleetID, err)
	}

	manifest, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if _, err := replaceFile(v.manifestPath(fleetID), bytes.NewReader(manifest), int64(len(manifest))); err != nil {
		return fmt.Errorf("storing manifest for %s: %w", fleetID, err)
	}
	return nil
}

// GetSnapshot copies the fleet's snapshot to w.
func (v *FileSystemVault) GetSnapshot(fleetID string, w io.Writer) error {
	f, err := os.Open(v.snapshotPath(fleetID))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("snapshot for %s: %w", fleetID, fleet.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	return nil
}

// StatSnapshot reads the fleet's manifest.
func (v *FileSystemVault) StatSnapshot(fleetID string) (fleet.SnapshotInfo, error) {
	var info fleet.SnapshotInfo
	data, err := os.ReadFile(v.manifestPath(fleetID))
	if errors.Is(err, fs.ErrNotExist) {
		return info, fmt.Errorf("snapshot for %s: %w", fleetID, fleet.ErrNotFound)
	}
	if err != nil {
		return info, fmt.Errorf("reading manifest: %w", err)
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("decoding manifest for %s: %w", fleetID, err)
	}
	return info, nil
}

// ValidateSetup checks that the snapshot directory exists and accepts new files.
func (v *FileSystemVault) ValidateSetup() error {
	st, err := os.Stat(v.dir)
	if err != nil {
		return fmt.Errorf("vault %s not accessible: %w", v.name, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("vault %s: %s is not a directory", v.name, v.dir)
	}
	probe, err := os.CreateTemp(v.dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("vault %s not writable: %w", v.name, err)
	}
	probe.Close()
	return os.Remove(probe.Name())
}

// replaceFile streams r into a temp file beside path and renames it into
// place once exactly want bytes were written.
func replaceFile(path string, r io.Reader, want int64) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmp.Name())
		}
	}()

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, err
	}
	if n != want {
		return n, fmt.Errorf("wrote %d bytes, expected %d", n, want)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return n, err
	}
	committed = true
	return n, nil
}

var _ fleet.Vault = (*FileSystemVault)(nil)
