package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"fleet-go/internal/fleet"
	"fleet-go/internal/model"
)

// FileSystemSessionStore keeps the session as a JSON file in a runtime
// directory, which the OS empties when the user's login session ends.
//
// Directory structure:
//
//	<session_dir>/
//	  <fleet_id>.session.json   (the logged-in driver record)
type FileSystemSessionStore struct {
	path string
}

// NewFileSystemSessionStore creates a session store for one fleet under dir.
func NewFileSystemSessionStore(dir, fleetID string) (*FileSystemSessionStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileSystemSessionStore{
		path: filepath.Join(dir, fleetID+".session.json"),
	}, nil
}

// Load returns the stored driver, or nil if no session file exists.
func (s *FileSystemSessionStore) Load() (*model.Driver, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var d model.Driver
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding session file: %w", err)
	}
	return &d, nil
}

// Save writes the driver record using temp file + rename.
func (s *FileSystemSessionStore) Save(driver *model.Driver) error {
	data, err := json.Marshal(driver)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Clear removes the session file. A missing file is not an error.
func (s *FileSystemSessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// Compile-time check that FileSystemSessionStore implements fleet.SessionStore interface
var _ fleet.SessionStore = (*FileSystemSessionStore)(nil)
