package session

import (
	"fmt"
	"os"
	"path/filepath"

	"fleet-go/internal/config"
	"fleet-go/internal/fleet"
)

// NewSessionStoreFromConfig creates a SessionStore implementation based on the config type.
func NewSessionStoreFromConfig(cfg config.SessionConfig, fleetID string) (fleet.SessionStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemorySessionStore(), nil
	case "filesystem", "":
		dir := cfg.SessionDir
		if dir == "" {
			dir = DefaultDir()
		}
		s, err := NewFileSystemSessionStore(dir, fleetID)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown session type: %s", cfg.Type)
	}
}

// DefaultDir returns $XDG_RUNTIME_DIR/fleet, falling back to a per-user
// directory under the system temp dir.
func DefaultDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "fleet")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("fleet-%d", os.Getuid()))
}
