package database

import (
	"fmt"
	"os"
	"path/filepath"

	"fleet-go/internal/config"
	"fleet-go/internal/fleet"
)

// NewDatabaseFromConfig creates a Database implementation based on the database config type.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, fleetID string) (fleet.Database, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("creating data_dir: %w", err)
		}
		return open(filepath.Join(cfg.DataDir, fleetID+".db"))
	case "memory":
		return open(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

// open avoids returning a typed nil inside the interface on error.
func open(path string) (fleet.Database, error) {
	db, err := NewSQLiteDatabase(path)
	if err != nil {
		return nil, err
	}
	return db, nil
}
