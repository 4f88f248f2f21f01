package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv reads a .env file from the working directory into the environment.
// Variables already set win over the file. A missing file is not an error.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Paths are the locations used before any config has been read.
type Paths struct {
	ConfigFile string // FLEET_CONFIG_PATH, default ~/.config/fleet.toml
	BaseDir    string // FLEET_HOME, default ~/.local/share/fleet
}

// DefaultPaths resolves Paths from the environment, falling back to the home directory.
func DefaultPaths() (Paths, error) {
	p := Paths{
		ConfigFile: os.Getenv("FLEET_CONFIG_PATH"),
		BaseDir:    os.Getenv("FLEET_HOME"),
	}
	if p.ConfigFile != "" && p.BaseDir != "" {
		return p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("cannot determine home directory: %w", err)
	}
	if p.ConfigFile == "" {
		p.ConfigFile = filepath.Join(home, ".config", "fleet.toml")
	}
	if p.BaseDir == "" {
		p.BaseDir = filepath.Join(home, ".local", "share", "fleet")
	}
	return p, nil
}
