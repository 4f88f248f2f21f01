package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultRegulatedCity is the city whose traffic rotation is checked when none is configured.
const DefaultRegulatedCity = "São Paulo"

// DefaultAvatarMaxSize caps imported avatar files at 512 KiB.
const DefaultAvatarMaxSize = 512 * 1024

// Config represents the main configuration for fleet.
type Config struct {
	FleetID    string           `toml:"fleet_id"`
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Vaults     []VaultConfig    `toml:"vaults"`
	Encryption EncryptionConfig `toml:"encryption"`
	Database   DatabaseConfig   `toml:"database"`
	Session    SessionConfig    `toml:"session"`
	Auth       AuthConfig       `toml:"auth"`
	Rules      RulesConfig      `toml:"rules"`
	Avatar     AvatarConfig     `toml:"avatar"`

	// AutoBackup exports a snapshot to the first vault after every command
	// that changed the store.
	AutoBackup bool `toml:"auto_backup"`
}

// EncryptionConfig holds paths to the age key pair used to encrypt backups.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age", "none" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// VaultConfig represents configuration for a backup vault.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "memory" or "filesystem"
	Name string `toml:"name"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// DatabaseConfig represents configuration for the collection database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// SessionConfig represents configuration for the login session scope.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type SessionConfig struct {
	Type       string `toml:"type"`                  // "filesystem" or "memory"
	SessionDir string `toml:"session_dir,omitempty"` // only used for type=filesystem; defaults to the runtime dir
}

// AuthConfig selects how driver passwords are stored.
type AuthConfig struct {
	PasswordMode string `toml:"password_mode"` // "plain" (default) or "bcrypt"
}

// RulesConfig controls the traffic rotation check.
type RulesConfig struct {
	RegulatedCity string `toml:"regulated_city"`
	Enforce       bool   `toml:"enforce"` // refuse restricted trip starts instead of warning; schedules are always refused
}

// AvatarConfig limits imported avatar files.
type AvatarConfig struct {
	MaxSize int64 `toml:"max_size"` // bytes; must be positive, defaults to DefaultAvatarMaxSize
}

// NewConfig creates a new Config with the provided values and default paths.
func NewConfig(fleetID, baseDir string) *Config {
	return &Config{
		FleetID: fleetID,
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Vaults: []VaultConfig{
			{Type: "filesystem", Name: "local", FSVaultRoot: filepath.Join(baseDir, "vault")},
		},
		Encryption: EncryptionConfig{
			Type:           "none",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "fleet.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "fleet.key"),
		},
		Database: DatabaseConfig{Type: "sqlite", DataDir: filepath.Join(baseDir, "db")},
		Session:  SessionConfig{Type: "filesystem"},
		Auth:     AuthConfig{PasswordMode: "plain"},
		Rules:    RulesConfig{RegulatedCity: DefaultRegulatedCity},
		Avatar:   AvatarConfig{MaxSize: DefaultAvatarMaxSize},

		AutoBackup: true,
	}
}

// Validate reports settings no command can run with. Unknown backend types
// are left to the factories.
func (c *Config) Validate() error {
	var errs []error
	if c.FleetID == "" {
		errs = append(errs, errors.New("fleet_id is not set"))
	}
	if c.Avatar.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("avatar.max_size must not be negative, got %d", c.Avatar.MaxSize))
	}
	if c.AutoBackup && len(c.Vaults) == 0 {
		errs = append(errs, errors.New("auto_backup needs at least one vault"))
	}
	for i, v := range c.Vaults {
		if v.Name == "" {
			errs = append(errs, fmt.Errorf("vaults[%d] has no name", i))
		}
	}
	return errors.Join(errs...)
}

// Decode reads a TOML document. Keys not present keep their zero value.
func Decode(r io.Reader) (*Config, error) {
	cfg := &Config{}
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config keys: %v", undecoded)
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// ReadFromFile loads the config file at path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Init writes cfg to a new file at path. An existing file is never replaced.
func Init(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err != nil {
		return err
	}
	if err := Encode(f, cfg); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
