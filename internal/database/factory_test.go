package database

import (
	"os"
	"path/filepath"
	"testing"

	"fleet-go/internal/config"
)

func TestNewDatabaseFromConfig(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested", "db")

	tests := []struct {
		name     string
		cfg      config.DatabaseConfig
		wantPath string
		wantErr  bool
	}{
		{name: "memory", cfg: config.DatabaseConfig{Type: "memory"}, wantPath: ":memory:"},
		{
			name:     "sqlite creates data dir",
			cfg:      config.DatabaseConfig{Type: "sqlite", DataDir: dataDir},
			wantPath: filepath.Join(dataDir, "fleet-1.db"),
		},
		{name: "sqlite without data_dir", cfg: config.DatabaseConfig{Type: "sqlite"}, wantErr: true},
		{name: "unknown type", cfg: config.DatabaseConfig{Type: "postgres"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewDatabaseFromConfig(tt.cfg, "fleet-1")
			if tt.wantErr {
				if err == nil || got != nil {
					t.Fatalf("NewDatabaseFromConfig() = %v, %v; want nil, error", got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewDatabaseFromConfig() error = %v", err)
			}
			defer got.Close()

			if err := got.CheckMigrations(); err != nil {
				t.Errorf("CheckMigrations() error = %v", err)
			}
			if p := got.(*SQLiteDatabase).Path(); p != tt.wantPath {
				t.Errorf("Path() = %q, want %q", p, tt.wantPath)
			}
			if tt.cfg.Type == "sqlite" {
				if _, err := os.Stat(tt.wantPath); err != nil {
					t.Errorf("database file not created: %v", err)
				}
			}
		})
	}
}
