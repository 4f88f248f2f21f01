package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name       string
		configPath string
		fleetHome  string
		want       Paths
	}{
		{
			name:       "environment",
			configPath: "/custom/config.toml",
			fleetHome:  "/custom/fleet",
			want:       Paths{ConfigFile: "/custom/config.toml", BaseDir: "/custom/fleet"},
		},
		{
			name: "home directory",
			want: Paths{
				ConfigFile: filepath.Join(home, ".config", "fleet.toml"),
				BaseDir:    filepath.Join(home, ".local", "share", "fleet"),
			},
		},
		{
			name:      "mixed",
			fleetHome: "/srv/fleet",
			want:      Paths{ConfigFile: filepath.Join(home, ".config", "fleet.toml"), BaseDir: "/srv/fleet"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FLEET_CONFIG_PATH", tt.configPath)
			t.Setenv("FLEET_HOME", tt.fleetHome)

			got, err := DefaultPaths()
			if err != nil {
				t.Fatalf("DefaultPaths() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DefaultPaths() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	t.Run("reads .env from working directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("FLEET_HOME=/from/dotenv\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		t.Chdir(dir)
		t.Setenv("FLEET_HOME", "")
		os.Unsetenv("FLEET_HOME")

		if err := LoadEnv(); err != nil {
			t.Fatalf("LoadEnv() error = %v", err)
		}
		if got := os.Getenv("FLEET_HOME"); got != "/from/dotenv" {
			t.Errorf("FLEET_HOME = %q, want /from/dotenv", got)
		}
	})

	t.Run("environment wins over file", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("FLEET_HOME=/from/dotenv\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		t.Chdir(dir)
		t.Setenv("FLEET_HOME", "/from/env")

		if err := LoadEnv(); err != nil {
			t.Fatalf("LoadEnv() error = %v", err)
		}
		if got := os.Getenv("FLEET_HOME"); got != "/from/env" {
			t.Errorf("FLEET_HOME = %q, want /from/env", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		if err := LoadEnv(); err != nil {
			t.Errorf("LoadEnv() error = %v", err)
		}
	})
}
