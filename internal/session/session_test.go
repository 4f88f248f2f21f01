package session

import (
	"os"
	"path/filepath"
	"testing"

	"fleet-go/internal/config"
	"fleet-go/internal/fleet"
	"fleet-go/internal/model"
)

func TestSessionStores(t *testing.T) {
	stores := map[string]func(t *testing.T) fleet.SessionStore{
		"memory": func(t *testing.T) fleet.SessionStore {
			return NewMemorySessionStore()
		},
		"filesystem": func(t *testing.T) fleet.SessionStore {
			s, err := NewFileSystemSessionStore(t.TempDir(), "fleet-1")
			if err != nil {
				t.Fatalf("NewFileSystemSessionStore() error = %v", err)
			}
			return s
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			t.Run("empty session loads nil", func(t *testing.T) {
				s := newStore(t)
				got, err := s.Load()
				if err != nil {
					t.Fatalf("Load() error = %v", err)
				}
				if got != nil {
					t.Errorf("Load() = %+v, want nil", got)
				}
			})

			t.Run("saved driver loads back", func(t *testing.T) {
				s := newStore(t)
				want := model.Driver{ID: "d1", Name: "Ana", Username: "ana", Password: "123", PasswordChanged: true}
				if err := s.Save(&want); err != nil {
					t.Fatalf("Save() error = %v", err)
				}

				got, err := s.Load()
				if err != nil {
					t.Fatalf("Load() error = %v", err)
				}
				if got == nil || *got != want {
					t.Errorf("Load() = %+v, want %+v", got, want)
				}
			})

			t.Run("loaded driver is a copy", func(t *testing.T) {
				s := newStore(t)
				s.Save(&model.Driver{ID: "d1", Name: "Ana"})

				got, _ := s.Load()
				got.Name = "changed"

				again, _ := s.Load()
				if again.Name != "Ana" {
					t.Errorf("Name = %q after mutating a loaded copy, want Ana", again.Name)
				}
			})

			t.Run("clear removes the session", func(t *testing.T) {
				s := newStore(t)
				s.Save(&model.Driver{ID: "d1"})
				if err := s.Clear(); err != nil {
					t.Fatalf("Clear() error = %v", err)
				}

				got, err := s.Load()
				if err != nil {
					t.Fatalf("Load() error = %v", err)
				}
				if got != nil {
					t.Errorf("Load() after Clear = %+v, want nil", got)
				}
			})

			t.Run("clear without session is not an error", func(t *testing.T) {
				s := newStore(t)
				if err := s.Clear(); err != nil {
					t.Errorf("Clear() error = %v", err)
				}
			})
		})
	}
}

func TestFileSystemSessionStore_FileMode(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSystemSessionStore(dir, "fleet-1")
	if err != nil {
		t.Fatalf("NewFileSystemSessionStore() error = %v", err)
	}
	if err := s.Save(&model.Driver{ID: "d1", Password: "secret"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "fleet-1.session.json"))
	if err != nil {
		t.Fatalf("session file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		t.Errorf("session file mode = %o, want no group/other access", perm)
	}
}

func TestNewSessionStoreFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SessionConfig
		wantErr bool
	}{
		{name: "memory", cfg: config.SessionConfig{Type: "memory"}},
		{name: "filesystem", cfg: config.SessionConfig{Type: "filesystem", SessionDir: t.TempDir()}},
		{name: "unknown", cfg: config.SessionConfig{Type: "cookie"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSessionStoreFromConfig(tt.cfg, "fleet-1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSessionStoreFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got == nil {
				t.Error("NewSessionStoreFromConfig() returned nil")
			}
		})
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	if got := DefaultDir(); got != "/run/user/1000/fleet" {
		t.Errorf("DefaultDir() = %q, want /run/user/1000/fleet", got)
	}
}
