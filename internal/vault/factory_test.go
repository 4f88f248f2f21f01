package vault

import (
	"fmt"
	"path/filepath"
	"testing"

	"fleet-go/internal/config"
)

func TestNewVaultFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.VaultConfig
		want    string
		wantErr bool
	}{
		{name: "memory", cfg: config.VaultConfig{Type: "memory", Name: "m"}, want: "*vault.MemoryVault"},
		{
			name: "filesystem",
			cfg:  config.VaultConfig{Type: "filesystem", Name: "fs", FSVaultRoot: filepath.Join(t.TempDir(), "v")},
			want: "*vault.FileSystemVault",
		},
		{name: "filesystem without root", cfg: config.VaultConfig{Type: "filesystem", Name: "fs"}, wantErr: true},
		{name: "unknown type", cfg: config.VaultConfig{Type: "s3", Name: "x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewVaultFromConfig(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewVaultFromConfig() = %T, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewVaultFromConfig() error = %v", err)
			}
			if typ := typeName(got); typ != tt.want {
				t.Errorf("NewVaultFromConfig() type = %s, want %s", typ, tt.want)
			}
			if err := got.ValidateSetup(); err != nil {
				t.Errorf("ValidateSetup() error = %v", err)
			}
		})
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
