package vault

import (
	"fmt"

	"fleet-go/internal/config"
	"fleet-go/internal/fleet"
)

// NewVaultFromConfig builds the vault named by cfg.Type.
func NewVaultFromConfig(cfg config.VaultConfig) (fleet.Vault, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryVault(cfg.Name), nil
	case "filesystem":
		if cfg.FSVaultRoot == "" {
			return nil, fmt.Errorf("vault %s: fs_vault_root is required for filesystem vaults", cfg.Name)
		}
		v, err := NewFileSystemVault(cfg.Name, cfg.FSVaultRoot)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("vault %s: unknown type %q", cfg.Name, cfg.Type)
	}
}
