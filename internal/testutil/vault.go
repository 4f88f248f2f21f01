package testutil

import "fleet-go/internal/vault"

// NewTestVault returns an empty in-memory vault.
func NewTestVault() *vault.MemoryVault {
	return vault.NewMemoryVault("test")
}
