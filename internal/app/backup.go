package app

import (
	"errors"
	"fmt"

	"fleet-go/internal/config"
	"fleet-go/internal/encryption"
	"fleet-go/internal/fleet"
)

// SetupEncryption generates the backup key pair named in cfg, protecting the
// private key with passphrase. It does nothing when encryption is off.
func SetupEncryption(cfg *config.Config, passphrase string) error {
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	if enc == nil {
		return nil
	}
	if err := enc.Setup(passphrase); err != nil {
		return fmt.Errorf("generating keys: %w", err)
	}
	return nil
}

// Backup exports the store to the first configured vault and returns the stored version.
func (a *FleetApp) Backup() (int64, error) {
	if a.backup == nil {
		return 0, fmt.Errorf("no vaults configured")
	}
	return a.backup.Backup(a.cfg.FleetID)
}

// NeedsPassphrase reports whether restoring requires unlocking the private key.
func (a *FleetApp) NeedsPassphrase() bool {
	return a.encryptor != nil
}

// Restore replaces every collection with the snapshot in the vault.
// passphrase unlocks the private key when encryption is configured.
func (a *FleetApp) Restore(passphrase string) error {
	if a.backup == nil {
		return fmt.Errorf("no vaults configured")
	}
	var dec fleet.DecryptionContext
	if a.encryptor != nil {
		var err error
		dec, err = a.encryptor.Unlock(passphrase)
		if err != nil {
			return fmt.Errorf("unlocking private key: %w", err)
		}
	}
	return a.mutate(a.cfg.FleetID, func() error {
		return a.backup.Restore(a.cfg.FleetID, dec)
	})
}

// BackupStatus describes the vault snapshot and the local history version.
// ok is false when the vault holds no snapshot for this fleet.
func (a *FleetApp) BackupStatus() (info fleet.SnapshotInfo, local int64, ok bool, err error) {
	if a.vault == nil {
		return info, 0, false, fmt.Errorf("no vaults configured")
	}
	local, err = a.db.MaxOperationID()
	if err != nil {
		return info, 0, false, err
	}
	info, err = a.vault.StatSnapshot(a.cfg.FleetID)
	if errors.Is(err, fleet.ErrNotFound) {
		return info, local, false, nil
	}
	if err != nil {
		return info, local, false, err
	}
	return info, local, true, nil
}
