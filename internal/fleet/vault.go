package fleet

import (
	"io"
	"time"
)

// SnapshotInfo describes a snapshot held by a vault.
type SnapshotInfo struct {
	Version  int64     `json:"version"` // id of the latest recorded operation when it was taken
	Size     int64     `json:"size"`    // bytes as stored, after encryption
	StoredAt time.Time `json:"stored_at"`
}

// Vault stores exported snapshots of the whole store, one per fleet.
// Lookups of a fleet without a snapshot return an error wrapping ErrNotFound.
type Vault interface {
	// PutSnapshot replaces the fleet's snapshot with info.Size bytes read from r.
	PutSnapshot(fleetID string, r io.Reader, info SnapshotInfo) error

	// GetSnapshot writes the fleet's snapshot to w.
	GetSnapshot(fleetID string, w io.Writer) error

	// StatSnapshot describes the fleet's snapshot without reading it.
	StatSnapshot(fleetID string) (SnapshotInfo, error)

	// ValidateSetup verifies that the vault is reachable and writable.
	ValidateSetup() error
}

// Encryptor encrypts exported snapshots with a public key. Decryption needs a
// passphrase to unlock the private key, producing a DecryptionContext.
type Encryptor interface {
	// Setup generates the key pair, protecting the private key with passphrase.
	Setup(passphrase string) error

	// Encrypt encrypts data read from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key and returns a context able to decrypt.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if both key files exist.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory only.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}
