package encryption

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"

	"fleet-go/internal/config"
	"fleet-go/internal/fleet"
)

// AgeEncryptor encrypts snapshot backups to an X25519 key pair.
//
// Key files:
//
//	public_key_path    age1... recipient, plaintext
//	private_key_path   AGE-SECRET-KEY-1... identity, itself age-encrypted with the passphrase (scrypt)
//
// Ciphertext is ASCII-armored, so a vault only ever holds text.
type AgeEncryptor struct {
	publicKeyPath  string
	privateKeyPath string
}

var _ fleet.Encryptor = (*AgeEncryptor)(nil)

// NewAgeEncryptor creates a new AgeEncryptor from configuration.
func NewAgeEncryptor(cfg config.EncryptionConfig) *AgeEncryptor {
	return &AgeEncryptor{
		publicKeyPath:  cfg.PublicKeyPath,
		privateKeyPath: cfg.PrivateKeyPath,
	}
}

// Setup generates the key pair. It refuses to replace existing keys, since
// snapshots encrypted to them would become unreadable.
func (e *AgeEncryptor) Setup(passphrase string) error {
	if e.IsConfigured() {
		return fmt.Errorf("encryption keys already exist at %s", filepath.Dir(e.privateKeyPath))
	}
	if passphrase == "" {
		return errors.New("passphrase must not be empty")
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}
	lock, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("deriving passphrase key: %w", err)
	}

	if err := writeFile(e.privateKeyPath, 0600, func(w io.Writer) error {
		return seal(w, lock, strings.NewReader(identity.String()+"\n"))
	}); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	if err := writeFile(e.publicKeyPath, 0644, func(w io.Writer) error {
		_, err := io.WriteString(w, identity.Recipient().String()+"\n")
		return err
	}); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}
	return nil
}

// PublicKey returns the age recipient string snapshots are encrypted to.
func (e *AgeEncryptor) PublicKey() (string, error) {
	r, err := e.recipient()
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// Encrypt writes r to w as an armored age file readable by the private key.
func (e *AgeEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	recipient, err := e.recipient()
	if err != nil {
		return err
	}
	aw := armor.NewWriter(w)
	if err := seal(aw, recipient, r); err != nil {
		return err
	}
	if err := aw.Close(); err != nil {
		return fmt.Errorf("finalizing armor: %w", err)
	}
	return nil
}

// Unlock decrypts the private key with passphrase.
func (e *AgeEncryptor) Unlock(passphrase string) (fleet.DecryptionContext, error) {
	f, err := os.Open(e.privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("opening private key: %w", err)
	}
	defer f.Close()

	unlock, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("deriving passphrase key: %w", err)
	}
	plain, err := age.Decrypt(f, unlock)
	if err != nil {
		return nil, fmt.Errorf("wrong passphrase or corrupt private key: %w", err)
	}
	identities, err := age.ParseIdentities(plain)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	return &AgeDecryptionContext{identity: identities[0]}, nil
}

// IsConfigured reports whether both key files exist.
func (e *AgeEncryptor) IsConfigured() bool {
	for _, p := range []string{e.publicKeyPath, e.privateKeyPath} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

func (e *AgeEncryptor) recipient() (*age.X25519Recipient, error) {
	data, err := os.ReadFile(e.publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}
	r, err := age.ParseX25519Recipient(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing public key %s: %w", e.publicKeyPath, err)
	}
	return r, nil
}

// AgeDecryptionContext holds an unlocked identity for one restore.
type AgeDecryptionContext struct {
	identity age.Identity
}

var _ fleet.DecryptionContext = (*AgeDecryptionContext)(nil)

// Decrypt reads an armored age file from r and writes the plaintext to w.
func (c *AgeDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	plain, err := age.Decrypt(armor.NewReader(r), c.identity)
	if err != nil {
		return fmt.Errorf("opening encrypted snapshot: %w", err)
	}
	if _, err := io.Copy(w, plain); err != nil {
		return fmt.Errorf("decrypting snapshot: %w", err)
	}
	return nil
}

// seal encrypts r to recipient and writes the result to w.
func seal(w io.Writer, recipient age.Recipient, r io.Reader) error {
	enc, err := age.Encrypt(w, recipient)
	if err != nil {
		return fmt.Errorf("starting encryption: %w", err)
	}
	if _, err := io.Copy(enc, r); err != nil {
		return fmt.Errorf("encrypting: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	return nil
}

// writeFile creates path with perm, creating parent directories, and fills it with fill.
func writeFile(path string, perm os.FileMode, fill func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
