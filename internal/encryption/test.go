package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"fleet-go/internal/fleet"
)

// testMagic prefixes TestEncryptor output. It cannot be mistaken for a JSON snapshot.
var testMagic = []byte("FLEETENC")

// TestEncryptor marks data instead of encrypting it, for tests that exercise
// the backup flow without key files. Once Setup has been called, Unlock only
// accepts the same passphrase.
type TestEncryptor struct {
	passphrase string
	setup      bool
}

var _ fleet.Encryptor = (*TestEncryptor)(nil)

func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.passphrase = passphrase
	e.setup = true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testMagic); err != nil {
		return err
	}
	_, err := io.Copy(w, r)
	return err
}

func (e *TestEncryptor) Unlock(passphrase string) (fleet.DecryptionContext, error) {
	if e.setup && passphrase != e.passphrase {
		return nil, errors.New("wrong passphrase")
	}
	return testDecryptor{}, nil
}

func (e *TestEncryptor) IsConfigured() bool { return true }

type testDecryptor struct{}

func (testDecryptor) Decrypt(r io.Reader, w io.Writer) error {
	head := make([]byte, len(testMagic))
	if _, err := io.ReadFull(r, head); err != nil {
		return fmt.Errorf("reading marker: %w", err)
	}
	if !bytes.Equal(head, testMagic) {
		return errors.New("data was not written by TestEncryptor")
	}
	_, err := io.Copy(w, r)
	return err
}
