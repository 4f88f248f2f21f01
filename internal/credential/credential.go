package credential

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"fleet-go/internal/config"
	"fleet-go/internal/fleet"
)

// PlainHasher stores passwords as given and compares them exactly.
type PlainHasher struct{}

var _ fleet.Hasher = PlainHasher{}

func (PlainHasher) Hash(password string) (string, error) { return password, nil }

func (PlainHasher) Verify(stored, password string) bool { return stored == password }

// BcryptHasher stores bcrypt hashes. Records written before the switch from
// plain mode are still compared as plaintext until their password is changed.
type BcryptHasher struct {
	cost int
}

var _ fleet.Hasher = (*BcryptHasher)(nil)

// NewBcryptHasher returns a hasher with the given cost; 0 selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(stored, password string) bool {
	if !isBcrypt(stored) {
		return stored == password
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// NewHasherFromConfig creates a Hasher based on the configured password mode.
func NewHasherFromConfig(cfg config.AuthConfig) (fleet.Hasher, error) {
	switch cfg.PasswordMode {
	case "plain", "":
		return PlainHasher{}, nil
	case "bcrypt":
		return NewBcryptHasher(0), nil
	default:
		return nil, fmt.Errorf("unknown password mode: %q", cfg.PasswordMode)
	}
}
