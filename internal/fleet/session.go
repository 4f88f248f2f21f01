package fleet

import "fleet-go/internal/model"

// SessionStore keeps the logged-in driver in a scope that does not outlive
// the user's login session, separate from the durable collections.
type SessionStore interface {
	// Load returns the stored driver, or nil if there is no session.
	Load() (*model.Driver, error)

	// Save replaces the stored driver.
	Save(driver *model.Driver) error

	// Clear removes the session. Clearing an empty session is not an error.
	Clear() error
}

// Hasher turns plaintext passwords into their stored form and checks them.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(stored, password string) bool
}
