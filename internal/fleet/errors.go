package fleet

import "errors"

var (
	// ErrNotFound means the target id does not exist. State is left unchanged.
	ErrNotFound = errors.New("not found")

	// ErrInvalid means a required field was missing from the call.
	ErrInvalid = errors.New("invalid input")

	// ErrProtected means the target is the seeded admin driver, or the
	// operation is reserved for the admin.
	ErrProtected = errors.New("protected record")

	// ErrNoSession means the operation requires a logged-in driver.
	ErrNoSession = errors.New("no active session")

	// ErrInvalidCredentials is returned for any failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
