package testutil

import (
	"fleet-go/internal/fleet"
	"fleet-go/internal/session"
)

// NewTestSessionStore creates a session store that lives for the test only.
func NewTestSessionStore() fleet.SessionStore {
	return session.NewMemorySessionStore()
}
