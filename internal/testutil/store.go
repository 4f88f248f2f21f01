package testutil

import (
	"testing"

	"fleet-go/internal/credential"
	"fleet-go/internal/fleet"
)

// TestStore bundles a store with the collaborators it was built from, so tests
// can reopen the same database or advance the clock.
type TestStore struct {
	*fleet.Store
	Database fleet.Database
	Sessions fleet.SessionStore
	Clock    *StubClock
	IDs      *StubIDGenerator
}

// NewTestStore creates a store on an in-memory database with plaintext
// passwords, a fixed clock and sequential ids.
func NewTestStore(t *testing.T) *TestStore {
	t.Helper()

	ts := &TestStore{
		Database: NewTestDatabase(t),
		Sessions: NewTestSessionStore(),
		Clock:    FixedClock(),
		IDs:      NewStubIDGenerator(),
	}
	ts.Store = ts.Reopen(t)
	return ts
}

// Reopen builds a fresh store over the same database and session, as a
// restarted process would.
func (ts *TestStore) Reopen(t *testing.T) *fleet.Store {
	t.Helper()

	store, err := fleet.NewStore(ts.Database, ts.Sessions, credential.PlainHasher{}, fleet.NewNopLogger(), ts.Clock, ts.IDs)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}
