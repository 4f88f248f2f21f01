package session

import (
	"sync"

	"fleet-go/internal/fleet"
	"fleet-go/internal/model"
)

// MemorySessionStore keeps the session for the life of the process only.
// It is safe for concurrent use.
type MemorySessionStore struct {
	mu     sync.Mutex
	driver *model.Driver
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (m *MemorySessionStore) Load() (*model.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.driver == nil {
		return nil, nil
	}
	d := *m.driver
	return &d, nil
}

func (m *MemorySessionStore) Save(driver *model.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := *driver
	m.driver = &d
	return nil
}

func (m *MemorySessionStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.driver = nil
	return nil
}

// Compile-time check that MemorySessionStore implements fleet.SessionStore interface
var _ fleet.SessionStore = (*MemorySessionStore)(nil)
