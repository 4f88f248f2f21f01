package testutil

import (
	"testing"

	"fleet-go/internal/config"
	"fleet-go/internal/database"
	"fleet-go/internal/fleet"
)

// NewTestDatabase opens a migrated in-memory database that is closed when
// the test ends.
func NewTestDatabase(t *testing.T) fleet.Database {
	t.Helper()

	db, err := database.NewDatabaseFromConfig(config.DatabaseConfig{Type: "memory"}, "test")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
