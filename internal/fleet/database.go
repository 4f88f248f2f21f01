package fleet

import "fleet-go/internal/model"

// Database persists one record per collection plus the console operation history.
type Database interface {
	// LoadCollections returns the stored record of every collection, keyed by
	// collection name. Collections never written are absent from the map.
	LoadCollections() (map[string][]byte, error)

	// SaveCollections writes all given records in a single transaction.
	SaveCollections(records map[string][]byte) error

	// ClearCollections deletes every collection record.
	ClearCollections() error

	// Operation history

	// CreateOperation records the start of a console operation.
	CreateOperation(operation, parameters string) (*model.Operation, error)

	// FinishOperation stamps the finish time and final status of an operation.
	FinishOperation(id int64, status string) error

	// ListOperations returns the most recent operations, newest first.
	ListOperations(limit int) ([]*model.Operation, error)

	// MaxOperationID returns the highest operation id, or 0 if none exist.
	MaxOperationID() (int64, error)

	// CheckMigrations verifies the schema is up to date.
	CheckMigrations() error

	// Close closes the database connection.
	Close() error
}
