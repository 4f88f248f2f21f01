package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"fleet-go/internal/database/migrations"
	"fleet-go/internal/fleet"
	"fleet-go/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDatabase stores each collection as one row holding its JSON payload,
// next to the table of recorded operations.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase opens path, which may be ":memory:", and migrates it to
// the latest schema.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}
	return &SQLiteDatabase{db: db, path: path}, nil
}

// NewSQLiteDatabaseFromDB wraps a connection whose schema the caller has set up.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{db: db}
}

// connParams are applied by the driver to every new connection.
var connParams = url.Values{
	"_foreign_keys": {"on"},
	"_busy_timeout": {"5000"},
}

// OpenConnection opens a SQLite connection pool for path with foreign keys
// enforced and a busy timeout.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?"+connParams.Encode())
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// Each connection to ":memory:" would see its own empty database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", path, err)
	}
	return db, nil
}

// Collection operations

func (s *SQLiteDatabase) LoadCollections() (map[string][]byte, error) {
	rows, err := s.db.QueryContext(context.Background(), `SELECT name, payload FROM collections`)
	if err != nil {
		return nil, fmt.Errorf("loading collections: %w", err)
	}
	defer rows.Close()

	records := make(map[string][]byte)
	for rows.Next() {
		var name, payload string
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		records[name] = []byte(payload)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading collections: %w", err)
	}
	return records, nil
}

// SaveCollections writes every record in a single transaction.
func (s *SQLiteDatabase) SaveCollections(records map[string][]byte) error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO collections (name, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("preparing collection upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for name, payload := range records {
		if _, err := stmt.ExecContext(ctx, name, string(payload), now); err != nil {
			return fmt.Errorf("saving collection %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ClearCollections() error {
	if _, err := s.db.ExecContext(context.Background(), `DELETE FROM collections`); err != nil {
		return fmt.Errorf("clearing collections: %w", err)
	}
	return nil
}

// Operation history

func (s *SQLiteDatabase) CreateOperation(operation string, parameters string) (*model.Operation, error) {
	startedAt := time.Now().UTC()
	res, err := s.db.ExecContext(context.Background(),
		`INSERT INTO operations (operation, parameters, started_at, status) VALUES (?, ?, ?, 'pending')`,
		operation, parameters, startedAt)
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading operation id: %w", err)
	}
	return &model.Operation{
		ID:         id,
		Operation:  operation,
		Parameters: parameters,
		StartedAt:  startedAt,
		Status:     "pending",
	}, nil
}

func (s *SQLiteDatabase) FinishOperation(id int64, status string) error {
	_, err := s.db.ExecContext(context.Background(),
		`UPDATE operations SET finished_at = ?, status = ? WHERE id = ?`,
		time.Now().UTC(), status, id)
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListOperations(limit int) ([]*model.Operation, error) {
	rows, err := s.db.QueryContext(context.Background(), `
		SELECT id, operation, parameters, started_at, finished_at, status
		FROM operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*model.Operation
	for rows.Next() {
		op := &model.Operation{}
		var finished sql.NullTime
		if err := rows.Scan(&op.ID, &op.Operation, &op.Parameters, &op.StartedAt, &finished, &op.Status); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			op.FinishedAt = &t
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

func (s *SQLiteDatabase) MaxOperationID() (int64, error) {
	var id int64
	err := s.db.QueryRowContext(context.Background(), `SELECT COALESCE(MAX(id), 0) FROM operations`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("getting max operation ID: %w", err)
	}
	return id, nil
}

// Path is the file the database was opened from, or ":memory:".
func (s *SQLiteDatabase) Path() string { return s.path }

func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// BackupTo writes a consistent copy of the database to destPath, which must not exist.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	if _, err := s.db.ExecContext(context.Background(), `VACUUM INTO ?`, destPath); err != nil {
		return fmt.Errorf("copying database to %s: %w", destPath, err)
	}
	return nil
}

func (s *SQLiteDatabase) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ fleet.Database = (*SQLiteDatabase)(nil)
