package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fleet-go/internal/config"
	"fleet-go/internal/credential"
	"fleet-go/internal/database"
	"fleet-go/internal/encryption"
	"fleet-go/internal/fleet"
	"fleet-go/internal/fs"
	"fleet-go/internal/model"
	"fleet-go/internal/rodizio"
	"fleet-go/internal/session"
	"fleet-go/internal/vault"
)

// ErrRestricted is returned when a trip would enter the regulated city on a day
// the plate is barred: always for schedules, for trip starts only when
// enforcement is on.
var ErrRestricted = errors.New("vehicle restricted by rodízio")

// FleetApp is the application layer between the CLI and the store.
// It constructs all dependencies from config, applies the input rules the
// store leaves to its caller, and records mutating commands in the history.
type FleetApp struct {
	cfg       *config.Config
	db        fleet.Database
	sessions  fleet.SessionStore
	vault     fleet.Vault
	encryptor fleet.Encryptor
	fsmgr     fleet.FilesystemManager
	store     *fleet.Store
	gateway   *fleet.Gateway
	backup    *fleet.BackupService
	rules     *rodizio.Engine
	logger    fleet.Logger
	clock     fleet.Clock
	op        *Operation
	logFile   *os.File
}

// NewFleetApp creates a fully wired FleetApp from the given config.
// operation identifies the CLI command being run (e.g. "VehicleAdd", "TripStart").
// The caller must call Close when done.
func NewFleetApp(cfg *config.Config, operation string) (*FleetApp, error) {
	return newFleetApp(cfg, operation, fleet.RealClock{}, fleet.UUIDGenerator{})
}

func newFleetApp(cfg *config.Config, operation string, clock fleet.Clock, idgen fleet.IDGenerator) (*FleetApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var v fleet.Vault
	if len(cfg.Vaults) > 0 {
		var err error
		v, err = vault.NewVaultFromConfig(cfg.Vaults[0])
		if err != nil {
			return nil, fmt.Errorf("creating vault: %w", err)
		}
		if err := v.ValidateSetup(); err != nil {
			return nil, fmt.Errorf("vault %s: %w", cfg.Vaults[0].Name, err)
		}
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	hasher, err := credential.NewHasherFromConfig(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("creating hasher: %w", err)
	}

	sessions, err := session.NewSessionStoreFromConfig(cfg.Session, cfg.FleetID)
	if err != nil {
		return nil, fmt.Errorf("creating session store: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.FleetID)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	opID := clock.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	store, err := fleet.NewStore(db, sessions, hasher, logger, clock, idgen)
	if err != nil {
		db.Close()
		logFile.Close()
		return nil, fmt.Errorf("opening store: %w", err)
	}

	city := cfg.Rules.RegulatedCity
	if city == "" {
		city = config.DefaultRegulatedCity
	}

	a := &FleetApp{
		cfg:       cfg,
		db:        db,
		sessions:  sessions,
		vault:     v,
		encryptor: enc,
		fsmgr:     fs.NewOSFilesystemManager(),
		store:     store,
		gateway:   fleet.NewGateway(store),
		rules:     rodizio.NewEngine(city),
		logger:    logger,
		clock:     clock,
		op:        NewOperation(operation, ""),
		logFile:   logFile,
	}
	if v != nil {
		a.backup = fleet.NewBackupService(store, v, enc, logger)
		a.checkBackupVersion()
	}
	return a, nil
}

// checkBackupVersion warns when the vault holds a snapshot newer than the local history.
func (a *FleetApp) checkBackupVersion() {
	info, err := a.vault.StatSnapshot(a.cfg.FleetID)
	if errors.Is(err, fleet.ErrNotFound) {
		return
	}
	if err != nil {
		a.logger.Warn("checking backup version", "error", err)
		return
	}
	local, err := a.db.MaxOperationID()
	if err != nil {
		a.logger.Warn("checking local version", "error", err)
		return
	}
	if info.Version > local {
		a.logger.Warn("local store is behind the latest backup; run restore",
			"local", local, "remote", info.Version, "stored_at", info.StoredAt.Format(time.RFC3339))
	}
}

// persistOperation saves the operation to the database, giving it an auto-increment ID.
// This should only be called for store-mutating commands.
func (a *FleetApp) persistOperation(parameters string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = parameters
	dbOp, err := a.db.CreateOperation(a.op.Operation, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = dbOp.ID
	return nil
}

// mutate records the operation and runs fn, marking the operation failed if fn fails.
func (a *FleetApp) mutate(parameters string, fn func() error) error {
	if err := a.persistOperation(parameters); err != nil {
		return err
	}
	if err := fn(); err != nil {
		a.op.Fail()
		return err
	}
	return nil
}

// Config returns the config the app was built from.
func (a *FleetApp) Config() *config.Config {
	return a.cfg
}

// History returns the most recent recorded operations.
func (a *FleetApp) History(limit int) ([]*model.Operation, error) {
	return a.store.History(limit)
}

// Reset wipes every collection and the session and reseeds the admin driver.
// The operation history is kept. With keepCopy, a file-backed database is
// first copied to <fleet_id>.pre-reset.db beside it, replacing any earlier copy.
func (a *FleetApp) Reset(keepCopy bool) error {
	params := ""
	if keepCopy {
		params = "keep-copy"
	}
	return a.mutate(params, func() error {
		if keepCopy {
			if err := a.copyBeforeReset(); err != nil {
				return err
			}
		}
		return a.store.Reset()
	})
}

// copyBeforeReset snapshots a file-backed database next to itself.
func (a *FleetApp) copyBeforeReset() error {
	copier, ok := a.db.(interface {
		Path() string
		BackupTo(string) error
	})
	if !ok || copier.Path() == ":memory:" {
		return nil
	}
	dest := filepath.Join(filepath.Dir(copier.Path()), a.cfg.FleetID+".pre-reset.db")
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing previous copy: %w", err)
	}
	if err := copier.BackupTo(dest); err != nil {
		return fmt.Errorf("copying database before reset: %w", err)
	}
	a.logger.Info("database copied before reset", "path", dest)
	return nil
}

// Close finalizes the operation and closes all resources.
// For persisted operations the finish status is recorded and, when auto backup
// is enabled and the command succeeded, a snapshot is exported to the vault.
func (a *FleetApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.db.FinishOperation(a.op.ID, a.op.Status); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}

		if a.cfg.AutoBackup && a.backup != nil && a.op.Status == StatusSuccess {
			if _, err := a.backup.Backup(a.cfg.FleetID); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("auto backup: %w", err)
			}
		}
	}

	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}

// now returns the app clock time.
func (a *FleetApp) now() time.Time {
	return a.clock.Now()
}
