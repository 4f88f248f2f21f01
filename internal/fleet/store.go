package fleet

import (
	"fmt"
	"slices"

	"fleet-go/internal/model"
)

// AdminID is the id of the seeded administrator driver. It cannot be deleted.
const AdminID = "admin"

// Store is the single source of truth for every fleet collection and for the
// current session. Each mutation builds a new snapshot, persists it, and only
// then makes it current, so callers never observe a state that was not saved.
//
// The store trusts its caller: beyond id lookups it does not validate business
// rules. Lookup misses return ErrNotFound and leave the state untouched.
type Store struct {
	database Database
	sessions SessionStore
	hasher   Hasher
	logger   Logger
	clock    Clock
	idgen    IDGenerator

	snap    *Snapshot
	current *model.Driver
}

// NewStore loads the persisted collections and session and returns a ready store.
// The admin driver is seeded if the roster is empty.
func NewStore(database Database, sessions SessionStore, hasher Hasher, logger Logger, clock Clock, idgen IDGenerator) (*Store, error) {
	s := &Store{
		database: database,
		sessions: sessions,
		hasher:   hasher,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads the durable collections and the session pointer.
func (s *Store) load() error {
	records, err := s.database.LoadCollections()
	if err != nil {
		return fmt.Errorf("loading collections: %w", err)
	}
	snap, err := SnapshotFromRecords(records)
	if err != nil {
		return fmt.Errorf("decoding collections: %w", err)
	}
	s.snap = snap

	if len(s.snap.Drivers) == 0 {
		if err := s.seedAdmin(); err != nil {
			return err
		}
	}

	current, err := s.sessions.Load()
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if current != nil && slices.IndexFunc(s.snap.Drivers, byDriverID(current.ID)) < 0 {
		s.logger.Warn("session driver no longer on roster", "driver", current.ID)
		if err := s.sessions.Clear(); err != nil {
			return fmt.Errorf("clearing stale session: %w", err)
		}
		current = nil
	}
	s.current = current
	return nil
}

func (s *Store) seedAdmin() error {
	password, err := s.hasher.Hash("admin")
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	next := *s.snap
	next.Drivers = []model.Driver{{
		ID:              AdminID,
		Name:            "Gestor Master",
		License:         "000",
		Username:        "admin",
		Password:        password,
		PasswordChanged: true,
	}}
	if err := s.commit(&next); err != nil {
		return fmt.Errorf("seeding admin driver: %w", err)
	}
	s.logger.Info("admin driver seeded")
	return nil
}

// commit persists next and makes it the current snapshot.
func (s *Store) commit(next *Snapshot) error {
	records, err := next.Records()
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := s.database.SaveCollections(records); err != nil {
		return fmt.Errorf("persisting snapshot: %w", err)
	}
	s.snap = next
	return nil
}

// Reset wipes every durable collection and the session, then reseeds the admin driver.
func (s *Store) Reset() error {
	if err := s.database.ClearCollections(); err != nil {
		return fmt.Errorf("clearing collections: %w", err)
	}
	if err := s.sessions.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	s.current = nil
	s.snap = &Snapshot{}
	if err := s.seedAdmin(); err != nil {
		return err
	}
	s.logger.Warn("store reset")
	return nil
}

// Replace swaps every collection for those in snap, as when restoring a backup.
// The session is dropped if its driver is not in the new roster.
func (s *Store) Replace(snap *Snapshot) error {
	if err := s.commit(snap.Clone()); err != nil {
		return err
	}
	if len(s.snap.Drivers) == 0 {
		if err := s.seedAdmin(); err != nil {
			return err
		}
	}
	if s.current != nil && slices.IndexFunc(s.snap.Drivers, byDriverID(s.current.ID)) < 0 {
		if err := s.clearSession(); err != nil {
			return err
		}
	}
	s.logger.Info("store replaced")
	return nil
}

// History returns the most recent console operations, newest first.
func (s *Store) History(limit int) ([]*model.Operation, error) {
	ops, err := s.database.ListOperations(limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

// Read-only projections. Every projection is a deep copy.

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() *Snapshot { return s.snap.Clone() }

func (s *Store) Vehicles() []model.Vehicle { return cloneList(s.snap.Vehicles, cloneVehicle) }

func (s *Store) Drivers() []model.Driver { return cloneList(s.snap.Drivers, nil) }

func (s *Store) ActiveTrips() []model.Trip { return cloneList(s.snap.ActiveTrips, cloneTrip) }

func (s *Store) CompletedTrips() []model.Trip { return cloneList(s.snap.CompletedTrips, cloneTrip) }

func (s *Store) ScheduledTrips() []model.ScheduledTrip {
	return cloneList(s.snap.ScheduledTrips, cloneScheduledTrip)
}

func (s *Store) MaintenanceRecords() []model.MaintenanceRecord {
	return cloneList(s.snap.Maintenance, cloneMaintenance)
}

func (s *Store) Fines() []model.Fine { return cloneList(s.snap.Fines, nil) }

func (s *Store) Occurrences() []model.Occurrence { return cloneList(s.snap.Occurrences, nil) }

func (s *Store) Checklists() []model.Checklist { return cloneList(s.snap.Checklists, nil) }

func (s *Store) Notifications() []model.Notification { return cloneList(s.snap.Notifications, nil) }

// Vehicle returns the vehicle with the given id.
func (s *Store) Vehicle(id string) (model.Vehicle, bool) {
	i := slices.IndexFunc(s.snap.Vehicles, byVehicleID(id))
	if i < 0 {
		return model.Vehicle{}, false
	}
	return cloneVehicle(s.snap.Vehicles[i]), true
}

// Driver returns the driver with the given id.
func (s *Store) Driver(id string) (model.Driver, bool) {
	i := slices.IndexFunc(s.snap.Drivers, byDriverID(id))
	if i < 0 {
		return model.Driver{}, false
	}
	return s.snap.Drivers[i], true
}

// ActiveTrip returns the active trip with the given id.
func (s *Store) ActiveTrip(id string) (model.Trip, bool) {
	i := slices.IndexFunc(s.snap.ActiveTrips, byTripID(id))
	if i < 0 {
		return model.Trip{}, false
	}
	return cloneTrip(s.snap.ActiveTrips[i]), true
}

// ScheduledTrip returns the scheduled trip with the given id.
func (s *Store) ScheduledTrip(id string) (model.ScheduledTrip, bool) {
	i := slices.IndexFunc(s.snap.ScheduledTrips, func(t model.ScheduledTrip) bool { return t.ID == id })
	if i < 0 {
		return model.ScheduledTrip{}, false
	}
	return cloneScheduledTrip(s.snap.ScheduledTrips[i]), true
}

// UnreadNotifications counts notifications not yet marked as read.
func (s *Store) UnreadNotifications() int {
	n := 0
	for _, note := range s.snap.Notifications {
		if !note.IsRead {
			n++
		}
	}
	return n
}

// newID returns id unchanged, or a fresh id if it is empty.
func (s *Store) newID(id string) string {
	if id != "" {
		return id
	}
	return s.idgen.New()
}

// withVehicle returns vehicles with the vehicle id replaced by update(v).
// The list is returned unchanged if the id is unknown.
func withVehicle(vehicles []model.Vehicle, id string, update func(*model.Vehicle)) []model.Vehicle {
	i := slices.IndexFunc(vehicles, byVehicleID(id))
	if i < 0 {
		return vehicles
	}
	out := slices.Clone(vehicles)
	update(&out[i])
	return out
}

func without[T any](list []T, match func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if !match(v) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func prepend[T any](list []T, v T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, v)
	return append(out, list...)
}

func appendTo[T any](list []T, v T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, v)
}

func byVehicleID(id string) func(model.Vehicle) bool {
	return func(v model.Vehicle) bool { return v.ID == id }
}

func byDriverID(id string) func(model.Driver) bool {
	return func(d model.Driver) bool { return d.ID == id }
}

func byTripID(id string) func(model.Trip) bool {
	return func(t model.Trip) bool { return t.ID == id }
}
