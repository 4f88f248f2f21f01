package fleet

import (
	"encoding/json"
	"fmt"
	"time"

	"fleet-go/internal/model"
)

// Collection record names. These are the stable keys under which each
// collection is persisted and must not change between releases.
const (
	CollectionVehicles       = "vehicles"
	CollectionDrivers        = "drivers"
	CollectionActiveTrips    = "active_trips"
	CollectionCompletedTrips = "completed_trips"
	CollectionScheduledTrips = "scheduled_trips"
	CollectionMaintenance    = "maintenance_records"
	CollectionFines          = "fines"
	CollectionOccurrences    = "occurrences"
	CollectionChecklists     = "checklists"
	CollectionNotifications  = "notifications"
)

// Collections lists every collection name.
var Collections = []string{
	CollectionVehicles,
	CollectionDrivers,
	CollectionActiveTrips,
	CollectionCompletedTrips,
	CollectionScheduledTrips,
	CollectionMaintenance,
	CollectionFines,
	CollectionOccurrences,
	CollectionChecklists,
	CollectionNotifications,
}

// Snapshot is the full state of the store at one point in time.
// A snapshot held by the store is never modified; mutations build a new one.
type Snapshot struct {
	Vehicles       []model.Vehicle
	Drivers        []model.Driver
	ActiveTrips    []model.Trip
	CompletedTrips []model.Trip // most recent first
	ScheduledTrips []model.ScheduledTrip
	Maintenance    []model.MaintenanceRecord
	Fines          []model.Fine
	Occurrences    []model.Occurrence
	Checklists     []model.Checklist
	Notifications  []model.Notification
}

// Records encodes every collection as a JSON array keyed by collection name.
func (s *Snapshot) Records() (map[string][]byte, error) {
	lists := map[string]any{
		CollectionVehicles:       orEmpty(s.Vehicles),
		CollectionDrivers:        orEmpty(s.Drivers),
		CollectionActiveTrips:    orEmpty(s.ActiveTrips),
		CollectionCompletedTrips: orEmpty(s.CompletedTrips),
		CollectionScheduledTrips: orEmpty(s.ScheduledTrips),
		CollectionMaintenance:    orEmpty(s.Maintenance),
		CollectionFines:          orEmpty(s.Fines),
		CollectionOccurrences:    orEmpty(s.Occurrences),
		CollectionChecklists:     orEmpty(s.Checklists),
		CollectionNotifications:  orEmpty(s.Notifications),
	}

	records := make(map[string][]byte, len(lists))
	for name, list := range lists {
		data, err := json.Marshal(list)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", name, err)
		}
		records[name] = data
	}
	return records, nil
}

// SnapshotFromRecords decodes collection records. Missing records decode as
// empty collections; unknown names are ignored.
func SnapshotFromRecords(records map[string][]byte) (*Snapshot, error) {
	s := &Snapshot{}
	var err error
	if s.Vehicles, err = decodeList[model.Vehicle](records, CollectionVehicles); err != nil {
		return nil, err
	}
	if s.Drivers, err = decodeList[model.Driver](records, CollectionDrivers); err != nil {
		return nil, err
	}
	if s.ActiveTrips, err = decodeList[model.Trip](records, CollectionActiveTrips); err != nil {
		return nil, err
	}
	if s.CompletedTrips, err = decodeList[model.Trip](records, CollectionCompletedTrips); err != nil {
		return nil, err
	}
	if s.ScheduledTrips, err = decodeList[model.ScheduledTrip](records, CollectionScheduledTrips); err != nil {
		return nil, err
	}
	if s.Maintenance, err = decodeList[model.MaintenanceRecord](records, CollectionMaintenance); err != nil {
		return nil, err
	}
	if s.Fines, err = decodeList[model.Fine](records, CollectionFines); err != nil {
		return nil, err
	}
	if s.Occurrences, err = decodeList[model.Occurrence](records, CollectionOccurrences); err != nil {
		return nil, err
	}
	if s.Checklists, err = decodeList[model.Checklist](records, CollectionChecklists); err != nil {
		return nil, err
	}
	if s.Notifications, err = decodeList[model.Notification](records, CollectionNotifications); err != nil {
		return nil, err
	}
	return s, nil
}

// MarshalJSON encodes the snapshot as a single document of collection records.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	doc := make(map[string]json.RawMessage, len(records))
	for name, data := range records {
		doc[name] = data
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes a document produced by MarshalJSON.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding snapshot document: %w", err)
	}
	records := make(map[string][]byte, len(doc))
	for name, raw := range doc {
		records[name] = raw
	}
	decoded, err := SnapshotFromRecords(records)
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}

// Clone returns a deep copy that shares no memory with s.
func (s *Snapshot) Clone() *Snapshot {
	return &Snapshot{
		Vehicles:       cloneList(s.Vehicles, cloneVehicle),
		Drivers:        cloneList(s.Drivers, nil),
		ActiveTrips:    cloneList(s.ActiveTrips, cloneTrip),
		CompletedTrips: cloneList(s.CompletedTrips, cloneTrip),
		ScheduledTrips: cloneList(s.ScheduledTrips, cloneScheduledTrip),
		Maintenance:    cloneList(s.Maintenance, cloneMaintenance),
		Fines:          cloneList(s.Fines, nil),
		Occurrences:    cloneList(s.Occurrences, nil),
		Checklists:     cloneList(s.Checklists, nil),
		Notifications:  cloneList(s.Notifications, nil),
	}
}

func decodeList[T any](records map[string][]byte, name string) ([]T, error) {
	data, ok := records[name]
	if !ok || len(data) == 0 {
		return nil, nil
	}
	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list, nil
}

func orEmpty[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

func cloneList[T any](list []T, deep func(T) T) []T {
	if len(list) == 0 {
		return nil
	}
	out := make([]T, len(list))
	for i, v := range list {
		if deep != nil {
			v = deep(v)
		}
		out[i] = v
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneStrings(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	return append([]string(nil), list...)
}

func cloneVehicle(v model.Vehicle) model.Vehicle {
	if v.LastChecklist != nil {
		c := *v.LastChecklist
		v.LastChecklist = &c
	}
	return v
}

func cloneTrip(t model.Trip) model.Trip {
	t.Waypoints = cloneStrings(t.Waypoints)
	t.EndTime = cloneTime(t.EndTime)
	t.PlannedArrival = cloneTime(t.PlannedArrival)
	return t
}

func cloneScheduledTrip(t model.ScheduledTrip) model.ScheduledTrip {
	t.Waypoints = cloneStrings(t.Waypoints)
	t.PlannedArrival = cloneTime(t.PlannedArrival)
	return t
}

func cloneMaintenance(m model.MaintenanceRecord) model.MaintenanceRecord {
	m.ReturnDate = cloneTime(m.ReturnDate)
	return m
}
