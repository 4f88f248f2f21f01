package fleet

import (
	"fmt"
	"slices"
	"time"

	"fleet-go/internal/model"
)

// AddFine records a traffic fine.
func (s *Store) AddFine(f model.Fine) (model.Fine, error) {
	f.ID = s.newID(f.ID)

	next := *s.snap
	next.Fines = prepend(s.snap.Fines, f)
	if err := s.commit(&next); err != nil {
		return model.Fine{}, fmt.Errorf("adding fine: %w", err)
	}

	s.logger.Info("fine added", "fine", f.ID, "driver", f.DriverID, "vehicle", f.VehicleID)
	return f, nil
}

// DeleteFine removes a fine.
func (s *Store) DeleteFine(id string) error {
	match := func(f model.Fine) bool { return f.ID == id }
	if slices.IndexFunc(s.snap.Fines, match) < 0 {
		s.logger.Debug("delete of unknown fine", "fine", id)
		return fmt.Errorf("deleting fine %s: %w", id, ErrNotFound)
	}

	next := *s.snap
	next.Fines = without(s.snap.Fines, match)
	if err := s.commit(&next); err != nil {
		return fmt.Errorf("deleting fine %s: %w", id, err)
	}

	s.logger.Info("fine deleted", "fine", id)
	return nil
}

// AddOccurrence records an incident and raises an unread notification for it.
func (s *Store) AddOccurrence(o model.Occurrence) (model.Occurrence, error) {
	o.ID = s.newID(o.ID)
	if o.Timestamp.IsZero() {
		o.Timestamp = s.clock.Now()
	}
	note := model.Notification{
		ID:        s.idgen.New(),
		Title:     "Nova Ocorrência",
		Message:   fmt.Sprintf("%s: %s", o.Type, o.Description),
		Type:      model.NotificationOccurrence,
		Timestamp: s.clock.Now(),
	}

	next := *s.snap
	next.Occurrences = prepend(s.snap.Occurrences, o)
	next.Notifications = prepend(s.snap.Notifications, note)
	if err := s.commit(&next); err != nil {
		return model.Occurrence{}, fmt.Errorf("adding occurrence: %w", err)
	}

	s.logger.Info("occurrence added", "occurrence", o.ID, "trip", o.TripID, "severity", string(o.Severity), "notification", note.ID)
	return o, nil
}

// ResolveOccurrence marks an occurrence as resolved.
func (s *Store) ResolveOccurrence(id string) error {
	i := slices.IndexFunc(s.snap.Occurrences, func(o model.Occurrence) bool { return o.ID == id })
	if i < 0 {
		s.logger.Debug("resolve of unknown occurrence", "occurrence", id)
		return fmt.Errorf("resolving occurrence %s: %w", id, ErrNotFound)
	}
	if s.snap.Occurrences[i].Resolved {
		return nil
	}

	next := *s.snap
	next.Occurrences = slices.Clone(s.snap.Occurrences)
	next.Occurrences[i].Resolved = true
	if err := s.commit(&next); err != nil {
		return fmt.Errorf("resolving occurrence %s: %w", id, err)
	}

	s.logger.Info("occurrence resolved", "occurrence", id)
	return nil
}

// ScheduledTripUpdate carries the fields to change on a scheduled trip. Nil fields are left as they are.
type ScheduledTripUpdate struct {
	DriverID       *string
	VehicleID      *string
	Origin         *string
	Destination    *string
	Waypoints      *[]string
	City           *string
	State          *string
	ZipCode        *string
	ScheduledDate  *time.Time
	Notes          *string
	PlannedArrival *time.Time
}

// AddScheduledTrip records a future trip. The vehicle is not reserved.
func (s *Store) AddScheduledTrip(t model.ScheduledTrip) (model.ScheduledTrip, error) {
	t.ID = s.newID(t.ID)
	t = cloneScheduledTrip(t)

	next := *s.snap
	next.ScheduledTrips = prepend(s.snap.ScheduledTrips, t)
	if err := s.commit(&next); err != nil {
		return model.ScheduledTrip{}, fmt.Errorf("adding scheduled trip: %w", err)
	}

	s.logger.Info("trip scheduled", "schedule", t.ID, "vehicle", t.VehicleID, "date", t.ScheduledDate.Format(time.DateOnly))
	return cloneScheduledTrip(t), nil
}

// UpdateScheduledTrip merges the non-nil fields of up into the scheduled trip.
func (s *Store) UpdateScheduledTrip(id string, up ScheduledTripUpdate) error {
	i := slices.IndexFunc(s.snap.ScheduledTrips, func(t model.ScheduledTrip) bool { return t.ID == id })
	if i < 0 {
		s.logger.Debug("update of unknown scheduled trip", "schedule", id)
		return fmt.Errorf("updating scheduled trip %s: %w", id, ErrNotFound)
	}

	t := cloneScheduledTrip(s.snap.ScheduledTrips[i])
	if up.DriverID != nil {
		t.DriverID = *up.DriverID
	}
	if up.VehicleID != nil {
		t.VehicleID = *up.VehicleID
	}
	if up.Origin != nil {
		t.Origin = *up.Origin
	}
	if up.Destination != nil {
		t.Destination = *up.Destination
	}
	if up.Waypoints != nil {
		t.Waypoints = cloneStrings(*up.Waypoints)
	}
	if up.City != nil {
		t.City = *up.City
	}
	if up.State != nil {
		t.State = *up.State
	}
	if up.ZipCode != nil {
		t.ZipCode = *up.ZipCode
	}
	if up.ScheduledDate != nil {
		t.ScheduledDate = *up.ScheduledDate
	}
	if up.Notes != nil {
		t.Notes = *up.Notes
	}
	if up.PlannedArrival != nil {
		t.PlannedArrival = cloneTime(up.PlannedArrival)
	}

	next := *s.snap
	next.ScheduledTrips = slices.Clone(s.snap.ScheduledTrips)
	next.ScheduledTrips[i] = t
	if err := s.commit(&next); err != nil {
		return fmt.Errorf("updating scheduled trip %s: %w", id, err)
	}

	s.logger.Info("scheduled trip updated", "schedule", id)
	return nil
}

// DeleteScheduledTrip removes a scheduled trip.
func (s *Store) DeleteScheduledTrip(id string) error {
	match := func(t model.ScheduledTrip) bool { return t.ID == id }
	if slices.IndexFunc(s.snap.ScheduledTrips, match) < 0 {
		s.logger.Debug("delete of unknown scheduled trip", "schedule", id)
		return fmt.Errorf("deleting scheduled trip %s: %w", id, ErrNotFound)
	}

	next := *s.snap
	next.ScheduledTrips = without(s.snap.ScheduledTrips, match)
	if err := s.commit(&next); err != nil {
		return fmt.Errorf("deleting scheduled trip %s: %w", id, err)
	}

	s.logger.Info("scheduled trip deleted", "schedule", id)
	return nil
}

// MarkNotificationAsRead flips a notification to read. Marking a read
// notification again changes nothing.
func (s *Store) MarkNotificationAsRead(id string) error {
	i := slices.IndexFunc(s.snap.Notifications, func(n model.Notification) bool { return n.ID == id })
	if i < 0 {
		s.logger.Debug("mark of unknown notification", "notification", id)
		return fmt.Errorf("marking notification %s: %w", id, ErrNotFound)
	}
	if s.snap.Notifications[i].IsRead {
		return nil
	}

	next := *s.snap
	next.Notifications = slices.Clone(s.snap.Notifications)
	next.Notifications[i].IsRead = true
	if err := s.commit(&next); err != nil {
		return fmt.Errorf("marking notification %s: %w", id, err)
	}

	s.logger.Info("notification read", "notification", id)
	return nil
}
