package fleet

import (
	"fmt"
	"slices"
	"time"

	"fleet-go/internal/model"
)

// TripUpdate carries the route fields to change on an active trip. Nil fields are left as they are.
type TripUpdate struct {
	Origin         *string
	Destination    *string
	Waypoints      *[]string
	City           *string
	State          *string
	PlannedArrival *time.Time
}

// StartTrip records an active trip and its checklist and puts the vehicle in use
// at the checklist km. The trip's start km is always the checklist km, and the
// checklist takes the trip id. The trip must name both a vehicle and a driver,
// otherwise ErrInvalid is returned and nothing changes.
func (s *Store) StartTrip(trip model.Trip, checklist model.Checklist) (model.Trip, error) {
	if trip.VehicleID == "" || trip.DriverID == "" {
		return model.Trip{}, fmt.Errorf("starting trip: vehicle and driver are required: %w", ErrInvalid)
	}

	trip.ID = s.newID(trip.ID)
	if trip.StartTime.IsZero() {
		trip.StartTime = s.clock.Now()
	}
	trip.StartKm = checklist.Km
	trip.EndTime = nil
	trip = cloneTrip(trip)

	checklist.ID = trip.ID
	checklist.VehicleID = trip.VehicleID
	checklist.DriverID = trip.DriverID
	if checklist.Timestamp.IsZero() {
		checklist.Timestamp = trip.StartTime
	}

	next := *s.snap
	next.ActiveTrips = appendTo(s.snap.ActiveTrips, trip)
	next.Checklists = prepend(s.snap.Checklists, checklist)
	next.Vehicles = withVehicle(s.snap.Vehicles, trip.VehicleID, func(v *model.Vehicle) {
		last := checklist
		v.Status = model.VehicleInUse
		v.CurrentKm = checklist.Km
		v.LastChecklist = &last
	})
	if err := s.commit(&next); err != nil {
		return model.Trip{}, fmt.Errorf("starting trip: %w", err)
	}

	s.logger.Info("trip started", "trip", trip.ID, "vehicle", trip.VehicleID, "driver", trip.DriverID, "km", checklist.Km)
	return cloneTrip(trip), nil
}

// EndTrip moves an active trip to the head of the completed trips with its
// distance computed from km, and frees the vehicle at km. An unknown trip id
// returns ErrNotFound and changes nothing.
func (s *Store) EndTrip(id string, km int, end time.Time, exp *model.Expenses) (model.Trip, error) {
	i := slices.IndexFunc(s.snap.ActiveTrips, byTripID(id))
	if i < 0 {
		s.logger.Debug("end of unknown trip", "trip", id)
		return model.Trip{}, fmt.Errorf("ending trip %s: %w", id, ErrNotFound)
	}

	trip := cloneTrip(s.snap.ActiveTrips[i])
	trip.EndTime = &end
	trip.Distance = km - trip.StartKm
	if exp != nil {
		trip.FuelExpense = exp.FuelExpense
		trip.OtherExpense = exp.OtherExpense
		trip.ExpenseNotes = exp.Notes
	}

	next := *s.snap
	next.ActiveTrips = without(s.snap.ActiveTrips, byTripID(id))
	next.CompletedTrips = prepend(s.snap.CompletedTrips, trip)
	next.Vehicles = withVehicle(s.snap.Vehicles, trip.VehicleID, func(v *model.Vehicle) {
		v.Status = model.VehicleAvailable
		v.CurrentKm = km
	})
	if err := s.commit(&next); err != nil {
		return model.Trip{}, fmt.Errorf("ending trip %s: %w", id, err)
	}

	s.logger.Info("trip ended", "trip", id, "vehicle", trip.VehicleID, "distance", trip.Distance)
	return cloneTrip(trip), nil
}

// CancelTrip drops an active trip without completing it and frees its vehicle.
func (s *Store) CancelTrip(id string) error {
	i := slices.IndexFunc(s.snap.ActiveTrips, byTripID(id))
	if i < 0 {
		s.logger.Debug("cancel of unknown trip", "trip", id)
		return fmt.Errorf("cancelling trip %s: %w", id, ErrNotFound)
	}
	vehicleID := s.snap.ActiveTrips[i].VehicleID

	next := *s.snap
	next.ActiveTrips = without(s.snap.ActiveTrips, byTripID(id))
	if vehicleID != "" {
		next.Vehicles = withVehicle(s.snap.Vehicles, vehicleID, func(v *model.Vehicle) {
			v.Status = model.VehicleAvailable
		})
	}
	if err := s.commit(&next); err != nil {
		return fmt.Errorf("cancelling trip %s: %w", id, err)
	}

	s.logger.Info("trip cancelled", "trip", id, "vehicle", vehicleID)
	return nil
}

// UpdateTrip edits the route of an active trip. Completed trips cannot be edited.
func (s *Store) UpdateTrip(id string, up TripUpdate) error {
	i := slices.IndexFunc(s.snap.ActiveTrips, byTripID(id))
	if i < 0 {
		s.logger.Debug("update of unknown trip", "trip", id)
		return fmt.Errorf("updating trip %s: %w", id, ErrNotFound)
	}

	trip := cloneTrip(s.snap.ActiveTrips[i])
	if up.Origin != nil {
		trip.Origin = *up.Origin
	}
	if up.Destination != nil {
		trip.Destination = *up.Destination
	}
	if up.Waypoints != nil {
		trip.Waypoints = cloneStrings(*up.Waypoints)
	}
	if up.City != nil {
		trip.City = *up.City
	}
	if up.State != nil {
		trip.State = *up.State
	}
	if up.PlannedArrival != nil {
		trip.PlannedArrival = cloneTime(up.PlannedArrival)
	}

	next := *s.snap
	next.ActiveTrips = slices.Clone(s.snap.ActiveTrips)
	next.ActiveTrips[i] = trip
	if err := s.commit(&next); err != nil {
		return fmt.Errorf("updating trip %s: %w", id, err)
	}

	s.logger.Info("trip updated", "trip", id)
	return nil
}
