package app

import (
	"fmt"
	"strings"

	"fleet-go/internal/fleet"
	"fleet-go/internal/model"
	"fleet-go/internal/rodizio"
)

// ScheduledTrips returns planned trips, most recently scheduled first.
func (a *FleetApp) ScheduledTrips() []model.ScheduledTrip {
	return a.store.ScheduledTrips()
}

// ScheduleTrip plans a future trip. Only the admin may schedule. Vehicle,
// driver, destination and date are required, and a trip the rodízio rule
// blocks on the scheduled date is refused with ErrRestricted.
func (a *FleetApp) ScheduleTrip(st model.ScheduledTrip) (model.ScheduledTrip, rodizio.Verdict, error) {
	if err := a.requireAdmin("scheduling trips"); err != nil {
		return model.ScheduledTrip{}, rodizio.Verdict{}, err
	}
	if st.VehicleID == "" || st.DriverID == "" || strings.TrimSpace(st.Destination) == "" || st.ScheduledDate.IsZero() {
		return model.ScheduledTrip{}, rodizio.Verdict{}, fmt.Errorf("vehicle, driver, destination and date are required: %w", fleet.ErrInvalid)
	}
	verdict, err := a.checkSchedule(st)
	if err != nil {
		return model.ScheduledTrip{}, verdict, err
	}

	var added model.ScheduledTrip
	err = a.mutate(st.VehicleID, func() error {
		var err error
		added, err = a.store.AddScheduledTrip(st)
		return err
	})
	return added, verdict, err
}

// UpdateScheduledTrip edits a planned trip and checks the result again. Admin only.
func (a *FleetApp) UpdateScheduledTrip(id string, up fleet.ScheduledTripUpdate) (rodizio.Verdict, error) {
	if err := a.requireAdmin("scheduling trips"); err != nil {
		return rodizio.Verdict{}, err
	}
	st, ok := a.store.ScheduledTrip(id)
	if !ok {
		return rodizio.Verdict{}, fmt.Errorf("scheduled trip %s: %w", id, fleet.ErrNotFound)
	}
	if up.VehicleID != nil {
		st.VehicleID = *up.VehicleID
	}
	if up.DriverID != nil {
		st.DriverID = *up.DriverID
	}
	if up.Destination != nil {
		st.Destination = *up.Destination
	}
	if up.City != nil {
		st.City = *up.City
	}
	if up.ScheduledDate != nil {
		st.ScheduledDate = *up.ScheduledDate
	}
	verdict, err := a.checkSchedule(st)
	if err != nil {
		return verdict, err
	}
	return verdict, a.mutate(id, func() error {
		return a.store.UpdateScheduledTrip(id, up)
	})
}

// DeleteScheduledTrip cancels a planned trip. Admin only.
func (a *FleetApp) DeleteScheduledTrip(id string) error {
	if err := a.requireAdmin("scheduling trips"); err != nil {
		return err
	}
	return a.mutate(id, func() error {
		return a.store.DeleteScheduledTrip(id)
	})
}

func (a *FleetApp) checkSchedule(st model.ScheduledTrip) (rodizio.Verdict, error) {
	vehicle, err := a.Vehicle(st.VehicleID)
	if err != nil {
		return rodizio.Verdict{}, err
	}
	if _, err := a.Driver(st.DriverID); err != nil {
		return rodizio.Verdict{}, err
	}
	return a.applyRestriction(vehicle.Plate, st.City, st.Destination, st.ScheduledDate, true)
}
