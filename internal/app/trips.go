package app

import (
	"fmt"
	"slices"

	"fleet-go/internal/fleet"
	"fleet-go/internal/model"
	"fleet-go/internal/rodizio"
)

// TripStart is what a driver fills in to begin a trip.
type TripStart struct {
	VehicleID       string
	ScheduledTripID string // pre-fills the route and vehicle when set
	Origin          string
	Destination     string
	Waypoints       []string
	City            string
	State           string

	// Checklist
	Km           *int // defaults to the vehicle's current km
	FuelLevel    int
	OilChecked   bool
	WaterChecked bool
	TiresChecked bool
	Comments     string
}

// StartTrip begins a trip for the logged-in driver. The vehicle must be
// available. The returned verdict reports the rodízio check for today.
func (a *FleetApp) StartTrip(req TripStart) (model.Trip, rodizio.Verdict, error) {
	driver, err := a.Current()
	if err != nil {
		return model.Trip{}, rodizio.Verdict{}, err
	}

	if req.ScheduledTripID != "" {
		st, ok := a.store.ScheduledTrip(req.ScheduledTripID)
		if !ok {
			return model.Trip{}, rodizio.Verdict{}, fmt.Errorf("scheduled trip %s: %w", req.ScheduledTripID, fleet.ErrNotFound)
		}
		req = prefill(req, st)
	}

	if req.VehicleID == "" {
		return model.Trip{}, rodizio.Verdict{}, fmt.Errorf("vehicle is required: %w", fleet.ErrInvalid)
	}
	vehicle, err := a.Vehicle(req.VehicleID)
	if err != nil {
		return model.Trip{}, rodizio.Verdict{}, err
	}
	if vehicle.Status != model.VehicleAvailable {
		return model.Trip{}, rodizio.Verdict{}, fmt.Errorf("vehicle %s is %s: %w", vehicle.Plate, vehicle.Status, fleet.ErrInvalid)
	}

	now := a.now()
	verdict, err := a.applyRestriction(vehicle.Plate, req.City, req.Destination, now, a.cfg.Rules.Enforce)
	if err != nil {
		return model.Trip{}, verdict, err
	}

	km := vehicle.CurrentKm
	if req.Km != nil {
		km = *req.Km
	}
	trip := model.Trip{
		DriverID:    driver.ID,
		VehicleID:   vehicle.ID,
		Origin:      req.Origin,
		Destination: req.Destination,
		Waypoints:   slices.Clone(req.Waypoints),
		City:        req.City,
		State:       req.State,
		StartTime:   now,
		StartKm:     km,
	}
	checklist := model.Checklist{
		Timestamp:    now,
		Km:           km,
		FuelLevel:    req.FuelLevel,
		OilChecked:   req.OilChecked,
		WaterChecked: req.WaterChecked,
		TiresChecked: req.TiresChecked,
		Comments:     req.Comments,
	}

	var started model.Trip
	err = a.mutate(vehicle.ID, func() error {
		var err error
		started, err = a.store.StartTrip(trip, checklist)
		return err
	})
	return started, verdict, err
}

// prefill copies the route of a scheduled trip into the fields req leaves empty.
func prefill(req TripStart, st model.ScheduledTrip) TripStart {
	if req.VehicleID == "" {
		req.VehicleID = st.VehicleID
	}
	if req.Origin == "" {
		req.Origin = st.Origin
	}
	if req.Destination == "" {
		req.Destination = st.Destination
	}
	if req.Waypoints == nil {
		req.Waypoints = st.Waypoints
	}
	if req.City == "" {
		req.City = st.City
	}
	if req.State == "" {
		req.State = st.State
	}
	return req
}

// EndTrip completes an active trip at km. km may not be below the start km.
func (a *FleetApp) EndTrip(id string, km int, exp *model.Expenses) (model.Trip, error) {
	trip, ok := a.store.ActiveTrip(id)
	if !ok {
		return model.Trip{}, fmt.Errorf("active trip %s: %w", id, fleet.ErrNotFound)
	}
	if km < trip.StartKm {
		return model.Trip{}, fmt.Errorf("km %d is below start km %d: %w", km, trip.StartKm, fleet.ErrInvalid)
	}

	var done model.Trip
	err := a.mutate(id, func() error {
		var err error
		done, err = a.store.EndTrip(id, km, a.now(), exp)
		return err
	})
	return done, err
}

// CancelTrip drops an active trip and frees its vehicle.
func (a *FleetApp) CancelTrip(id string) error {
	return a.mutate(id, func() error {
		return a.store.CancelTrip(id)
	})
}

// UpdateTrip edits the route of an active trip.
func (a *FleetApp) UpdateTrip(id string, up fleet.TripUpdate) error {
	return a.mutate(id, func() error {
		return a.store.UpdateTrip(id, up)
	})
}

// ActiveTrips returns the trips in progress.
func (a *FleetApp) ActiveTrips() []model.Trip {
	return a.store.ActiveTrips()
}

// CompletedTrips returns finished trips, most recent first.
func (a *FleetApp) CompletedTrips() []model.Trip {
	return a.store.CompletedTrips()
}

// Checklists returns the recorded pre-trip checklists, most recent first.
func (a *FleetApp) Checklists() []model.Checklist {
	return a.store.Checklists()
}
