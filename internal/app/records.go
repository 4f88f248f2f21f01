package app

import (
	"fmt"
	"strings"

	"fleet-go/internal/fleet"
	"fleet-go/internal/model"
)

// MaintenanceRecords returns every maintenance record, most recent first.
func (a *FleetApp) MaintenanceRecords() []model.MaintenanceRecord {
	return a.store.MaintenanceRecords()
}

// SendToMaintenance opens a maintenance record and takes the vehicle out of
// service. tireChange selects the tire change preset as the service type.
// Km defaults to the vehicle's current km and the date to today.
func (a *FleetApp) SendToMaintenance(m model.MaintenanceRecord, tireChange bool) (model.MaintenanceRecord, error) {
	vehicle, err := a.Vehicle(m.VehicleID)
	if err != nil {
		return model.MaintenanceRecord{}, err
	}
	if tireChange {
		m.ServiceType = model.TireChangeService
	}
	if strings.TrimSpace(m.ServiceType) == "" {
		return model.MaintenanceRecord{}, fmt.Errorf("service type is required: %w", fleet.ErrInvalid)
	}
	if m.Km == 0 {
		m.Km = vehicle.CurrentKm
	}
	if m.Date.IsZero() {
		m.Date = a.now()
	}

	var added model.MaintenanceRecord
	err = a.mutate(vehicle.ID, func() error {
		var err error
		added, err = a.store.AddMaintenanceRecord(m)
		return err
	})
	return added, err
}

// ResolveMaintenance returns a vehicle to service. km defaults to the vehicle's
// current km; a nil cost keeps the cost recorded when the vehicle went in.
func (a *FleetApp) ResolveMaintenance(vehicleID string, km *int, cost *float64) error {
	vehicle, err := a.Vehicle(vehicleID)
	if err != nil {
		return err
	}
	returnKm := vehicle.CurrentKm
	if km != nil {
		returnKm = *km
	}

	var recordID string
	for _, m := range a.store.MaintenanceRecords() {
		if m.VehicleID == vehicleID && m.Open() {
			recordID = m.ID
			break
		}
	}
	return a.mutate(vehicleID, func() error {
		return a.store.ResolveMaintenance(vehicleID, recordID, returnKm, a.now(), cost)
	})
}

// Fines returns every fine, most recent first.
func (a *FleetApp) Fines() []model.Fine {
	return a.store.Fines()
}

// AddFine records a fine. Driver, vehicle and a positive value are required.
func (a *FleetApp) AddFine(f model.Fine) (model.Fine, error) {
	if f.DriverID == "" || f.VehicleID == "" || f.Value <= 0 {
		return model.Fine{}, fmt.Errorf("driver, vehicle and value are required: %w", fleet.ErrInvalid)
	}
	if f.Date.IsZero() {
		f.Date = a.now()
	}

	var added model.Fine
	err := a.mutate(f.DriverID, func() error {
		var err error
		added, err = a.store.AddFine(f)
		return err
	})
	return added, err
}

// DeleteFine removes a fine.
func (a *FleetApp) DeleteFine(id string) error {
	return a.mutate(id, func() error {
		return a.store.DeleteFine(id)
	})
}

// Occurrences returns every reported incident, most recent first.
func (a *FleetApp) Occurrences() []model.Occurrence {
	return a.store.Occurrences()
}

// ReportOccurrence records an incident on an active trip. Vehicle and driver
// are taken from the trip. Severity defaults to medium.
func (a *FleetApp) ReportOccurrence(tripID, kind, description string, severity model.Severity) (model.Occurrence, error) {
	trip, ok := a.store.ActiveTrip(tripID)
	if !ok {
		return model.Occurrence{}, fmt.Errorf("active trip %s: %w", tripID, fleet.ErrNotFound)
	}
	if strings.TrimSpace(kind) == "" || strings.TrimSpace(description) == "" {
		return model.Occurrence{}, fmt.Errorf("type and description are required: %w", fleet.ErrInvalid)
	}
	if severity == "" {
		severity = model.SeverityMedium
	}
	o := model.Occurrence{
		TripID:      trip.ID,
		VehicleID:   trip.VehicleID,
		DriverID:    trip.DriverID,
		Type:        kind,
		Description: description,
		Severity:    severity,
		Timestamp:   a.now(),
	}

	var added model.Occurrence
	err := a.mutate(tripID, func() error {
		var err error
		added, err = a.store.AddOccurrence(o)
		return err
	})
	return added, err
}

// ResolveOccurrence marks an incident as dealt with.
func (a *FleetApp) ResolveOccurrence(id string) error {
	return a.mutate(id, func() error {
		return a.store.ResolveOccurrence(id)
	})
}

// Notifications returns every notification, most recent first, and the unread count.
func (a *FleetApp) Notifications() ([]model.Notification, int) {
	return a.store.Notifications(), a.store.UnreadNotifications()
}

// MarkNotificationAsRead flags a notification as read.
func (a *FleetApp) MarkNotificationAsRead(id string) error {
	return a.mutate(id, func() error {
		return a.store.MarkNotificationAsRead(id)
	})
}
