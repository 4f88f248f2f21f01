package fleet

import (
	"fmt"
	"slices"
	"time"

	"fleet-go/internal/model"
)

// AddMaintenanceRecord records a vehicle entering maintenance. The vehicle is
// put in MAINTENANCE whatever its current status.
func (s *Store) AddMaintenanceRecord(m model.MaintenanceRecord) (model.MaintenanceRecord, error) {
	m.ID = s.newID(m.ID)
	m.ReturnDate = nil

	next := *s.snap
	next.Maintenance = prepend(s.snap.Maintenance, m)
	next.Vehicles = withVehicle(s.snap.Vehicles, m.VehicleID, func(v *model.Vehicle) {
		v.Status = model.VehicleMaintenance
	})
	if err := s.commit(&next); err != nil {
		return model.MaintenanceRecord{}, fmt.Errorf("adding maintenance record: %w", err)
	}

	s.logger.Info("maintenance opened", "record", m.ID, "vehicle", m.VehicleID, "service", m.ServiceType)
	return m, nil
}

// ResolveMaintenance returns a vehicle to service at km. Open records for the
// vehicle are closed with the given date, and with cost when it is non-nil.
// Records are matched by vehicle; recordID is only checked against the match.
// ErrNotFound is returned only when neither the vehicle nor an open record exists.
func (s *Store) ResolveMaintenance(vehicleID, recordID string, km int, date time.Time, cost *float64) error {
	hasVehicle := slices.IndexFunc(s.snap.Vehicles, byVehicleID(vehicleID)) >= 0
	open := func(m model.MaintenanceRecord) bool { return m.VehicleID == vehicleID && m.Open() }
	if !hasVehicle && slices.IndexFunc(s.snap.Maintenance, open) < 0 {
		s.logger.Debug("resolve of unknown vehicle", "vehicle", vehicleID)
		return fmt.Errorf("resolving maintenance for %s: %w", vehicleID, ErrNotFound)
	}

	var closed []string
	records := make([]model.MaintenanceRecord, len(s.snap.Maintenance))
	for i, m := range s.snap.Maintenance {
		if open(m) {
			d := date
			m.ReturnDate = &d
			if cost != nil {
				m.Cost = *cost
			}
			closed = append(closed, m.ID)
		}
		records[i] = m
	}
	if recordID != "" && !slices.Contains(closed, recordID) {
		s.logger.Debug("maintenance record hint did not match", "vehicle", vehicleID, "record", recordID)
	}

	next := *s.snap
	if len(closed) > 0 {
		next.Maintenance = records
	}
	next.Vehicles = withVehicle(s.snap.Vehicles, vehicleID, func(v *model.Vehicle) {
		v.Status = model.VehicleAvailable
		v.CurrentKm = km
	})
	if err := s.commit(&next); err != nil {
		return fmt.Errorf("resolving maintenance for %s: %w", vehicleID, err)
	}

	s.logger.Info("maintenance resolved", "vehicle", vehicleID, "records", len(closed), "km", km)
	return nil
}
