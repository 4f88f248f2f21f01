package fleet

import (
	"fmt"
	"slices"

	"fleet-go/internal/model"
)

// VehicleUpdate carries the fields to change on a vehicle. Nil fields are left as they are.
type VehicleUpdate struct {
	Plate     *string
	Model     *string
	Brand     *string
	Year      *int
	CurrentKm *int
	FuelLevel *int
	FuelType  *model.FuelType
	Status    *model.VehicleStatus
}

// AddVehicle appends a vehicle to the fleet. An empty id is replaced by a
// generated one and an empty status defaults to AVAILABLE.
func (s *Store) AddVehicle(v model.Vehicle) (model.Vehicle, error) {
	v.ID = s.newID(v.ID)
	v.Plate = model.NormalizePlate(v.Plate)
	if v.Status == "" {
		v.Status = model.VehicleAvailable
	}
	v = cloneVehicle(v)

	next := *s.snap
	next.Vehicles = appendTo(s.snap.Vehicles, v)
	if err := s.commit(&next); err != nil {
		return model.Vehicle{}, fmt.Errorf("adding vehicle: %w", err)
	}

	s.logger.Info("vehicle added", "vehicle", v.ID, "plate", v.Plate)
	return cloneVehicle(v), nil
}

// UpdateVehicle merges the non-nil fields of up into the vehicle.
func (s *Store) UpdateVehicle(id string, up VehicleUpdate) error {
	if slices.IndexFunc(s.snap.Vehicles, byVehicleID(id)) < 0 {
		s.logger.Debug("update of unknown vehicle", "vehicle", id)
		return fmt.Errorf("updating vehicle %s: %w", id, ErrNotFound)
	}

	next := *s.snap
	next.Vehicles = withVehicle(s.snap.Vehicles, id, func(v *model.Vehicle) {
		if up.Plate != nil {
			v.Plate = model.NormalizePlate(*up.Plate)
		}
		if up.Model != nil {
			v.Model = *up.Model
		}
		if up.Brand != nil {
			v.Brand = *up.Brand
		}
		if up.Year != nil {
			v.Year = *up.Year
		}
		if up.CurrentKm != nil {
			v.CurrentKm = *up.CurrentKm
		}
		if up.FuelLevel != nil {
			v.FuelLevel = *up.FuelLevel
		}
		if up.FuelType != nil {
			v.FuelType = *up.FuelType
		}
		if up.Status != nil {
			v.Status = *up.Status
		}
	})
	if err := s.commit(&next); err != nil {
		return fmt.Errorf("updating vehicle %s: %w", id, err)
	}

	s.logger.Info("vehicle updated", "vehicle", id)
	return nil
}

// DeleteVehicle removes a vehicle. Trips, records and fines that reference it
// keep the dangling id.
func (s *Store) DeleteVehicle(id string) error {
	if slices.IndexFunc(s.snap.Vehicles, byVehicleID(id)) < 0 {
		s.logger.Debug("delete of unknown vehicle", "vehicle", id)
		return fmt.Errorf("deleting vehicle %s: %w", id, ErrNotFound)
	}

	next := *s.snap
	next.Vehicles = without(s.snap.Vehicles, byVehicleID(id))
	if err := s.commit(&next); err != nil {
		return fmt.Errorf("deleting vehicle %s: %w", id, err)
	}

	s.logger.Info("vehicle deleted", "vehicle", id)
	return nil
}
