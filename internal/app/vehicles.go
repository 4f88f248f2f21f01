package app

import (
	"fmt"
	"slices"
	"strings"

	"fleet-go/internal/fleet"
	"fleet-go/internal/model"
)

// VehicleFilter narrows the vehicle list. Zero values match everything.
type VehicleFilter struct {
	Search string              // plate or model substring
	Status model.VehicleStatus // exact status
}

// Vehicles returns the vehicles matching f, in fleet order.
// The search term matches a plate containing it upper-cased, or a model
// containing it lower-cased.
func (a *FleetApp) Vehicles(f VehicleFilter) []model.Vehicle {
	var out []model.Vehicle
	for _, v := range a.store.Vehicles() {
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if f.Search != "" &&
			!strings.Contains(v.Plate, strings.ToUpper(f.Search)) &&
			!strings.Contains(strings.ToLower(v.Model), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Vehicle returns one vehicle by id.
func (a *FleetApp) Vehicle(id string) (model.Vehicle, error) {
	v, ok := a.store.Vehicle(id)
	if !ok {
		return model.Vehicle{}, fmt.Errorf("vehicle %s: %w", id, fleet.ErrNotFound)
	}
	return v, nil
}

// AddVehicle registers a vehicle. Plate, brand and model are required and the
// plate must not already be registered. Fuel level defaults to 100 and fuel type to Flex.
func (a *FleetApp) AddVehicle(v model.Vehicle) (model.Vehicle, error) {
	v.Plate = model.NormalizePlate(v.Plate)
	if v.Plate == "" || strings.TrimSpace(v.Model) == "" || strings.TrimSpace(v.Brand) == "" {
		return model.Vehicle{}, fmt.Errorf("plate, brand and model are required: %w", fleet.ErrInvalid)
	}
	if err := a.checkPlate("", v.Plate); err != nil {
		return model.Vehicle{}, err
	}
	if v.FuelLevel == 0 {
		v.FuelLevel = 100
	}
	if v.FuelType == "" {
		v.FuelType = model.FuelFlex
	}
	v.Status = model.VehicleAvailable

	var added model.Vehicle
	err := a.mutate(v.Plate, func() error {
		var err error
		added, err = a.store.AddVehicle(v)
		return err
	})
	return added, err
}

// UpdateVehicle edits a vehicle. A new plate must not belong to another vehicle.
func (a *FleetApp) UpdateVehicle(id string, up fleet.VehicleUpdate) error {
	if _, err := a.Vehicle(id); err != nil {
		return err
	}
	if up.Plate != nil {
		plate := model.NormalizePlate(*up.Plate)
		if plate == "" {
			return fmt.Errorf("plate cannot be empty: %w", fleet.ErrInvalid)
		}
		if err := a.checkPlate(id, plate); err != nil {
			return err
		}
		up.Plate = &plate
	}
	return a.mutate(id, func() error {
		return a.store.UpdateVehicle(id, up)
	})
}

// DeleteVehicle removes a vehicle. Trips, fines and records that reference it are kept.
func (a *FleetApp) DeleteVehicle(id string) error {
	return a.mutate(id, func() error {
		return a.store.DeleteVehicle(id)
	})
}

// checkPlate fails if plate is registered to a vehicle other than selfID.
func (a *FleetApp) checkPlate(selfID, plate string) error {
	taken := slices.ContainsFunc(a.store.Vehicles(), func(v model.Vehicle) bool {
		return v.Plate == plate && v.ID != selfID
	})
	if taken {
		return fmt.Errorf("plate %s already registered: %w", plate, fleet.ErrInvalid)
	}
	return nil
}
