package fleet_test

import (
	"errors"
	"testing"

	"fleet-go/internal/fleet"
	"fleet-go/internal/model"
	"fleet-go/internal/testutil"
)

func TestStore_AddVehicle(t *testing.T) {
	s := testutil.NewTestStore(t)

	v := addVehicle(t, s, " abc1d23 ", 1000)

	if v.ID != "id-1" {
		t.Errorf("ID = %q, want id-1", v.ID)
	}
	if v.Plate != "ABC1D23" {
		t.Errorf("Plate = %q, want ABC1D23", v.Plate)
	}
	if v.Status != model.VehicleAvailable {
		t.Errorf("Status = %s, want AVAILABLE", v.Status)
	}
}

func TestStore_UpdateVehicle(t *testing.T) {
	s := testutil.NewTestStore(t)
	v := addVehicle(t, s, "ABC1D23", 1000)

	plate := "xyz9a87"
	fuel := 40
	if err := s.UpdateVehicle(v.ID, fleet.VehicleUpdate{Plate: &plate, FuelLevel: &fuel}); err != nil {
		t.Fatalf("UpdateVehicle() error = %v", err)
	}

	got, _ := s.Vehicle(v.ID)
	if got.Plate != "XYZ9A87" || got.FuelLevel != 40 {
		t.Errorf("vehicle = %+v", got)
	}
	if got.Model != "Daily" || got.CurrentKm != 1000 {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

func TestStore_DeleteVehicle(t *testing.T) {
	s := testutil.NewTestStore(t)
	v := addVehicle(t, s, "ABC1D23", 0)
	d := addDriver(t, s, "joao")
	if _, err := s.AddFine(model.Fine{VehicleID: v.ID, DriverID: d.ID, Value: 130.16, Points: 4}); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteVehicle(v.ID); err != nil {
		t.Fatalf("DeleteVehicle() error = %v", err)
	}
	if got := len(s.Vehicles()); got != 0 {
		t.Errorf("len(Vehicles()) = %d, want 0", got)
	}
	if got := len(s.Fines()); got != 1 {
		t.Errorf("len(Fines()) = %d, want fines kept", got)
	}
	if err := s.DeleteVehicle(v.ID); !errors.Is(err, fleet.ErrNotFound) {
		t.Errorf("second DeleteVehicle() error = %v, want ErrNotFound", err)
	}
}
