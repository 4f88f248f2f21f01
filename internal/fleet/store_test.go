package fleet_test

import (
	"errors"
	"reflect"
	"testing"

	"fleet-go/internal/fleet"
	"fleet-go/internal/model"
	"fleet-go/internal/testutil"
)

func addVehicle(t *testing.T, s *testutil.TestStore, plate string, km int) model.Vehicle {
	t.Helper()
	v, err := s.AddVehicle(model.Vehicle{Plate: plate, Model: "Daily", Brand: "Iveco", Year: 2020, CurrentKm: km, FuelLevel: 80, FuelType: model.FuelDiesel})
	if err != nil {
		t.Fatalf("AddVehicle() error = %v", err)
	}
	return v
}

func addDriver(t *testing.T, s *testutil.TestStore, username string) model.Driver {
	t.Helper()
	d, err := s.AddDriver(model.Driver{Name: "João Silva", License: "12345", Username: username, Password: "123"})
	if err != nil {
		t.Fatalf("AddDriver() error = %v", err)
	}
	return d
}

func startTrip(t *testing.T, s *testutil.TestStore, v model.Vehicle, d model.Driver, km int) model.Trip {
	t.Helper()
	trip, err := s.StartTrip(
		model.Trip{VehicleID: v.ID, DriverID: d.ID, Origin: "Garagem", Destination: "Campinas"},
		model.Checklist{Km: km, FuelLevel: 75, OilChecked: true, WaterChecked: true, TiresChecked: true},
	)
	if err != nil {
		t.Fatalf("StartTrip() error = %v", err)
	}
	return trip
}

func TestNewStore(t *testing.T) {
	t.Run("seeds admin on empty database", func(t *testing.T) {
		s := testutil.NewTestStore(t)

		drivers := s.Drivers()
		if len(drivers) != 1 {
			t.Fatalf("len(Drivers()) = %d, want 1", len(drivers))
		}
		admin := drivers[0]
		if admin.ID != fleet.AdminID || admin.Username != "admin" || admin.Password != "admin" {
			t.Errorf("admin = %+v", admin)
		}
		if !admin.PasswordChanged {
			t.Error("admin should not be asked to change password")
		}
	})

	t.Run("does not reseed when roster exists", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		addDriver(t, s, "joao")

		reopened := s.Reopen(t)
		if got := len(reopened.Drivers()); got != 2 {
			t.Errorf("len(Drivers()) = %d, want 2", got)
		}
	})

	t.Run("drops session of driver no longer on roster", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		if err := s.Sessions.Save(&model.Driver{ID: "ghost", Username: "ghost"}); err != nil {
			t.Fatal(err)
		}

		reopened := s.Reopen(t)
		if _, ok := reopened.Current(); ok {
			t.Error("expected no session")
		}
		if d, _ := s.Sessions.Load(); d != nil {
			t.Errorf("session store still holds %+v", d)
		}
	})
}

func TestStore_Persistence(t *testing.T) {
	s := testutil.NewTestStore(t)
	v := addVehicle(t, s, "abc1d23", 1000)
	d := addDriver(t, s, "joao")
	trip := startTrip(t, s, v, d, 1010)
	if _, err := s.EndTrip(trip.ID, 1100, s.Clock.Now(), &model.Expenses{FuelExpense: 50}); err != nil {
		t.Fatalf("EndTrip() error = %v", err)
	}
	if _, err := s.AddOccurrence(model.Occurrence{TripID: trip.ID, Type: "Pneu", Description: "Furo", Severity: model.SeverityLow}); err != nil {
		t.Fatalf("AddOccurrence() error = %v", err)
	}
	if _, err := s.AddMaintenanceRecord(model.MaintenanceRecord{VehicleID: v.ID, ServiceType: model.TireChangeService, Date: s.Clock.Now(), Km: 1100}); err != nil {
		t.Fatalf("AddMaintenanceRecord() error = %v", err)
	}

	want := s.Snapshot()
	got := s.Reopen(t).Snapshot()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reloaded snapshot differs\n got: %+v\nwant: %+v", got, want)
	}
}

func TestStore_Projections(t *testing.T) {
	t.Run("returned slices are copies", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		addVehicle(t, s, "ABC1D23", 0)

		vehicles := s.Vehicles()
		vehicles[0].Plate = "CHANGED"

		if got := s.Vehicles()[0].Plate; got != "ABC1D23" {
			t.Errorf("Plate = %q, want ABC1D23", got)
		}
	})

	t.Run("lookup miss", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		if _, ok := s.Vehicle("nope"); ok {
			t.Error("Vehicle() found unknown id")
		}
		if _, ok := s.Driver("nope"); ok {
			t.Error("Driver() found unknown id")
		}
		if _, ok := s.ActiveTrip("nope"); ok {
			t.Error("ActiveTrip() found unknown id")
		}
		if _, ok := s.ScheduledTrip("nope"); ok {
			t.Error("ScheduledTrip() found unknown id")
		}
	})
}

func TestStore_Reset(t *testing.T) {
	s := testutil.NewTestStore(t)
	addVehicle(t, s, "ABC1D23", 0)
	addDriver(t, s, "joao")
	gw := fleet.NewGateway(s.Store)
	if _, err := gw.Login("joao", "123"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	if got := len(s.Vehicles()); got != 0 {
		t.Errorf("len(Vehicles()) = %d, want 0", got)
	}
	if got := s.Drivers(); len(got) != 1 || got[0].ID != fleet.AdminID {
		t.Errorf("Drivers() = %+v, want only admin", got)
	}
	if _, ok := s.Current(); ok {
		t.Error("expected session to be cleared")
	}
	if _, err := gw.Login("admin", "admin"); err != nil {
		t.Errorf("Login(admin) after reset error = %v", err)
	}

	reopened := s.Reopen(t)
	if got := len(reopened.Vehicles()); got != 0 {
		t.Errorf("reopened len(Vehicles()) = %d, want 0", got)
	}
}

func TestStore_Replace(t *testing.T) {
	t.Run("swaps collections", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		addVehicle(t, s, "AAA1111", 0)

		snap := &fleet.Snapshot{
			Vehicles: []model.Vehicle{{ID: "v9", Plate: "ZZZ9Z99", Status: model.VehicleAvailable}},
			Drivers:  []model.Driver{{ID: fleet.AdminID, Username: "admin", Password: "admin"}},
		}
		if err := s.Replace(snap); err != nil {
			t.Fatalf("Replace() error = %v", err)
		}

		vehicles := s.Vehicles()
		if len(vehicles) != 1 || vehicles[0].ID != "v9" {
			t.Errorf("Vehicles() = %+v", vehicles)
		}
	})

	t.Run("reseeds admin when roster is empty", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		if err := s.Replace(&fleet.Snapshot{}); err != nil {
			t.Fatalf("Replace() error = %v", err)
		}
		if _, ok := s.Driver(fleet.AdminID); !ok {
			t.Error("expected admin to be reseeded")
		}
	})

	t.Run("drops session of missing driver", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		addDriver(t, s, "joao")
		if _, err := fleet.NewGateway(s.Store).Login("joao", "123"); err != nil {
			t.Fatal(err)
		}

		if err := s.Replace(&fleet.Snapshot{}); err != nil {
			t.Fatalf("Replace() error = %v", err)
		}
		if _, ok := s.Current(); ok {
			t.Error("expected session to be cleared")
		}
	})
}

func TestStore_UnknownIDs(t *testing.T) {
	s := testutil.NewTestStore(t)
	before := s.Snapshot()

	calls := map[string]error{
		"UpdateVehicle":          s.UpdateVehicle("nope", fleet.VehicleUpdate{}),
		"DeleteVehicle":          s.DeleteVehicle("nope"),
		"UpdateDriver":           s.UpdateDriver("nope", fleet.DriverUpdate{}),
		"DeleteDriver":           s.DeleteDriver("nope"),
		"CancelTrip":             s.CancelTrip("nope"),
		"UpdateTrip":             s.UpdateTrip("nope", fleet.TripUpdate{}),
		"ResolveMaintenance":     s.ResolveMaintenance("nope", "", 0, s.Clock.Now(), nil),
		"DeleteFine":             s.DeleteFine("nope"),
		"ResolveOccurrence":      s.ResolveOccurrence("nope"),
		"UpdateScheduledTrip":    s.UpdateScheduledTrip("nope", fleet.ScheduledTripUpdate{}),
		"DeleteScheduledTrip":    s.DeleteScheduledTrip("nope"),
		"MarkNotificationAsRead": s.MarkNotificationAsRead("nope"),
	}
	_, endErr := s.EndTrip("nope", 10, s.Clock.Now(), nil)
	calls["EndTrip"] = endErr

	for name, err := range calls {
		if !errors.Is(err, fleet.ErrNotFound) {
			t.Errorf("%s() error = %v, want ErrNotFound", name, err)
		}
	}
	if after := s.Snapshot(); !reflect.DeepEqual(after, before) {
		t.Errorf("state changed after lookup misses\n got: %+v\nwant: %+v", after, before)
	}
}

func TestStore_History(t *testing.T) {
	s := testutil.NewTestStore(t)
	for _, name := range []string{"vehicle add", "trip start"} {
		op, err := s.Database.CreateOperation(name, "")
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Database.FinishOperation(op.ID, "success"); err != nil {
			t.Fatal(err)
		}
	}

	ops, err := s.History(10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("len(History()) = %d, want 2", len(ops))
	}
	if ops[0].Operation != "trip start" {
		t.Errorf("History()[0] = %q, want newest first", ops[0].Operation)
	}
}
