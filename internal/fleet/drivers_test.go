package fleet_test

import (
	"errors"
	"testing"

	"fleet-go/internal/fleet"
	"fleet-go/internal/model"
	"fleet-go/internal/testutil"
)

func TestStore_DeleteDriver(t *testing.T) {
	t.Run("admin is protected", func(t *testing.T) {
		s := testutil.NewTestStore(t)

		err := s.DeleteDriver(fleet.AdminID)
		if !errors.Is(err, fleet.ErrProtected) {
			t.Errorf("DeleteDriver(admin) error = %v, want ErrProtected", err)
		}
		if _, ok := s.Driver(fleet.AdminID); !ok {
			t.Error("admin was removed")
		}
	})

	t.Run("fines of deleted driver are kept", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		d := addDriver(t, s, "joao")
		fine, err := s.AddFine(model.Fine{DriverID: d.ID, Value: 293.47, Points: 7, Description: "Excesso de velocidade", Date: s.Clock.Now()})
		if err != nil {
			t.Fatal(err)
		}

		if err := s.DeleteDriver(d.ID); err != nil {
			t.Fatalf("DeleteDriver() error = %v", err)
		}

		if _, ok := s.Driver(d.ID); ok {
			t.Error("driver still on roster")
		}
		fines := s.Fines()
		if len(fines) != 1 || fines[0].ID != fine.ID || fines[0].DriverID != d.ID {
			t.Errorf("Fines() = %+v", fines)
		}
	})

	t.Run("deleting logged-in driver ends session", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		d := addDriver(t, s, "joao")
		if _, err := fleet.NewGateway(s.Store).Login("joao", "123"); err != nil {
			t.Fatal(err)
		}

		if err := s.DeleteDriver(d.ID); err != nil {
			t.Fatal(err)
		}
		if _, ok := s.Current(); ok {
			t.Error("expected session to end")
		}
	})
}

func TestStore_UpdateDriver(t *testing.T) {
	t.Run("session follows roster", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		d := addDriver(t, s, "joao")
		if _, err := fleet.NewGateway(s.Store).Login("joao", "123"); err != nil {
			t.Fatal(err)
		}

		name := "João da Silva"
		if err := s.UpdateDriver(d.ID, fleet.DriverUpdate{Name: &name}); err != nil {
			t.Fatalf("UpdateDriver() error = %v", err)
		}

		current, _ := s.Current()
		if current.Name != name {
			t.Errorf("session Name = %q, want %q", current.Name, name)
		}
		stored, _ := s.Sessions.Load()
		if stored == nil || stored.Name != name {
			t.Errorf("persisted session = %+v", stored)
		}
	})

	t.Run("password untouched when not given", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		d := addDriver(t, s, "joao")

		license := "99999"
		if err := s.UpdateDriver(d.ID, fleet.DriverUpdate{License: &license}); err != nil {
			t.Fatal(err)
		}
		got, _ := s.Driver(d.ID)
		if got.Password != "123" || got.License != "99999" {
			t.Errorf("driver = %+v", got)
		}
	})
}
