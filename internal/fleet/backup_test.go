package fleet_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"fleet-go/internal/encryption"
	"fleet-go/internal/fleet"
	"fleet-go/internal/model"
	"fleet-go/internal/testutil"
)

func TestBackupService(t *testing.T) {
	t.Run("plaintext round trip", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		vault := testutil.NewTestVault()
		svc := fleet.NewBackupService(s.Store, vault, nil, fleet.NewNopLogger())
		addVehicle(t, s, "ABC1D23", 100)
		want := s.Snapshot()

		if _, err := svc.Backup("fleet-1"); err != nil {
			t.Fatalf("Backup() error = %v", err)
		}
		addVehicle(t, s, "XYZ9A87", 0)

		if err := svc.Restore("fleet-1", nil); err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if got := s.Snapshot(); !reflect.DeepEqual(got, want) {
			t.Errorf("restored snapshot differs\n got: %+v\nwant: %+v", got, want)
		}
	})

	t.Run("encrypted round trip", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		vault := testutil.NewTestVault()
		enc := encryption.NewTestEncryptor()
		svc := fleet.NewBackupService(s.Store, vault, enc, fleet.NewNopLogger())
		addDriver(t, s, "joao")
		want := s.Snapshot()

		if _, err := svc.Backup("fleet-1"); err != nil {
			t.Fatalf("Backup() error = %v", err)
		}
		var stored bytes.Buffer
		if err := vault.GetSnapshot("fleet-1", &stored); err != nil {
			t.Fatal(err)
		}
		if stored.Len() == 0 || stored.Bytes()[0] == '{' {
			t.Error("snapshot stored as plaintext")
		}

		if err := svc.Restore("fleet-1", nil); err == nil {
			t.Error("expected error restoring encrypted snapshot without passphrase")
		}

		dec, err := enc.Unlock("")
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Replace(&fleet.Snapshot{}); err != nil {
			t.Fatal(err)
		}
		if err := svc.Restore("fleet-1", dec); err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if got := s.Snapshot(); !reflect.DeepEqual(got, want) {
			t.Errorf("restored snapshot differs\n got: %+v\nwant: %+v", got, want)
		}
	})

	t.Run("version is latest operation id", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		vault := testutil.NewTestVault()
		svc := fleet.NewBackupService(s.Store, vault, nil, fleet.NewNopLogger())
		op, err := s.Database.CreateOperation("vehicle add", "")
		if err != nil {
			t.Fatal(err)
		}

		version, err := svc.Backup("fleet-1")
		if err != nil {
			t.Fatalf("Backup() error = %v", err)
		}
		if version != op.ID {
			t.Errorf("Backup() version = %d, want %d", version, op.ID)
		}
		info, err := vault.StatSnapshot("fleet-1")
		if err != nil {
			t.Fatalf("StatSnapshot() error = %v", err)
		}
		if info.Version != op.ID || !info.StoredAt.Equal(s.Clock.Now()) || info.Size == 0 {
			t.Errorf("StatSnapshot() = %+v, want version %d at %v", info, op.ID, s.Clock.Now())
		}
	})

	t.Run("missing snapshot", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		svc := fleet.NewBackupService(s.Store, testutil.NewTestVault(), nil, fleet.NewNopLogger())
		addVehicle(t, s, "ABC1D23", 0)

		if err := svc.Restore("fleet-1", nil); !errors.Is(err, fleet.ErrNotFound) {
			t.Errorf("Restore() error = %v, want ErrNotFound", err)
		}
		if got := s.Vehicles(); len(got) != 1 || got[0].Status != model.VehicleAvailable {
			t.Errorf("store changed after failed restore: %+v", got)
		}
	})
}
