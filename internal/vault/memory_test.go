package vault

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"fleet-go/internal/fleet"
)

func TestMemoryVault(t *testing.T) {
	v := NewMemoryVault("test")
	stored := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	if _, err := v.StatSnapshot("fleet-1"); !errors.Is(err, fleet.ErrNotFound) {
		t.Fatalf("StatSnapshot() before put error = %v, want ErrNotFound", err)
	}

	for i, data := range []string{"first", "second"} {
		info := fleet.SnapshotInfo{Version: int64(i + 1), Size: int64(len(data)), StoredAt: stored}
		if err := v.PutSnapshot("fleet-1", strings.NewReader(data), info); err != nil {
			t.Fatalf("PutSnapshot(%q) error = %v", data, err)
		}
	}

	var buf bytes.Buffer
	if err := v.GetSnapshot("fleet-1", &buf); err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if buf.String() != "second" {
		t.Errorf("GetSnapshot() = %q, want second", buf.String())
	}
	info, err := v.StatSnapshot("fleet-1")
	if err != nil {
		t.Fatalf("StatSnapshot() error = %v", err)
	}
	if info.Version != 2 || info.Size != 6 || !info.StoredAt.Equal(stored) {
		t.Errorf("StatSnapshot() = %+v", info)
	}

	if err := v.GetSnapshot("fleet-2", &buf); !errors.Is(err, fleet.ErrNotFound) {
		t.Errorf("GetSnapshot(other fleet) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryVault_SizeMismatch(t *testing.T) {
	v := NewMemoryVault("test")
	if err := v.PutSnapshot("fleet-1", strings.NewReader("hello"), fleet.SnapshotInfo{Size: 10}); err == nil {
		t.Fatal("PutSnapshot() expected error for size mismatch")
	}
	if _, err := v.StatSnapshot("fleet-1"); !errors.Is(err, fleet.ErrNotFound) {
		t.Errorf("StatSnapshot() after failed put error = %v, want ErrNotFound", err)
	}
}
