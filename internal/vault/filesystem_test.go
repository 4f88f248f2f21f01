package vault

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fleet-go/internal/fleet"
)

func put(t *testing.T, v fleet.Vault, fleetID, data string, version int64) {
	t.Helper()
	info := fleet.SnapshotInfo{
		Version:  version,
		Size:     int64(len(data)),
		StoredAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}
	if err := v.PutSnapshot(fleetID, strings.NewReader(data), info); err != nil {
		t.Fatalf("PutSnapshot() error = %v", err)
	}
}

func TestFileSystemVault_Layout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault")
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	put(t, v, "fleet-1", `{"fines":[]}`, 3)

	data, err := os.ReadFile(filepath.Join(root, "snapshots", "fleet-1.snapshot"))
	if err != nil || string(data) != `{"fines":[]}` {
		t.Errorf("snapshot file = %q, %v", data, err)
	}
	manifest, err := os.ReadFile(filepath.Join(root, "snapshots", "fleet-1.json"))
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	if !strings.Contains(string(manifest), `"version":3`) {
		t.Errorf("manifest = %s, want version 3", manifest)
	}

	entries, err := os.ReadDir(v.dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("snapshots dir has %d entries, want 2 (no temp files left)", len(entries))
	}
}

func TestFileSystemVault_Replace(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	put(t, v, "fleet-1", "v1", 1)
	put(t, v, "fleet-1", "v2-longer", 5)

	var buf bytes.Buffer
	if err := v.GetSnapshot("fleet-1", &buf); err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if buf.String() != "v2-longer" {
		t.Errorf("GetSnapshot() = %q, want v2-longer", buf.String())
	}

	// A vault reopened on the same root sees the manifest.
	reopened, err := NewFileSystemVault("test", v.root)
	if err != nil {
		t.Fatal(err)
	}
	info, err := reopened.StatSnapshot("fleet-1")
	if err != nil {
		t.Fatalf("StatSnapshot() error = %v", err)
	}
	want := fleet.SnapshotInfo{Version: 5, Size: 9, StoredAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}
	if info.Version != want.Version || info.Size != want.Size || !info.StoredAt.Equal(want.StoredAt) {
		t.Errorf("StatSnapshot() = %+v, want %+v", info, want)
	}
}

func TestFileSystemVault_SizeMismatch(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	put(t, v, "fleet-1", "kept", 1)

	err = v.PutSnapshot("fleet-1", strings.NewReader("short"), fleet.SnapshotInfo{Version: 2, Size: 100})
	if err == nil {
		t.Fatal("PutSnapshot() expected error for size mismatch")
	}

	var buf bytes.Buffer
	if err := v.GetSnapshot("fleet-1", &buf); err != nil || buf.String() != "kept" {
		t.Errorf("GetSnapshot() after failed put = %q, %v; want previous snapshot", buf.String(), err)
	}
	if info, _ := v.StatSnapshot("fleet-1"); info.Version != 1 {
		t.Errorf("manifest version = %d, want 1", info.Version)
	}
}

func TestFileSystemVault_Missing(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := v.GetSnapshot("missing", &buf); !errors.Is(err, fleet.ErrNotFound) {
		t.Errorf("GetSnapshot() error = %v, want ErrNotFound", err)
	}
	if _, err := v.StatSnapshot("missing"); !errors.Is(err, fleet.ErrNotFound) {
		t.Errorf("StatSnapshot() error = %v, want ErrNotFound", err)
	}
}

func TestFileSystemVault_ValidateSetup(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := v.ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}

	if err := os.RemoveAll(v.root); err != nil {
		t.Fatal(err)
	}
	if err := v.ValidateSetup(); err == nil {
		t.Error("ValidateSetup() expected error after root was removed")
	}
}
