package vault

import (
	"fmt"
	"io"
	"sync"

	"fleet-go/internal/fleet"
)

type memorySnapshot struct {
	data []byte
	info fleet.SnapshotInfo
}

// MemoryVault holds snapshots in process memory. Safe for concurrent use.
type MemoryVault struct {
	name string

	mu    sync.RWMutex
	snapshots map[string]memorySnapshot
}

func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{name: name, snapshots: make(map[string]memorySnapshot)}
}

func (m *MemoryVault) PutSnapshot(fleetID string, r io.Reader, info fleet.SnapshotInfo) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	if int64(len(data)) != info.Size {
		return fmt.Errorf("snapshot for %s: read %d bytes, expected %d", fleetID, len(data), info.Size)
	}

	m.mu.Lock()
	m.snapshots[fleetID] = memorySnapshot{data: data, info: info}
	m.mu.Unlock()
	return nil
}

func (m *MemoryVault) GetSnapshot(fleetID string, w io.Writer) error {
	m.mu.RLock()
	snap, ok := m.snapshots[fleetID]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("snapshot for %s: %w", fleetID, fleet.ErrNotFound)
	}
	_, err := w.Write(snap.data)
	return err
}

func (m *MemoryVault) StatSnapshot(fleetID string) (fleet.SnapshotInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snapshots[fleetID]
	if !ok {
		return fleet.SnapshotInfo{}, fmt.Errorf("snapshot for %s: %w", fleetID, fleet.ErrNotFound)
	}
	return snap.info, nil
}

func (m *MemoryVault) ValidateSetup() error { return nil }

var _ fleet.Vault = (*MemoryVault)(nil)
