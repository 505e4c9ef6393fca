package scan

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"regime-scannerv1/internal/filter"
	"regime-scannerv1/internal/norm"
	"regime-scannerv1/internal/registry"
)

const snapshotVersion = 1

// RegimeEntry pairs one regime filter's state with its stream key.
type RegimeEntry struct {
	Key   string                `json:"key"` // "symbol:tf"
	State filter.RegimeSnapshot `json:"state"`
}

// EngineSnapshot holds the full serialized state of a scan engine:
// every indicator instance, every regime filter, and the normalizer's
// historic bounds.
type EngineSnapshot struct {
	Version int                   `json:"version"`
	TakenAt int64                 `json:"taken_at"` // unix seconds
	Reg     *registry.Snapshot    `json:"registry"`
	Regimes []RegimeEntry         `json:"regimes"`
	Norm    []norm.SeriesSnapshot `json:"norm"`
}

// Snapshot captures the engine's full state.
func (e *Engine) Snapshot() *EngineSnapshot {
	snap := &EngineSnapshot{
		Version: snapshotVersion,
		TakenAt: time.Now().Unix(),
		Reg:     e.reg.Snapshot(),
		Norm:    e.norm.Snapshot(),
	}
	for key, r := range e.regimes {
		snap.Regimes = append(snap.Regimes, RegimeEntry{Key: key, State: r.Snapshot()})
	}
	return snap
}

// Restore rebuilds engine state from a snapshot. Entries that fail to
// decode are skipped and cold-start instead of failing the whole restore.
func (e *Engine) Restore(snap *EngineSnapshot) {
	if snap == nil {
		return
	}
	restored, skipped := e.reg.Restore(snap.Reg)

	for _, entry := range snap.Regimes {
		r := filter.NewRegime(e.cfg.RegimeThreshold)
		if err := r.Restore(entry.State); err != nil {
			log.Printf("[scan] skipping regime snapshot %s: %v", entry.Key, err)
			skipped++
			continue
		}
		e.regimes[entry.Key] = r
		restored++
	}

	e.norm.Restore(snap.Norm)

	log.Printf("[scan] snapshot restore: %d restored, %d cold-started", restored, skipped)
}

// Marshal serializes the snapshot to JSON.
func (s *EngineSnapshot) Marshal() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal engine snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot decodes a serialized engine snapshot.
func UnmarshalSnapshot(data []byte) (*EngineSnapshot, error) {
	var s EngineSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal engine snapshot: %w", err)
	}
	return &s, nil
}
