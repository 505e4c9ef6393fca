package registry

import (
	"log"

	"regime-scannerv1/internal/indicator"
)

// snapshotVersion is bumped when the snapshot schema changes shape.
const snapshotVersion = 1

// InstanceSnapshot pairs one indicator's serialized state with the stream
// it belongs to. Kind and parameters live inside State.
type InstanceSnapshot struct {
	Symbol string             `json:"symbol"`
	TF     int                `json:"tf"`
	State  indicator.Snapshot `json:"state"`
}

// Snapshot holds the serialized state of every instance in the registry.
type Snapshot struct {
	Version   int                `json:"version"`
	Instances []InstanceSnapshot `json:"instances"`
}

// Snapshot captures the full registry state for checkpoint persistence.
func (r *Registry) Snapshot() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := &Snapshot{Version: snapshotVersion}
	for symbol, byTF := range r.state {
		for tf, byKey := range byTF {
			for _, inst := range byKey {
				snap.Instances = append(snap.Instances, InstanceSnapshot{
					Symbol: symbol,
					TF:     tf,
					State:  inst.Snapshot(),
				})
			}
		}
	}
	return snap
}

// Restore rebuilds instances from a snapshot. It is tolerant: an entry
// that fails to decode is skipped and cold-starts on first request instead
// of failing the whole restore. Returns (restored, skipped) counts.
func (r *Registry) Restore(snap *Snapshot) (restored, skipped int) {
	if snap == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, is := range snap.Instances {
		inst, err := indicator.NewInstance(is.State)
		if err != nil {
			log.Printf("[registry] skipping snapshot entry %s tf=%d: %v", is.Symbol, is.TF, err)
			skipped++
			continue
		}
		if err := inst.Restore(is.State); err != nil {
			log.Printf("[registry] skipping snapshot entry %s tf=%d kind=%s: %v",
				is.Symbol, is.TF, is.State.Kind, err)
			skipped++
			continue
		}

		kind, _ := indicator.KindFromString(is.State.Kind)
		k := key{kind: kind, p1: is.State.Period, p2: is.State.Period2}

		byTF, ok := r.state[is.Symbol]
		if !ok {
			byTF = make(map[int]map[key]indicator.Instance)
			r.state[is.Symbol] = byTF
		}
		byKey, ok := byTF[is.TF]
		if !ok {
			byKey = make(map[key]indicator.Instance)
			byTF[is.TF] = byKey
		}
		byKey[k] = inst
		restored++
	}
	return restored, skipped
}
