// Package norm rescales raw indicator outputs into a target range using an
// ever-widening running min/max per series. The historic bounds never
// shrink except on explicit reset; that drift is a deliberate design
// property of the feature pipeline, not a defect.
package norm

import "math"

// eps guards the degenerate case where the observed range is ~0; the
// value then sits at the running max and maps to targetMax.
const eps = 1e-10

type bounds struct {
	min float64 // non-increasing over the series' lifetime
	max float64 // non-decreasing over the series' lifetime
}

// Normalizer tracks historic min/max per series name and maps values into
// caller-supplied target ranges. Not safe for concurrent use; each stream
// driver owns its own Normalizer.
type Normalizer struct {
	state map[string]*bounds
}

// New creates an empty Normalizer.
func New() *Normalizer {
	return &Normalizer{state: make(map[string]*bounds)}
}

// Normalize widens the series' historic bounds to include value, then maps
// value from [historicMin, historicMax] into [targetMin, targetMax].
// Normalizing the running max always returns targetMax; the running min
// always returns targetMin.
func (n *Normalizer) Normalize(value, targetMin, targetMax float64, series string) float64 {
	b, ok := n.state[series]
	if !ok {
		b = &bounds{min: math.Inf(1), max: math.Inf(-1)}
		n.state[series] = b
	}
	if value < b.min {
		b.min = value
	}
	if value > b.max {
		b.max = value
	}

	span := b.max - b.min
	if span < eps {
		// A single observed level is both bounds at once; the max
		// identity wins so a fresh series maps to targetMax.
		return targetMax
	}
	return targetMin + (targetMax-targetMin)*(value-b.min)/span
}

// Bounds returns the historic (min, max) for a series and whether the
// series has been seen.
func (n *Normalizer) Bounds(series string) (min, max float64, ok bool) {
	b, ok := n.state[series]
	if !ok {
		return 0, 0, false
	}
	return b.min, b.max, true
}

// SeriesNames returns the tracked series names, for stats and snapshots.
func (n *Normalizer) SeriesNames() []string {
	names := make([]string, 0, len(n.state))
	for name := range n.state {
		names = append(names, name)
	}
	return names
}

// ResetSeries forgets the historic bounds of one series.
func (n *Normalizer) ResetSeries(series string) {
	delete(n.state, series)
}

// Reset forgets all historic bounds.
func (n *Normalizer) Reset() {
	n.state = make(map[string]*bounds)
}

// SeriesSnapshot holds the persisted bounds of one series.
type SeriesSnapshot struct {
	Series string  `json:"series"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Snapshot serializes every tracked series' bounds.
func (n *Normalizer) Snapshot() []SeriesSnapshot {
	out := make([]SeriesSnapshot, 0, len(n.state))
	for name, b := range n.state {
		out = append(out, SeriesSnapshot{Series: name, Min: b.min, Max: b.max})
	}
	return out
}

// Restore replaces the tracked bounds from a checkpoint.
func (n *Normalizer) Restore(snaps []SeriesSnapshot) {
	n.state = make(map[string]*bounds, len(snaps))
	for _, s := range snaps {
		n.state[s.Series] = &bounds{min: s.Min, max: s.Max}
	}
}

// Rescale maps value from [oldMin, oldMax] into [newMin, newMax] without
// any history tracking. A degenerate old range collapses to newMin: unlike
// Normalize, the value here has no running-max identity to fall back on.
func Rescale(value, oldMin, oldMax, newMin, newMax float64) float64 {
	span := oldMax - oldMin
	if span < eps {
		return newMin
	}
	return newMin + (newMax-newMin)*(value-oldMin)/span
}
