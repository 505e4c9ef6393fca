package indicator

import "math"

// ATR calculates the Average True Range: Wilder smoothing over the True
// Range stream. The first bar has no previous close, so its TR is high-low.
type ATR struct {
	rma       RMA
	prevClose float64
	count     int
}

// NewATR creates a new ATR indicator with the given period.
func NewATR(period int) *ATR {
	return &ATR{rma: RMA{period: period}}
}

func (a *ATR) Kind() Kind  { return KindATR }
func (a *ATR) Period() int { return a.rma.period }

// Update feeds the next bar and returns the new ATR.
func (a *ATR) Update(high, low, close float64) float64 {
	tr := high - low
	if a.count > 0 {
		tr = math.Max(tr, math.Max(math.Abs(high-a.prevClose), math.Abs(low-a.prevClose)))
	}
	a.count++
	a.prevClose = close
	return a.rma.Update(tr)
}

// Value returns the current ATR. Before the first update it is 0.
func (a *ATR) Value() float64 { return a.rma.Value() }

// Ready reports whether the underlying Wilder seed has completed.
func (a *ATR) Ready() bool { return a.rma.Ready() }

// Reset clears the ATR state for reuse.
func (a *ATR) Reset() {
	a.rma.Reset()
	a.prevClose = 0
	a.count = 0
}

// Snapshot serializes the ATR state for checkpoint persistence.
func (a *ATR) Snapshot() Snapshot {
	return Snapshot{
		Kind:      KindATR.String(),
		Period:    a.rma.period,
		Count:     a.count,
		PrevClose: a.prevClose,
		Subs:      []Snapshot{a.rma.Snapshot()},
	}
}

// Restore replaces the ATR state from a checkpoint.
func (a *ATR) Restore(snap Snapshot) error {
	if err := snap.expect(KindATR); err != nil {
		return err
	}
	if len(snap.Subs) != 1 {
		return errBadSnapshot(KindATR, "want 1 sub-state")
	}
	if err := a.rma.Restore(snap.Subs[0]); err != nil {
		return err
	}
	a.count = snap.Count
	a.prevClose = snap.PrevClose
	return nil
}
