package indicator

// EMA calculates an Exponential Moving Average with alpha = 2/(period+1).
// The very first update seeds the value with the input itself, so the EMA
// is defined from bar one. O(1) per update — no window storage needed.
type EMA struct {
	period int
	alpha  float64
	value  float64
	count  int
}

// NewEMA creates a new EMA indicator with the given period.
func NewEMA(period int) *EMA {
	return &EMA{
		period: period,
		alpha:  2.0 / float64(period+1),
	}
}

func (e *EMA) Kind() Kind  { return KindEMA }
func (e *EMA) Period() int { return e.period }

// Update feeds the next value and returns the new EMA.
func (e *EMA) Update(price float64) float64 {
	e.count++
	if e.count == 1 {
		e.value = price
		return e.value
	}
	e.value = e.alpha*price + (1-e.alpha)*e.value
	return e.value
}

// Value returns the current EMA. Before the first update it is 0.
func (e *EMA) Value() float64 { return e.value }

// Ready reports whether at least `period` values have been absorbed.
func (e *EMA) Ready() bool { return e.count >= e.period }

// Reset clears the EMA state for reuse.
func (e *EMA) Reset() {
	e.value = 0
	e.count = 0
}

// Snapshot serializes the EMA state for checkpoint persistence.
func (e *EMA) Snapshot() Snapshot {
	return Snapshot{
		Kind:   KindEMA.String(),
		Period: e.period,
		Value:  e.value,
		Count:  e.count,
	}
}

// Restore replaces the EMA state from a checkpoint.
func (e *EMA) Restore(snap Snapshot) error {
	if err := snap.expect(KindEMA); err != nil {
		return err
	}
	e.period = snap.Period
	e.alpha = 2.0 / float64(snap.Period+1)
	e.value = snap.Value
	e.count = snap.Count
	return nil
}
