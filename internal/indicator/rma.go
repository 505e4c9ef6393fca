package indicator

// RMA calculates Wilder's smoothed moving average (alpha = 1/period).
// It seeds with the simple average of the first `period` inputs; during
// that accumulation it reports the running partial average as its neutral
// warm-up value. Thereafter value = (value*(period-1) + input) / period.
type RMA struct {
	period int
	count  int
	sum    float64
	value  float64
}

// NewRMA creates a new Wilder smoothing indicator with the given period.
func NewRMA(period int) *RMA {
	return &RMA{period: period}
}

func (r *RMA) Kind() Kind  { return KindRMA }
func (r *RMA) Period() int { return r.period }

// Update feeds the next value and returns the new smoothed value.
func (r *RMA) Update(price float64) float64 {
	r.count++
	if r.count <= r.period {
		r.sum += price
		r.value = r.sum / float64(r.count)
		return r.value
	}
	r.value = (r.value*float64(r.period-1) + price) / float64(r.period)
	return r.value
}

// Value returns the current smoothed value. Before the first update it is 0.
func (r *RMA) Value() float64 { return r.value }

// Ready reports whether the simple-average seed has completed.
func (r *RMA) Ready() bool { return r.count >= r.period }

// Reset clears the RMA state for reuse.
func (r *RMA) Reset() {
	r.count = 0
	r.sum = 0
	r.value = 0
}

// Snapshot serializes the RMA state for checkpoint persistence.
func (r *RMA) Snapshot() Snapshot {
	return Snapshot{
		Kind:   KindRMA.String(),
		Period: r.period,
		Count:  r.count,
		Sum:    r.sum,
		Value:  r.value,
	}
}

// Restore replaces the RMA state from a checkpoint.
func (r *RMA) Restore(snap Snapshot) error {
	if err := snap.expect(KindRMA); err != nil {
		return err
	}
	r.period = snap.Period
	r.count = snap.Count
	r.sum = snap.Sum
	r.value = snap.Value
	return nil
}
