package indicator

// RSI calculates the Relative Strength Index: two Wilder averages over the
// clipped positive/negative close-to-close deltas. The very first bar has
// no prior close and reports the neutral 50.0. Whenever the average loss is
// zero the RSI is 100 if the average gain is positive, otherwise 50 (a
// perfectly flat series has no direction).
type RSI struct {
	avgGain   RMA
	avgLoss   RMA
	prevClose float64
	count     int
	value     float64
}

// NewRSI creates a new RSI indicator with the given period (typically 14).
func NewRSI(period int) *RSI {
	return &RSI{
		avgGain: RMA{period: period},
		avgLoss: RMA{period: period},
	}
}

func (r *RSI) Kind() Kind  { return KindRSI }
func (r *RSI) Period() int { return r.avgGain.period }

// Update feeds the next close and returns the new RSI in [0, 100].
func (r *RSI) Update(close float64) float64 {
	r.count++
	if r.count == 1 {
		r.prevClose = close
		r.value = 50.0
		return r.value
	}

	delta := close - r.prevClose
	r.prevClose = close

	gain, loss := 0.0, 0.0
	if delta > 0 {
		gain = delta
	} else {
		loss = -delta
	}

	ag := r.avgGain.Update(gain)
	al := r.avgLoss.Update(loss)

	switch {
	case al == 0 && ag > 0:
		r.value = 100.0
	case al == 0:
		r.value = 50.0
	default:
		rs := ag / al
		r.value = 100.0 - 100.0/(1.0+rs)
	}
	return r.value
}

// Value returns the current RSI. Before the first update it is 0.
func (r *RSI) Value() float64 { return r.value }

// Ready reports whether the Wilder seeds have completed.
func (r *RSI) Ready() bool { return r.count > r.avgGain.period }

// Reset clears the RSI state for reuse.
func (r *RSI) Reset() {
	r.avgGain.Reset()
	r.avgLoss.Reset()
	r.prevClose = 0
	r.count = 0
	r.value = 0
}

// Snapshot serializes the RSI state for checkpoint persistence.
func (r *RSI) Snapshot() Snapshot {
	return Snapshot{
		Kind:      KindRSI.String(),
		Period:    r.avgGain.period,
		Count:     r.count,
		PrevClose: r.prevClose,
		Value:     r.value,
		Subs:      []Snapshot{r.avgGain.Snapshot(), r.avgLoss.Snapshot()},
	}
}

// Restore replaces the RSI state from a checkpoint.
func (r *RSI) Restore(snap Snapshot) error {
	if err := snap.expect(KindRSI); err != nil {
		return err
	}
	if len(snap.Subs) != 2 {
		return errBadSnapshot(KindRSI, "want 2 sub-states")
	}
	if err := r.avgGain.Restore(snap.Subs[0]); err != nil {
		return err
	}
	if err := r.avgLoss.Restore(snap.Subs[1]); err != nil {
		return err
	}
	r.count = snap.Count
	r.prevClose = snap.PrevClose
	r.value = snap.Value
	return nil
}
