package indicator

import "math"

// WaveTrend calculates the WaveTrend oscillator: an EMA(n1) of typical
// price (hlc3), an EMA(n1) of the absolute deviation from that EMA, the
// normalized ratio ci = (hlc3-esa)/(0.015*d), then wt1 = EMA(n2) of ci and
// wt2 = SMA(4) of wt1. A zero deviation yields ci = 0.
type WaveTrend struct {
	n1 int
	n2 int

	esa EMA // EMA(n1) of hlc3
	dev EMA // EMA(n1) of |hlc3 - esa|
	wt  EMA // EMA(n2) of ci
	sig SMA // SMA(4) of wt1

	wt1 float64
	wt2 float64
}

// NewWaveTrend creates a new WaveTrend oscillator with channel length n1
// and average length n2 (the classic parameters are 10 and 11).
func NewWaveTrend(n1, n2 int) *WaveTrend {
	return &WaveTrend{
		n1:  n1,
		n2:  n2,
		esa: EMA{period: n1, alpha: 2.0 / float64(n1+1)},
		dev: EMA{period: n1, alpha: 2.0 / float64(n1+1)},
		wt:  EMA{period: n2, alpha: 2.0 / float64(n2+1)},
		sig: SMA{period: 4, buf: make([]float64, 4)},
	}
}

func (w *WaveTrend) Kind() Kind      { return KindWaveTrend }
func (w *WaveTrend) ChannelLen() int { return w.n1 }
func (w *WaveTrend) AverageLen() int { return w.n2 }

// Update feeds the next bar and returns (wt1, wt2).
func (w *WaveTrend) Update(high, low, close float64) (wt1, wt2 float64) {
	ap := (high + low + close) / 3.0
	esa := w.esa.Update(ap)
	d := w.dev.Update(math.Abs(ap - esa))

	ci := 0.0
	if d != 0 {
		ci = (ap - esa) / (0.015 * d)
	}

	w.wt1 = w.wt.Update(ci)
	w.wt2 = w.sig.Update(w.wt1)
	return w.wt1, w.wt2
}

// Values returns the current (wt1, wt2) without updating.
func (w *WaveTrend) Values() (wt1, wt2 float64) { return w.wt1, w.wt2 }

// Ready reports whether every smoothing stage has warmed up.
func (w *WaveTrend) Ready() bool {
	return w.esa.Ready() && w.wt.Ready() && w.sig.Ready()
}

// Reset clears the WaveTrend state for reuse.
func (w *WaveTrend) Reset() {
	w.esa.Reset()
	w.dev.Reset()
	w.wt.Reset()
	w.sig.Reset()
	w.wt1, w.wt2 = 0, 0
}

// Snapshot serializes the WaveTrend state for checkpoint persistence.
func (w *WaveTrend) Snapshot() Snapshot {
	return Snapshot{
		Kind:    KindWaveTrend.String(),
		Period:  w.n1,
		Period2: w.n2,
		Values:  []float64{w.wt1, w.wt2},
		Subs: []Snapshot{
			w.esa.Snapshot(),
			w.dev.Snapshot(),
			w.wt.Snapshot(),
			w.sig.Snapshot(),
		},
	}
}

// Restore replaces the WaveTrend state from a checkpoint.
func (w *WaveTrend) Restore(snap Snapshot) error {
	if err := snap.expect(KindWaveTrend); err != nil {
		return err
	}
	if len(snap.Subs) != 4 || len(snap.Values) != 2 {
		return errBadSnapshot(KindWaveTrend, "want 4 sub-states and 2 values")
	}
	if err := w.esa.Restore(snap.Subs[0]); err != nil {
		return err
	}
	if err := w.dev.Restore(snap.Subs[1]); err != nil {
		return err
	}
	if err := w.wt.Restore(snap.Subs[2]); err != nil {
		return err
	}
	if err := w.sig.Restore(snap.Subs[3]); err != nil {
		return err
	}
	w.n1 = snap.Period
	w.n2 = snap.Period2
	w.wt1, w.wt2 = snap.Values[0], snap.Values[1]
	return nil
}
