// Package filter provides the boolean trend/volatility gates that sit on
// top of the streaming indicators. Every gate short-circuits to pass when
// disabled, before touching any state, and every gate defaults to pass
// while its inputs are still warming up.
package filter

import (
	"math"

	"regime-scannerv1/internal/indicator"
)

const (
	// regimeWarmup is the slope-sample floor below which the regime filter
	// always passes. This permissive default matches the reference
	// platform's behavior and is deliberate policy.
	regimeWarmup = 50

	// slopeAvgPeriod smooths the absolute KLMF slope.
	slopeAvgPeriod = 200
)

// Regime is an adaptive trend/range classifier over raw price and range.
// It maintains two fast recursive smoothers (delta of price, bar range),
// derives an adaptive alpha from their ratio, and tracks the slope of the
// resulting adaptive moving filter (KLMF) against its own long exponential
// average. A market is "trending" when the slope's normalized decline is at
// or above the threshold.
type Regime struct {
	threshold float64

	value1 float64 // 0.2*Δprice + 0.8*value1
	value2 float64 // 0.1*(high-low) + 0.8*value2
	klmf   float64

	slopeAvg  indicator.EMA
	prevClose float64
	count     int // bars seen
	samples   int // slope samples accumulated
}

// NewRegime creates a regime filter with the given slope-decline threshold
// (the reference default is -0.1).
func NewRegime(threshold float64) *Regime {
	return &Regime{
		threshold: threshold,
		slopeAvg:  *indicator.NewEMA(slopeAvgPeriod),
	}
}

// Threshold returns the configured slope-decline threshold.
func (r *Regime) Threshold() float64 { return r.threshold }

// Update feeds the next bar and reports whether the market is trending.
// A disabled filter passes immediately without touching state. Fewer than
// 50 accumulated slope samples also default to pass.
func (r *Regime) Update(high, low, close float64, enabled bool) bool {
	if !enabled {
		return true
	}

	if r.count == 0 {
		// Seed bar: no delta yet, KLMF starts at the first price.
		r.count++
		r.prevClose = close
		r.klmf = close
		return true
	}
	r.count++

	r.value1 = 0.2*(close-r.prevClose) + 0.8*r.value1
	r.value2 = 0.1*(high-low) + 0.8*r.value2
	r.prevClose = close

	omega := 0.0
	if r.value2 != 0 {
		omega = math.Abs(r.value1 / r.value2)
	}
	alpha := (-omega*omega + math.Sqrt(omega*omega*omega*omega+16*omega*omega)) / 8

	prev := r.klmf
	r.klmf = alpha*close + (1-alpha)*prev

	slope := math.Abs(r.klmf - prev)
	avg := r.slopeAvg.Update(slope)
	r.samples++

	if r.samples < regimeWarmup {
		return true
	}

	decline := 0.0
	if avg != 0 {
		decline = (slope - avg) / avg
	}
	return decline >= r.threshold
}

// Samples returns the number of slope samples accumulated so far.
func (r *Regime) Samples() int { return r.samples }

// Reset reinitializes the filter in place.
func (r *Regime) Reset() {
	r.value1, r.value2, r.klmf = 0, 0, 0
	r.slopeAvg.Reset()
	r.prevClose = 0
	r.count = 0
	r.samples = 0
}

// RegimeSnapshot holds the serialized state of a regime filter instance.
type RegimeSnapshot struct {
	Threshold float64            `json:"threshold"`
	Value1    float64            `json:"value1"`
	Value2    float64            `json:"value2"`
	KLMF      float64            `json:"klmf"`
	PrevClose float64            `json:"prev_close"`
	Count     int                `json:"count"`
	Samples   int                `json:"samples"`
	SlopeAvg  indicator.Snapshot `json:"slope_avg"`
}

// Snapshot serializes the regime state for checkpoint persistence.
func (r *Regime) Snapshot() RegimeSnapshot {
	return RegimeSnapshot{
		Threshold: r.threshold,
		Value1:    r.value1,
		Value2:    r.value2,
		KLMF:      r.klmf,
		PrevClose: r.prevClose,
		Count:     r.count,
		Samples:   r.samples,
		SlopeAvg:  r.slopeAvg.Snapshot(),
	}
}

// Restore replaces the regime state from a checkpoint.
func (r *Regime) Restore(snap RegimeSnapshot) error {
	if err := r.slopeAvg.Restore(snap.SlopeAvg); err != nil {
		return err
	}
	r.threshold = snap.Threshold
	r.value1 = snap.Value1
	r.value2 = snap.Value2
	r.klmf = snap.KLMF
	r.prevClose = snap.PrevClose
	r.count = snap.Count
	r.samples = snap.Samples
	return nil
}
