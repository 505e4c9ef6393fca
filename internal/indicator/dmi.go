package indicator

import "math"

// DMI calculates the Directional Movement Index: Wilder-smoothed True Range
// and +DM/-DM streams produce DI+ and DI-, their normalized spread (DX) is
// smoothed again into the ADX. The first bar has no previous bar, so its
// directional deltas are 0 and its TR is high-low.
//
// Division guards: a zero smoothed TR yields DI+ = DI- = 0, and a zero
// DI+ + DI- sum yields DX = 0.
type DMI struct {
	diLength  int
	adxLength int

	trSmooth    RMA
	plusSmooth  RMA
	minusSmooth RMA
	adxSmooth   RMA

	prevHigh  float64
	prevLow   float64
	prevClose float64
	count     int

	diPlus  float64
	diMinus float64
	adx     float64
}

// NewDMI creates a new DMI/ADX indicator. diLength smooths TR and the
// directional movement streams; adxLength smooths the DX stream.
func NewDMI(diLength, adxLength int) *DMI {
	return &DMI{
		diLength:    diLength,
		adxLength:   adxLength,
		trSmooth:    RMA{period: diLength},
		plusSmooth:  RMA{period: diLength},
		minusSmooth: RMA{period: diLength},
		adxSmooth:   RMA{period: adxLength},
	}
}

func (d *DMI) Kind() Kind     { return KindDMI }
func (d *DMI) DILength() int  { return d.diLength }
func (d *DMI) ADXLength() int { return d.adxLength }

// Update feeds the next bar and returns (DI+, DI-, ADX).
func (d *DMI) Update(high, low, close float64) (diPlus, diMinus, adx float64) {
	tr := high - low
	plusDM, minusDM := 0.0, 0.0
	if d.count > 0 {
		tr = math.Max(tr, math.Max(math.Abs(high-d.prevClose), math.Abs(low-d.prevClose)))
		up := high - d.prevHigh
		down := d.prevLow - low
		if up > down && up > 0 {
			plusDM = up
		}
		if down > up && down > 0 {
			minusDM = down
		}
	}
	d.count++
	d.prevHigh, d.prevLow, d.prevClose = high, low, close

	str := d.trSmooth.Update(tr)
	sp := d.plusSmooth.Update(plusDM)
	sm := d.minusSmooth.Update(minusDM)

	if str == 0 {
		d.diPlus, d.diMinus = 0, 0
	} else {
		d.diPlus = sp / str * 100.0
		d.diMinus = sm / str * 100.0
	}

	dx := 0.0
	if sum := d.diPlus + d.diMinus; sum != 0 {
		dx = math.Abs(d.diPlus-d.diMinus) / sum * 100.0
	}
	d.adx = d.adxSmooth.Update(dx)

	return d.diPlus, d.diMinus, d.adx
}

// Values returns the current (DI+, DI-, ADX) without updating.
func (d *DMI) Values() (diPlus, diMinus, adx float64) {
	return d.diPlus, d.diMinus, d.adx
}

// ADX returns the current ADX without updating.
func (d *DMI) ADX() float64 { return d.adx }

// Ready reports whether both smoothing stages have completed their seeds.
func (d *DMI) Ready() bool {
	return d.count >= d.diLength+d.adxLength
}

// Reset clears the DMI state for reuse.
func (d *DMI) Reset() {
	d.trSmooth.Reset()
	d.plusSmooth.Reset()
	d.minusSmooth.Reset()
	d.adxSmooth.Reset()
	d.prevHigh, d.prevLow, d.prevClose = 0, 0, 0
	d.count = 0
	d.diPlus, d.diMinus, d.adx = 0, 0, 0
}

// Snapshot serializes the DMI state for checkpoint persistence.
func (d *DMI) Snapshot() Snapshot {
	return Snapshot{
		Kind:      KindDMI.String(),
		Period:    d.diLength,
		Period2:   d.adxLength,
		Count:     d.count,
		PrevHigh:  d.prevHigh,
		PrevLow:   d.prevLow,
		PrevClose: d.prevClose,
		Values:    []float64{d.diPlus, d.diMinus, d.adx},
		Subs: []Snapshot{
			d.trSmooth.Snapshot(),
			d.plusSmooth.Snapshot(),
			d.minusSmooth.Snapshot(),
			d.adxSmooth.Snapshot(),
		},
	}
}

// Restore replaces the DMI state from a checkpoint.
func (d *DMI) Restore(snap Snapshot) error {
	if err := snap.expect(KindDMI); err != nil {
		return err
	}
	if len(snap.Subs) != 4 || len(snap.Values) != 3 {
		return errBadSnapshot(KindDMI, "want 4 sub-states and 3 values")
	}
	for i, target := range []*RMA{&d.trSmooth, &d.plusSmooth, &d.minusSmooth, &d.adxSmooth} {
		if err := target.Restore(snap.Subs[i]); err != nil {
			return err
		}
	}
	d.diLength = snap.Period
	d.adxLength = snap.Period2
	d.count = snap.Count
	d.prevHigh = snap.PrevHigh
	d.prevLow = snap.PrevLow
	d.prevClose = snap.PrevClose
	d.diPlus, d.diMinus, d.adx = snap.Values[0], snap.Values[1], snap.Values[2]
	return nil
}
