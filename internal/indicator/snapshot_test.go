package indicator

import (
	"encoding/json"
	"testing"
)

// Feed a prefix, snapshot, restore into a fresh instance, then feed an
// identical suffix into both and require bit-identical outputs. This is the
// property restarts depend on.

// restoreInstance builds a fresh instance from snap and loads its state.
func restoreInstance(t *testing.T, snap Snapshot) Instance {
	t.Helper()
	inst, err := NewInstance(snap)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if err := inst.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	return inst
}

var snapshotBars = [][3]float64{
	{102, 98, 100}, {105, 101, 104}, {104, 100, 101}, {107, 103, 106},
	{106, 102, 103}, {109, 105, 108}, {108, 104, 105}, {111, 107, 110},
	{110, 106, 107}, {113, 109, 112}, {112, 108, 109}, {115, 111, 114},
}

func TestSnapshot_PriceIndicators(t *testing.T) {
	prices := []float64{100, 104, 101, 106, 103, 108, 105, 110, 107, 112}

	cases := []struct {
		name   string
		make   func() Instance
		update func(Instance, float64) float64
	}{
		{"ema", func() Instance { return NewEMA(5) }, func(i Instance, p float64) float64 { return i.(*EMA).Update(p) }},
		{"sma", func() Instance { return NewSMA(5) }, func(i Instance, p float64) float64 { return i.(*SMA).Update(p) }},
		{"rma", func() Instance { return NewRMA(5) }, func(i Instance, p float64) float64 { return i.(*RMA).Update(p) }},
		{"stdev", func() Instance { return NewStdev(5) }, func(i Instance, p float64) float64 { return i.(*Stdev).Update(p) }},
		{"rsi", func() Instance { return NewRSI(5) }, func(i Instance, p float64) float64 { return i.(*RSI).Update(p) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orig := tc.make()
			for _, p := range prices[:6] {
				tc.update(orig, p)
			}

			restored := restoreInstance(t, orig.Snapshot())

			for _, p := range prices[6:] {
				a := tc.update(orig, p)
				b := tc.update(restored, p)
				if a != b {
					t.Fatalf("diverged after restore: %v vs %v", a, b)
				}
			}
		})
	}
}

func TestSnapshot_BarIndicators(t *testing.T) {
	t.Run("atr", func(t *testing.T) {
		orig := NewATR(5)
		for _, b := range snapshotBars[:7] {
			orig.Update(b[0], b[1], b[2])
		}
		restored := restoreInstance(t, orig.Snapshot()).(*ATR)
		for _, b := range snapshotBars[7:] {
			if a, r := orig.Update(b[0], b[1], b[2]), restored.Update(b[0], b[1], b[2]); a != r {
				t.Fatalf("diverged: %v vs %v", a, r)
			}
		}
	})

	t.Run("cci", func(t *testing.T) {
		orig := NewCCI(5)
		for _, b := range snapshotBars[:7] {
			orig.Update(b[0], b[1], b[2])
		}
		restored := restoreInstance(t, orig.Snapshot()).(*CCI)
		for _, b := range snapshotBars[7:] {
			if a, r := orig.Update(b[0], b[1], b[2]), restored.Update(b[0], b[1], b[2]); a != r {
				t.Fatalf("diverged: %v vs %v", a, r)
			}
		}
	})

	t.Run("dmi", func(t *testing.T) {
		orig := NewDMI(5, 5)
		for _, b := range snapshotBars[:7] {
			orig.Update(b[0], b[1], b[2])
		}
		restored := restoreInstance(t, orig.Snapshot()).(*DMI)
		for _, b := range snapshotBars[7:] {
			ap, am, ax := orig.Update(b[0], b[1], b[2])
			rp, rm, rx := restored.Update(b[0], b[1], b[2])
			if ap != rp || am != rm || ax != rx {
				t.Fatalf("diverged: (%v,%v,%v) vs (%v,%v,%v)", ap, am, ax, rp, rm, rx)
			}
		}
	})

	t.Run("wavetrend", func(t *testing.T) {
		orig := NewWaveTrend(5, 4)
		for _, b := range snapshotBars[:7] {
			orig.Update(b[0], b[1], b[2])
		}
		restored := restoreInstance(t, orig.Snapshot()).(*WaveTrend)
		for _, b := range snapshotBars[7:] {
			a1, a2 := orig.Update(b[0], b[1], b[2])
			r1, r2 := restored.Update(b[0], b[1], b[2])
			if a1 != r1 || a2 != r2 {
				t.Fatalf("diverged: (%v,%v) vs (%v,%v)", a1, a2, r1, r2)
			}
		}
	})
}

func TestSnapshot_SurvivesJSON(t *testing.T) {
	orig := NewRSI(5)
	for _, p := range []float64{100, 102, 101, 104, 103, 106} {
		orig.Update(p)
	}

	raw, err := json.Marshal(orig.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	restored := restoreInstance(t, snap).(*RSI)
	for _, p := range []float64{105, 108, 107} {
		if a, r := orig.Update(p), restored.Update(p); a != r {
			t.Fatalf("diverged after JSON roundtrip: %v vs %v", a, r)
		}
	}
}

func TestNewInstance_RejectsUnknownKind(t *testing.T) {
	if _, err := NewInstance(Snapshot{Kind: "macd", Period: 12}); err == nil {
		t.Fatal("unknown kind accepted")
	}
}

func TestRestore_RejectsKindMismatch(t *testing.T) {
	e := NewEMA(5)
	if err := e.Restore(Snapshot{Kind: KindSMA.String(), Period: 5}); err == nil {
		t.Fatal("kind mismatch accepted")
	}
}

func TestKindRoundTrip(t *testing.T) {
	kinds := []Kind{
		KindEMA, KindSMA, KindRMA, KindStdev, KindATR,
		KindRSI, KindCCI, KindDMI, KindWaveTrend,
	}
	for _, k := range kinds {
		got, ok := KindFromString(k.String())
		if !ok || got != k {
			t.Errorf("%v: round-trip gave (%v, %v)", k, got, ok)
		}
	}
	if _, ok := KindFromString("bogus"); ok {
		t.Error("bogus kind accepted")
	}
}
