package filter

import (
	"math/rand"
	"testing"

	"regime-scannerv1/internal/indicator"
)

func TestRegime_PassesDuringWarmup(t *testing.T) {
	// Fewer than 50 accumulated slope samples must always pass, whatever
	// the bars look like. The seed bar yields no slope sample, so 50 bars
	// give 49 samples.
	r := NewRegime(-0.1)
	rng := rand.New(rand.NewSource(7))
	price := 100.0
	for i := 0; i < 50; i++ {
		price += rng.Float64()*4 - 2
		if !r.Update(price+1, price-1, price, true) {
			t.Fatalf("bar %d: refused during warm-up (%d samples)", i+1, r.Samples())
		}
	}
	if r.Samples() != 49 {
		t.Fatalf("samples: got %d, want 49", r.Samples())
	}
}

func TestRegime_DisabledPassesWithoutState(t *testing.T) {
	r := NewRegime(-0.1)
	for i := 0; i < 200; i++ {
		if !r.Update(101, 99, 100, false) {
			t.Fatal("disabled filter refused")
		}
	}
	// Disabled updates must not consume bars or samples.
	if r.Samples() != 0 {
		t.Fatalf("disabled updates accumulated %d samples", r.Samples())
	}
}

func TestRegime_TrendPassesRangeRefuses(t *testing.T) {
	// Warm up on a steady trend, then feed a long dead-flat stretch. The
	// KLMF slope collapses toward zero while its long average decays
	// slowly, so the normalized decline falls through the threshold.
	r := NewRegime(-0.1)
	price := 100.0
	var last bool
	for i := 0; i < 120; i++ {
		price += 1.0
		last = r.Update(price+0.5, price-0.5, price, true)
	}
	if !last {
		t.Fatal("steady trend refused after warm-up")
	}
	for i := 0; i < 200; i++ {
		last = r.Update(price+0.5, price-0.5, price, true)
	}
	if last {
		t.Fatal("dead-flat market still classified as trending")
	}
}

func TestRegime_SnapshotRestoreContinues(t *testing.T) {
	orig := NewRegime(-0.1)
	price := 100.0
	for i := 0; i < 80; i++ {
		price += float64(i%5) - 2
		orig.Update(price+1, price-1, price, true)
	}

	restored := NewRegime(0)
	if err := restored.Restore(orig.Snapshot()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Threshold() != -0.1 {
		t.Fatalf("threshold: got %v", restored.Threshold())
	}

	for i := 0; i < 60; i++ {
		price += float64(i%7) - 3
		a := orig.Update(price+1, price-1, price, true)
		b := restored.Update(price+1, price-1, price, true)
		if a != b {
			t.Fatalf("bar %d: diverged after restore (%v vs %v)", i+1, a, b)
		}
	}
}

func TestRegime_Reset(t *testing.T) {
	r := NewRegime(-0.1)
	for i := 0; i < 100; i++ {
		r.Update(101+float64(i), 99+float64(i), 100+float64(i), true)
	}
	r.Reset()
	if r.Samples() != 0 {
		t.Fatalf("samples after reset: %d", r.Samples())
	}
	if !r.Update(101, 99, 100, true) {
		t.Fatal("first bar after reset refused")
	}
}

func TestVolatility_DisabledIgnoresNilInstances(t *testing.T) {
	// enabled=false must return before any state access, so nil ATRs are
	// legal when the gate is switched off.
	if !Volatility(nil, nil, 105, 95, 100, false) {
		t.Fatal("disabled volatility gate refused")
	}
}

func TestVolatility_ExpandingRangePasses(t *testing.T) {
	recent := indicator.NewATR(1)
	historical := indicator.NewATR(10)
	// Establish a small baseline range so the historical average is low.
	for i := 0; i < 10; i++ {
		Volatility(recent, historical, 100.5, 99.5, 100, true)
	}
	// A sudden wide bar makes the short ATR jump past the long one.
	if !Volatility(recent, historical, 110, 90, 100, true) {
		t.Fatal("expanding volatility refused")
	}
	// Back to narrow bars: the short ATR falls below the long one.
	var pass bool
	for i := 0; i < 10; i++ {
		pass = Volatility(recent, historical, 100.1, 99.9, 100, true)
	}
	if pass {
		t.Fatal("contracting volatility passed")
	}
}

func TestVolatility_FeedsBothOncePerBar(t *testing.T) {
	recent := indicator.NewATR(3)
	historical := indicator.NewATR(5)
	Volatility(recent, historical, 102, 98, 100, true)
	Volatility(recent, historical, 103, 99, 101, true)
	// Both ATRs must have absorbed exactly the two bars.
	if recent.Value() == 0 || historical.Value() == 0 {
		t.Fatal("an ATR missed its update")
	}
	if recent.Value() != historical.Value() {
		// Two bars, both still in partial seed: identical inputs give
		// identical partial averages regardless of period.
		t.Fatalf("partial seeds differ: %v vs %v", recent.Value(), historical.Value())
	}
}

func TestADX_DisabledIgnoresNilInstance(t *testing.T) {
	if !ADX(nil, 105, 95, 100, 20, false) {
		t.Fatal("disabled ADX gate refused")
	}
}

func TestADX_ThresholdGate(t *testing.T) {
	dmi := indicator.NewDMI(14, 14)
	// Flat bars keep ADX at 0, below any positive threshold.
	var pass bool
	for i := 0; i < 30; i++ {
		pass = ADX(dmi, 100, 100, 100, 20, true)
	}
	if pass {
		t.Fatal("flat market passed the ADX gate")
	}
	// A long one-way trend drives ADX far above 20.
	for i := 0; i < 60; i++ {
		base := 100.0 + float64(i)*2
		pass = ADX(dmi, base+1, base-1, base, 20, true)
	}
	if !pass {
		t.Fatal("strong trend refused by the ADX gate")
	}
}
