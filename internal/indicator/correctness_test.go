package indicator

import (
	"math"
	"testing"
)

// assertClose fails when got deviates from want by more than tol.
func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > tol {
		t.Errorf("%s: got %.8f, want %.8f (tol %g)", label, got, want, tol)
	}
}

// EMA(3): alpha = 2/(3+1) = 0.5. The first update seeds the value with the
// input itself, then value = alpha*price + (1-alpha)*value.
//
//	feed 10 -> 10
//	feed 11 -> 0.5*11 + 0.5*10    = 10.5
//	feed 12 -> 0.5*12 + 0.5*10.5  = 11.25
//	feed 13 -> 0.5*13 + 0.5*11.25 = 12.125
func TestEMA_HandComputed(t *testing.T) {
	e := NewEMA(3)
	want := []float64{10, 10.5, 11.25, 12.125}
	for i, price := range []float64{10, 11, 12, 13} {
		got := e.Update(price)
		assertClose(t, "ema step", got, want[i], 1e-12)
	}
	if !e.Ready() {
		t.Error("EMA should be ready after 4 updates with period 3")
	}
}

func TestEMA_SeedsWithFirstInput(t *testing.T) {
	e := NewEMA(200)
	got := e.Update(42.5)
	if got != 42.5 {
		t.Fatalf("first update must seed to input: got %v", got)
	}
}

func TestEMA_ConstantSeriesStaysConstant(t *testing.T) {
	e := NewEMA(5)
	for i := 0; i < 50; i++ {
		if got := e.Update(7.0); got != 7.0 {
			t.Fatalf("update %d: constant input drifted to %v", i, got)
		}
	}
}

// SMA(3) over [2, 4, 6, 8]: partial windows average what has arrived.
//
//	feed 2 -> 2/1       = 2
//	feed 4 -> (2+4)/2   = 3
//	feed 6 -> (2+4+6)/3 = 4
//	feed 8 -> (4+6+8)/3 = 6   (2 evicted)
func TestSMA_HandComputed(t *testing.T) {
	s := NewSMA(3)
	want := []float64{2, 3, 4, 6}
	for i, price := range []float64{2, 4, 6, 8} {
		got := s.Update(price)
		assertClose(t, "sma step", got, want[i], 1e-12)
	}
}

func TestSMA_ReadyAfterWindowFills(t *testing.T) {
	s := NewSMA(3)
	s.Update(1)
	s.Update(2)
	if s.Ready() {
		t.Error("ready before window filled")
	}
	s.Update(3)
	if !s.Ready() {
		t.Error("not ready after window filled")
	}
}

// RMA(3) over [3, 6, 9, 12]: partial average until the seed completes,
// then Wilder recurrence value = (value*(p-1) + input) / p.
//
//	feed 3  -> 3/1           = 3
//	feed 6  -> (3+6)/2       = 4.5
//	feed 9  -> (3+6+9)/3     = 6      (seed complete)
//	feed 12 -> (6*2 + 12)/3  = 8
func TestRMA_HandComputed(t *testing.T) {
	r := NewRMA(3)
	want := []float64{3, 4.5, 6, 8}
	for i, price := range []float64{3, 6, 9, 12} {
		got := r.Update(price)
		assertClose(t, "rma step", got, want[i], 1e-12)
	}
}

func TestRMA_ReadyAfterSeed(t *testing.T) {
	r := NewRMA(3)
	r.Update(1)
	r.Update(2)
	if r.Ready() {
		t.Error("ready before seed completed")
	}
	r.Update(3)
	if !r.Ready() {
		t.Error("not ready after seed completed")
	}
}

// Stdev(3) over [2, 4, 6, 8], population deviation against the window SMA.
//
//	feed 2 -> single sample              = 0
//	feed 4 -> mean 3, sqrt((1+1)/2)      = 1
//	feed 6 -> mean 4, sqrt((4+0+4)/3)    = 1.63299316
//	feed 8 -> window [4,6,8], mean 6     = 1.63299316 again
func TestStdev_HandComputed(t *testing.T) {
	s := NewStdev(3)
	want := []float64{0, 1, math.Sqrt(8.0 / 3.0), math.Sqrt(8.0 / 3.0)}
	for i, price := range []float64{2, 4, 6, 8} {
		got := s.Update(price)
		assertClose(t, "stdev step", got, want[i], 1e-12)
	}
}

func TestStdev_ConstantSeriesIsZero(t *testing.T) {
	s := NewStdev(5)
	for i := 0; i < 20; i++ {
		if got := s.Update(100.0); got != 0 {
			t.Fatalf("update %d: constant series has deviation %v", i, got)
		}
	}
}

func TestReset_ClearsState(t *testing.T) {
	e := NewEMA(3)
	e.Update(50)
	e.Update(60)
	e.Reset()
	if e.Value() != 0 || e.Ready() {
		t.Error("EMA reset incomplete")
	}
	// Fresh behaviour after reset: first update seeds again.
	if got := e.Update(10); got != 10 {
		t.Errorf("post-reset seed: got %v, want 10", got)
	}

	s := NewSMA(3)
	s.Update(5)
	s.Update(7)
	s.Reset()
	if got := s.Update(4); got != 4 {
		t.Errorf("post-reset sma: got %v, want 4", got)
	}
}
