package sanitize

import (
	"errors"
	"math"
	"testing"

	"regime-scannerv1/internal/model"
)

func fp(v float64) *float64 { return &v }

func rawBar(o, h, l, c float64) model.RawBar {
	return model.RawBar{
		Symbol: "BTCUSDT", TF: 60, Seq: 1, TS: 1700000000,
		Open: fp(o), High: fp(h), Low: fp(l), Close: fp(c),
	}
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(100, 105, 98, 102, 500); err != nil {
		t.Fatalf("valid bar refused: %v", err)
	}
	// Volume 0 is fine
	if err := Validate(100, 105, 98, 102, 0); err != nil {
		t.Fatalf("zero-volume bar refused: %v", err)
	}
}

func TestValidate_InvalidNumeric(t *testing.T) {
	cases := []struct {
		name          string
		o, h, l, c, v float64
	}{
		{"nan open", math.NaN(), 105, 98, 102, 0},
		{"inf high", 100, math.Inf(1), 98, 102, 0},
		{"nan volume", 100, 105, 98, 102, math.NaN()},
		{"negative volume", 100, 105, 98, 102, -1},
	}
	for _, tc := range cases {
		err := Validate(tc.o, tc.h, tc.l, tc.c, tc.v)
		if !errors.Is(err, ErrInvalidNumeric) {
			t.Errorf("%s: got %v, want ErrInvalidNumeric", tc.name, err)
		}
	}
}

func TestValidate_InconsistentBar(t *testing.T) {
	// high < low
	if err := Validate(100, 95, 98, 97, 0); !errors.Is(err, ErrInconsistentBar) {
		t.Errorf("high<low: got %v, want ErrInconsistentBar", err)
	}
	// close above high
	if err := Validate(100, 105, 98, 106, 0); !errors.Is(err, ErrInconsistentBar) {
		t.Errorf("close>high: got %v, want ErrInconsistentBar", err)
	}
	// open below low
	if err := Validate(97, 105, 98, 102, 0); !errors.Is(err, ErrInconsistentBar) {
		t.Errorf("open<low: got %v, want ErrInconsistentBar", err)
	}
}

func TestRepair_WidensEnvelope(t *testing.T) {
	// close 106 above high 105 → high becomes 106
	h, l := Repair(100, 105, 98, 106)
	if h != 106 || l != 98 {
		t.Fatalf("got (%v, %v), want (106, 98)", h, l)
	}
	// open 97 below low 98 → low becomes 97
	h, l = Repair(97, 105, 98, 102)
	if h != 105 || l != 97 {
		t.Fatalf("got (%v, %v), want (105, 97)", h, l)
	}
}

func TestSanitize_MissingField(t *testing.T) {
	raw := rawBar(100, 105, 98, 102)
	raw.High = nil
	if _, err := Sanitize(raw); !errors.Is(err, ErrMissingData) {
		t.Fatalf("got %v, want ErrMissingData", err)
	}
}

func TestSanitize_InvalidNumeric(t *testing.T) {
	raw := rawBar(100, 105, 98, math.NaN())
	if _, err := Sanitize(raw); !errors.Is(err, ErrInvalidNumeric) {
		t.Fatalf("got %v, want ErrInvalidNumeric", err)
	}
}

func TestSanitize_RepairsEnvelope(t *testing.T) {
	// high < low gets repaired, not refused
	bar, err := Sanitize(rawBar(100, 95, 98, 97))
	if err != nil {
		t.Fatalf("expected repair, got refusal: %v", err)
	}
	// Repair takes max/min over open, close and the reported bound:
	// high = max(100, 97, 95) = 100, low = min(100, 97, 98) = 97.
	if bar.High != 100 || bar.Low != 97 {
		t.Fatalf("got high=%v low=%v, want high=100 low=97", bar.High, bar.Low)
	}
}

func TestSanitize_DefaultsVolume(t *testing.T) {
	bar, err := Sanitize(rawBar(100, 105, 98, 102))
	if err != nil {
		t.Fatalf("unexpected refusal: %v", err)
	}
	if bar.Volume != 0 {
		t.Fatalf("missing volume should default to 0, got %v", bar.Volume)
	}
}

func TestFilterInvalid(t *testing.T) {
	in := []float64{1, math.NaN(), 2, math.Inf(1), 3, math.Inf(-1)}
	out := FilterInvalid(in)
	want := []float64{1, 2, 3}
	if len(out) != len(want) {
		t.Fatalf("got %d values, want %d", len(out), len(want))
	}
	for i, v := range want {
		if out[i] != v {
			t.Errorf("index %d: got %v, want %v", i, out[i], v)
		}
	}
}
