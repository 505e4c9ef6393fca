// Package sanitize validates and repairs raw bars before they reach the
// indicator engine. It is the only place where bad input turns into an
// error — everything downstream degrades to neutral values instead.
package sanitize

import (
	"errors"
	"fmt"
	"math"
	"time"

	"regime-scannerv1/internal/model"
)

// The three refusal kinds. Callers use errors.Is to decide whether to skip
// the bar; the engine never guesses a price beyond the envelope repair.
var (
	ErrMissingData     = errors.New("missing required price field")
	ErrInvalidNumeric  = errors.New("price field is NaN or infinite")
	ErrInconsistentBar = errors.New("bar violates high/low envelope")
)

// Validate checks a fully-populated bar strictly: every price must be a
// finite number, high >= low, and high/low must enclose open and close.
// Volume, when present, must be non-negative. Unlike Sanitize it reports
// envelope violations instead of repairing them.
func Validate(open, high, low, close, volume float64) error {
	for _, p := range [4]float64{open, high, low, close} {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: o=%v h=%v l=%v c=%v", ErrInvalidNumeric, open, high, low, close)
		}
	}
	if math.IsNaN(volume) || math.IsInf(volume, 0) {
		return fmt.Errorf("%w: volume=%v", ErrInvalidNumeric, volume)
	}
	if volume < 0 {
		return fmt.Errorf("%w: negative volume %v", ErrInvalidNumeric, volume)
	}
	if high < low {
		return fmt.Errorf("%w: high %v < low %v", ErrInconsistentBar, high, low)
	}
	if high < open || high < close || low > open || low > close {
		return fmt.Errorf("%w: high/low outside open/close envelope (o=%v h=%v l=%v c=%v)",
			ErrInconsistentBar, open, high, low, close)
	}
	return nil
}

// Repair widens an inconsistent envelope so that high/low enclose every
// price of the bar. This is the documented repair path, not an error.
func Repair(open, high, low, close float64) (rh, rl float64) {
	rh = math.Max(open, math.Max(close, high))
	rl = math.Min(open, math.Min(close, low))
	return rh, rl
}

// Sanitize converts a wire bar into an engine bar. Missing price fields and
// non-finite values are refused; envelope violations (including high < low)
// are auto-repaired via Repair. A missing volume defaults to 0.
func Sanitize(raw model.RawBar) (model.Bar, error) {
	if raw.Open == nil || raw.High == nil || raw.Low == nil || raw.Close == nil {
		return model.Bar{}, fmt.Errorf("%w: %s seq=%d", ErrMissingData, raw.Symbol, raw.Seq)
	}
	open, high, low, close := *raw.Open, *raw.High, *raw.Low, *raw.Close

	for _, p := range [4]float64{open, high, low, close} {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return model.Bar{}, fmt.Errorf("%w: %s seq=%d", ErrInvalidNumeric, raw.Symbol, raw.Seq)
		}
	}

	volume := 0.0
	if raw.Volume != nil {
		volume = *raw.Volume
		if math.IsNaN(volume) || math.IsInf(volume, 0) || volume < 0 {
			return model.Bar{}, fmt.Errorf("%w: %s seq=%d volume=%v", ErrInvalidNumeric, raw.Symbol, raw.Seq, volume)
		}
	}

	high, low = Repair(open, high, low, close)

	return model.Bar{
		Symbol: raw.Symbol,
		TF:     raw.TF,
		Seq:    raw.Seq,
		TS:     time.Unix(raw.TS, 0).UTC(),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: volume,
	}, nil
}

// FilterInvalid strips NaN and infinite entries from a series, preserving
// order. Used by primitives that operate over a caller-supplied window.
func FilterInvalid(series []float64) []float64 {
	out := make([]float64, 0, len(series))
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}
