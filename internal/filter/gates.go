package filter

import "regime-scannerv1/internal/indicator"

// Volatility passes when the recent ATR exceeds the historical ATR,
// i.e. volatility is expanding. Both ATRs are fed the same bar exactly
// once. A disabled gate passes immediately, before any state is touched,
// so nil instances are fine when enabled is false.
func Volatility(recent, historical *indicator.ATR, high, low, close float64, enabled bool) bool {
	if !enabled {
		return true
	}
	return recent.Update(high, low, close) > historical.Update(high, low, close)
}

// ADX passes when the ADX exceeds the threshold, i.e. the directional
// trend is strong enough. The DMI is fed the bar exactly once. A disabled
// gate passes immediately, before any state is touched.
func ADX(dmi *indicator.DMI, high, low, close, threshold float64, enabled bool) bool {
	if !enabled {
		return true
	}
	_, _, adx := dmi.Update(high, low, close)
	return adx > threshold
}
