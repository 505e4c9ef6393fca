// Package indicator provides streaming technical indicators over bar data.
//
// Every indicator is an owned-state value updated in place, O(1) amortized
// per bar, and never recomputes from full history. During warm-up each
// indicator returns its documented neutral value instead of failing;
// insufficient history is a degraded-output state, not an error.
package indicator

// Kind identifies one of the closed set of streaming indicator kinds.
// Dispatch over Kind is an exhaustive switch, never a string lookup.
type Kind uint8

const (
	KindEMA Kind = iota
	KindSMA
	KindRMA
	KindStdev
	KindATR
	KindRSI
	KindCCI
	KindDMI
	KindWaveTrend
)

// String returns the canonical short name used in snapshots and metrics.
func (k Kind) String() string {
	switch k {
	case KindEMA:
		return "EMA"
	case KindSMA:
		return "SMA"
	case KindRMA:
		return "RMA"
	case KindStdev:
		return "STDEV"
	case KindATR:
		return "ATR"
	case KindRSI:
		return "RSI"
	case KindCCI:
		return "CCI"
	case KindDMI:
		return "DMI"
	case KindWaveTrend:
		return "WT"
	}
	return "UNKNOWN"
}

// KindFromString maps a snapshot kind name back to its Kind.
func KindFromString(s string) (Kind, bool) {
	switch s {
	case "EMA":
		return KindEMA, true
	case "SMA":
		return KindSMA, true
	case "RMA":
		return KindRMA, true
	case "STDEV":
		return KindStdev, true
	case "ATR":
		return KindATR, true
	case "RSI":
		return KindRSI, true
	case "CCI":
		return KindCCI, true
	case "DMI":
		return KindDMI, true
	case "WT":
		return KindWaveTrend, true
	}
	return 0, false
}

// Instance is the registry-facing surface shared by every streaming
// indicator. Update methods are typed per concrete kind: callers obtain the
// concrete type from the registry and feed it directly.
type Instance interface {
	// Kind returns the indicator's kind tag.
	Kind() Kind

	// Reset reinitializes the indicator in place, as if freshly constructed.
	Reset()

	// Snapshot serializes the accumulator state for checkpoint persistence.
	Snapshot() Snapshot

	// Restore replaces the accumulator state from a checkpoint.
	Restore(snap Snapshot) error
}
