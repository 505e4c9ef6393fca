package indicator

import "fmt"

// Snapshot holds the serialized accumulator state of a single indicator
// instance. One struct covers every kind; composite indicators nest the
// states of their internal smoothers under Subs.
type Snapshot struct {
	Kind    string `json:"kind"`
	Period  int    `json:"period"`
	Period2 int    `json:"period2,omitempty"` // second parameter (ADX length, WT average length)

	Value float64 `json:"value"`
	Count int     `json:"count"`
	Sum   float64 `json:"sum,omitempty"`

	// Rolling-window kinds
	Buf []float64 `json:"buf,omitempty"`
	Idx int       `json:"idx,omitempty"`

	// Previous-bar memory
	PrevClose float64 `json:"prev_close,omitempty"`
	PrevHigh  float64 `json:"prev_high,omitempty"`
	PrevLow   float64 `json:"prev_low,omitempty"`

	// Multi-output cache (DMI, WaveTrend)
	Values []float64 `json:"values,omitempty"`

	// Nested smoother states for composite kinds
	Subs []Snapshot `json:"subs,omitempty"`
}

// NewInstance constructs a fresh instance of the snapshot's kind with its
// recorded parameters. The kind set is closed; an unknown name is an error.
func NewInstance(snap Snapshot) (Instance, error) {
	kind, ok := KindFromString(snap.Kind)
	if !ok {
		return nil, fmt.Errorf("indicator: unknown snapshot kind %q", snap.Kind)
	}
	switch kind {
	case KindEMA:
		return NewEMA(snap.Period), nil
	case KindSMA:
		return NewSMA(snap.Period), nil
	case KindRMA:
		return NewRMA(snap.Period), nil
	case KindStdev:
		return NewStdev(snap.Period), nil
	case KindATR:
		return NewATR(snap.Period), nil
	case KindRSI:
		return NewRSI(snap.Period), nil
	case KindCCI:
		return NewCCI(snap.Period), nil
	case KindDMI:
		return NewDMI(snap.Period, snap.Period2), nil
	case KindWaveTrend:
		return NewWaveTrend(snap.Period, snap.Period2), nil
	}
	return nil, fmt.Errorf("indicator: unhandled kind %v", kind)
}

// expect verifies a snapshot is being restored into the right kind.
func (s Snapshot) expect(kind Kind) error {
	if s.Kind != kind.String() {
		return fmt.Errorf("indicator: restoring %s snapshot into %s", s.Kind, kind)
	}
	if s.Period <= 0 {
		return errBadSnapshot(kind, "non-positive period")
	}
	return nil
}

func errBadSnapshot(kind Kind, detail string) error {
	return fmt.Errorf("indicator: malformed %s snapshot: %s", kind, detail)
}
