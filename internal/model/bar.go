package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// Bar is one finished OHLCV sample for a single symbol and timeframe.
// Bars are immutable once ingested: the engine consumes each bar exactly
// once per indicator instance, strictly in Seq order.
type Bar struct {
	Symbol string    `json:"symbol"`
	TF     int       `json:"tf"`     // timeframe in seconds
	Seq    int64     `json:"seq"`    // monotonically increasing per (symbol, tf)
	TS     time.Time `json:"ts"`     // bucket start time (UTC)
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"` // 0 when the feed omits volume
}

// Key returns "symbol:tf", the stream identity used by the registry and stores.
func (b *Bar) Key() string {
	return b.Symbol + ":" + strconv.Itoa(b.TF)
}

// JSON returns the JSON-encoded bar (ignoring errors for hot-path usage).
func (b *Bar) JSON() []byte {
	out, _ := json.Marshal(b)
	return out
}

// RawBar is the wire form of a bar as received from the feed. Price fields
// are pointers so an absent field is distinguishable from zero; the
// sanitizer turns a RawBar into a Bar or refuses it.
type RawBar struct {
	Symbol string   `json:"symbol"`
	TF     int      `json:"tf"`
	Seq    int64    `json:"seq"`
	TS     int64    `json:"ts"` // unix seconds
	Open   *float64 `json:"open"`
	High   *float64 `json:"high"`
	Low    *float64 `json:"low"`
	Close  *float64 `json:"close"`
	Volume *float64 `json:"volume,omitempty"`
}
