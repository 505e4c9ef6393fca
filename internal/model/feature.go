package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// FeatureResult holds one computed, normalized feature value for a symbol + TF.
type FeatureResult struct {
	Name   string    `json:"name"` // e.g. "n_rsi_14", "n_wt_10_11", "n_cci_20"
	Symbol string    `json:"symbol"`
	TF     int       `json:"tf"`
	Value  float64   `json:"value"`
	TS     time.Time `json:"ts"`    // bar timestamp that produced this value
	Ready  bool      `json:"ready"` // true once the indicator is fully warmed up
}

// StreamKey returns the Redis stream key: "feat:{name}:{tf}s:{symbol}".
func (f *FeatureResult) StreamKey() string {
	return "feat:" + f.Name + ":" + strconv.Itoa(f.TF) + "s:" + f.Symbol
}

// JSON returns the JSON-encoded feature result.
func (f *FeatureResult) JSON() []byte {
	out, _ := json.Marshal(f)
	return out
}

// GateReport carries the boolean regime/volatility/ADX verdicts for one bar.
type GateReport struct {
	Symbol     string    `json:"symbol"`
	TF         int       `json:"tf"`
	TS         time.Time `json:"ts"`
	Regime     bool      `json:"regime"`
	Volatility bool      `json:"volatility"`
	ADX        bool      `json:"adx"`
}

// AllPass reports whether every gate passed for this bar.
func (g *GateReport) AllPass() bool {
	return g.Regime && g.Volatility && g.ADX
}

// StreamKey returns the Redis stream key: "gate:{tf}s:{symbol}".
func (g *GateReport) StreamKey() string {
	return "gate:" + strconv.Itoa(g.TF) + "s:" + g.Symbol
}

// JSON returns the JSON-encoded gate report.
func (g *GateReport) JSON() []byte {
	out, _ := json.Marshal(g)
	return out
}
