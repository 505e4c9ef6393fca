package model

import "testing"

func TestStreamKeys(t *testing.T) {
	f := FeatureResult{Name: "n_rsi_14", Symbol: "BTCUSDT", TF: 60}
	if got := f.StreamKey(); got != "feat:n_rsi_14:60s:BTCUSDT" {
		t.Errorf("feature stream key: got %q", got)
	}

	g := GateReport{Symbol: "ETHUSDT", TF: 300}
	if got := g.StreamKey(); got != "gate:300s:ETHUSDT" {
		t.Errorf("gate stream key: got %q", got)
	}

	b := Bar{Symbol: "BTCUSDT", TF: 60}
	if got := b.Key(); got != "BTCUSDT:60" {
		t.Errorf("bar key: got %q", got)
	}
}

func TestGateReport_AllPass(t *testing.T) {
	g := GateReport{Regime: true, Volatility: true, ADX: true}
	if !g.AllPass() {
		t.Error("all gates true should pass")
	}
	g.Volatility = false
	if g.AllPass() {
		t.Error("one failed gate should not pass")
	}
}
