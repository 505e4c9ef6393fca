package scan

import (
	"strconv"

	"regime-scannerv1/internal/filter"
	"regime-scannerv1/internal/indicator"
	"regime-scannerv1/internal/model"
	"regime-scannerv1/internal/norm"
	"regime-scannerv1/internal/registry"
)

// Default feature parameters. These are the classic oscillator settings the
// downstream classifier was tuned on.
const (
	rsiLongPeriod  = 14
	rsiShortPeriod = 9
	wtChannelLen   = 10
	wtAverageLen   = 11
	cciPeriod      = 20
	adxFeatureLen  = 20
)

// Engine turns one sanitized bar at a time into normalized feature values
// and gate verdicts. It owns the indicator registry, the per-stream regime
// filters, and the normalizer; bars must arrive at most once per
// (symbol, tf) sequence index, strictly in order.
type Engine struct {
	cfg     Config
	reg     *registry.Registry
	norm    *norm.Normalizer
	regimes map[string]*filter.Regime // keyed by "symbol:tf"
}

// NewEngine creates a cold engine for the given configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:     cfg,
		reg:     registry.New(),
		norm:    norm.New(),
		regimes: make(map[string]*filter.Regime),
	}
}

// Registry exposes the engine's registry for stats and tests.
func (e *Engine) Registry() *registry.Registry { return e.reg }

// regimeFor lazily creates the per-stream regime filter.
func (e *Engine) regimeFor(key string) *filter.Regime {
	r, ok := e.regimes[key]
	if !ok {
		r = filter.NewRegime(e.cfg.RegimeThreshold)
		e.regimes[key] = r
	}
	return r
}

// ProcessBar feeds one bar through the full per-stream pipeline: indicator
// updates, gate evaluation, and feature normalization. Every indicator
// instance involved is updated exactly once.
func (e *Engine) ProcessBar(b model.Bar) ([]model.FeatureResult, model.GateReport) {
	key := b.Key()

	// Gates first: each owns its instances, fed this bar exactly once.
	// A disabled gate passes without its instances ever being created.
	gates := model.GateReport{Symbol: b.Symbol, TF: b.TF, TS: b.TS}
	gates.Regime = true
	if e.cfg.RegimeEnabled {
		gates.Regime = e.regimeFor(key).Update(b.High, b.Low, b.Close, true)
	}

	gates.Volatility = true
	if e.cfg.VolatilityEnabled {
		recent := e.reg.GetOrCreateATR(b.Symbol, b.TF, e.cfg.VolatilityMinLen)
		historical := e.reg.GetOrCreateATR(b.Symbol, b.TF, e.cfg.VolatilityMaxLen)
		if recent == historical {
			// Equal lengths share one registry instance. Feed it once; a
			// series can never exceed itself, so the gate refuses.
			recent.Update(b.High, b.Low, b.Close)
			gates.Volatility = false
		} else {
			gates.Volatility = filter.Volatility(recent, historical, b.High, b.Low, b.Close, true)
		}
	}

	gates.ADX = true
	var gateDMI *indicator.DMI
	if e.cfg.ADXEnabled {
		gateDMI = e.reg.GetOrCreateDMI(b.Symbol, b.TF, e.cfg.ADXLength, e.cfg.ADXLength)
		gates.ADX = filter.ADX(gateDMI, b.High, b.Low, b.Close, e.cfg.ADXThreshold, true)
	}

	// Feature oscillators.
	rsiLong := e.reg.GetOrCreateRSI(b.Symbol, b.TF, rsiLongPeriod)
	rsiShort := e.reg.GetOrCreateRSI(b.Symbol, b.TF, rsiShortPeriod)
	wt := e.reg.GetOrCreateWaveTrend(b.Symbol, b.TF, wtChannelLen, wtAverageLen)
	cci := e.reg.GetOrCreateCCI(b.Symbol, b.TF, cciPeriod)
	adxFeat := e.reg.GetOrCreateDMI(b.Symbol, b.TF, adxFeatureLen, adxFeatureLen)

	rsiL := rsiLong.Update(b.Close)
	rsiS := rsiShort.Update(b.Close)
	wt1, _ := wt.Update(b.High, b.Low, b.Close)
	cciV := cci.Update(b.High, b.Low, b.Close)

	// When the ADX gate is configured with the feature's length, both paths
	// resolve to the same registry instance; the gate already fed it this
	// bar, so reuse its output instead of updating twice.
	var adxV float64
	if adxFeat == gateDMI {
		_, _, adxV = adxFeat.Values()
	} else {
		_, _, adxV = adxFeat.Update(b.High, b.Low, b.Close)
	}

	features := []model.FeatureResult{
		e.feature(b, "n_rsi_14", norm.Rescale(rsiL, 0, 100, 0, 1), rsiLong.Ready()),
		e.feature(b, "n_rsi_9", norm.Rescale(rsiS, 0, 100, 0, 1), rsiShort.Ready()),
		e.feature(b, "n_wt_10_11", e.norm.Normalize(wt1, 0, 1, "wt_10_11:"+key), wt.Ready()),
		e.feature(b, "n_cci_20", e.norm.Normalize(cciV, 0, 1, "cci_20:"+key), cci.Ready()),
		e.feature(b, "n_adx_20", norm.Rescale(adxV, 0, 100, 0, 1), adxFeat.Ready()),
	}
	return features, gates
}

func (e *Engine) feature(b model.Bar, name string, value float64, ready bool) model.FeatureResult {
	return model.FeatureResult{
		Name:   name,
		Symbol: b.Symbol,
		TF:     b.TF,
		Value:  value,
		TS:     b.TS,
		Ready:  ready,
	}
}

// ClearSymbol drops every instance and bound belonging to a symbol no
// longer scanned, across all timeframes, to bound memory.
func (e *Engine) ClearSymbol(symbol string) {
	e.reg.ClearSymbol(symbol)
	for _, tf := range e.cfg.TFs {
		key := symbol + ":" + strconv.Itoa(tf)
		delete(e.regimes, key)
		e.norm.ResetSeries("wt_10_11:" + key)
		e.norm.ResetSeries("cci_20:" + key)
	}
}
