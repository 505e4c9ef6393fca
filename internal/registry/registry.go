// Package registry creates, caches, resets, and clears streaming indicator
// instances keyed by (symbol, timeframe, kind, parameters). It is an
// explicitly constructed object passed to its consumers — never hidden
// package-level state — so concurrent scan contexts and tests stay
// isolated from each other.
package registry

import (
	"sync"

	"regime-scannerv1/internal/indicator"
)

// key uniquely identifies one logical indicator series within a
// (symbol, timeframe) stream. No two series share a key.
type key struct {
	kind indicator.Kind
	p1   int
	p2   int
}

// Registry maps symbol → timeframe → key → instance. Creation is lazy and
// memoized: identical keys always return the same instance, any differing
// component yields a distinct one.
//
// The lazy-creation path is the only shared-mutable-state hazard across
// concurrent stream drivers, so it is mutex-guarded. Once created, an
// instance is exclusively owned by its stream and must be updated at most
// once per bar, strictly in bar order.
type Registry struct {
	mu    sync.Mutex
	state map[string]map[int]map[key]indicator.Instance
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{state: make(map[string]map[int]map[key]indicator.Instance)}
}

// getOrCreate returns the memoized instance for k, creating it via mk on
// first request.
func (r *Registry) getOrCreate(symbol string, tf int, k key, mk func() indicator.Instance) indicator.Instance {
	r.mu.Lock()
	defer r.mu.Unlock()

	byTF, ok := r.state[symbol]
	if !ok {
		byTF = make(map[int]map[key]indicator.Instance)
		r.state[symbol] = byTF
	}
	byKey, ok := byTF[tf]
	if !ok {
		byKey = make(map[key]indicator.Instance)
		byTF[tf] = byKey
	}
	inst, ok := byKey[k]
	if !ok {
		inst = mk()
		byKey[k] = inst
	}
	return inst
}

// GetOrCreateEMA returns the EMA(period) instance for (symbol, tf).
func (r *Registry) GetOrCreateEMA(symbol string, tf, period int) *indicator.EMA {
	inst := r.getOrCreate(symbol, tf, key{indicator.KindEMA, period, 0},
		func() indicator.Instance { return indicator.NewEMA(period) })
	return inst.(*indicator.EMA)
}

// GetOrCreateSMA returns the SMA(period) instance for (symbol, tf).
func (r *Registry) GetOrCreateSMA(symbol string, tf, period int) *indicator.SMA {
	inst := r.getOrCreate(symbol, tf, key{indicator.KindSMA, period, 0},
		func() indicator.Instance { return indicator.NewSMA(period) })
	return inst.(*indicator.SMA)
}

// GetOrCreateRMA returns the RMA(period) instance for (symbol, tf).
func (r *Registry) GetOrCreateRMA(symbol string, tf, period int) *indicator.RMA {
	inst := r.getOrCreate(symbol, tf, key{indicator.KindRMA, period, 0},
		func() indicator.Instance { return indicator.NewRMA(period) })
	return inst.(*indicator.RMA)
}

// GetOrCreateStdev returns the Stdev(period) instance for (symbol, tf).
func (r *Registry) GetOrCreateStdev(symbol string, tf, period int) *indicator.Stdev {
	inst := r.getOrCreate(symbol, tf, key{indicator.KindStdev, period, 0},
		func() indicator.Instance { return indicator.NewStdev(period) })
	return inst.(*indicator.Stdev)
}

// GetOrCreateATR returns the ATR(period) instance for (symbol, tf).
func (r *Registry) GetOrCreateATR(symbol string, tf, period int) *indicator.ATR {
	inst := r.getOrCreate(symbol, tf, key{indicator.KindATR, period, 0},
		func() indicator.Instance { return indicator.NewATR(period) })
	return inst.(*indicator.ATR)
}

// GetOrCreateRSI returns the RSI(period) instance for (symbol, tf).
func (r *Registry) GetOrCreateRSI(symbol string, tf, period int) *indicator.RSI {
	inst := r.getOrCreate(symbol, tf, key{indicator.KindRSI, period, 0},
		func() indicator.Instance { return indicator.NewRSI(period) })
	return inst.(*indicator.RSI)
}

// GetOrCreateCCI returns the CCI(period) instance for (symbol, tf).
func (r *Registry) GetOrCreateCCI(symbol string, tf, period int) *indicator.CCI {
	inst := r.getOrCreate(symbol, tf, key{indicator.KindCCI, period, 0},
		func() indicator.Instance { return indicator.NewCCI(period) })
	return inst.(*indicator.CCI)
}

// GetOrCreateDMI returns the DMI(diLength, adxLength) instance for (symbol, tf).
func (r *Registry) GetOrCreateDMI(symbol string, tf, diLength, adxLength int) *indicator.DMI {
	inst := r.getOrCreate(symbol, tf, key{indicator.KindDMI, diLength, adxLength},
		func() indicator.Instance { return indicator.NewDMI(diLength, adxLength) })
	return inst.(*indicator.DMI)
}

// GetOrCreateWaveTrend returns the WaveTrend(n1, n2) instance for (symbol, tf).
func (r *Registry) GetOrCreateWaveTrend(symbol string, tf, n1, n2 int) *indicator.WaveTrend {
	inst := r.getOrCreate(symbol, tf, key{indicator.KindWaveTrend, n1, n2},
		func() indicator.Instance { return indicator.NewWaveTrend(n1, n2) })
	return inst.(*indicator.WaveTrend)
}

// ResetSymbol reinitializes every instance of a symbol in place, across all
// timeframes, without deallocating.
func (r *Registry) ResetSymbol(symbol string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, byKey := range r.state[symbol] {
		for _, inst := range byKey {
			inst.Reset()
		}
	}
}

// ResetAll reinitializes every instance in place.
func (r *Registry) ResetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, byTF := range r.state {
		for _, byKey := range byTF {
			for _, inst := range byKey {
				inst.Reset()
			}
		}
	}
}

// ClearSymbol deallocates every instance of a symbol. The next
// GetOrCreate* for that symbol builds fresh instances, independent of any
// prior history. Callers clear symbols no longer scanned to bound memory.
func (r *Registry) ClearSymbol(symbol string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.state, symbol)
}

// ClearAll deallocates everything.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = make(map[string]map[int]map[key]indicator.Instance)
}

// Stats summarizes instance counts for memory accounting in long-running
// multi-symbol scans.
type Stats struct {
	Total    int            `json:"total"`
	BySymbol map[string]int `json:"by_symbol"`
	ByKind   map[string]int `json:"by_kind"`
}

// Stats counts live instances by symbol and by kind.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Stats{
		BySymbol: make(map[string]int),
		ByKind:   make(map[string]int),
	}
	for symbol, byTF := range r.state {
		for _, byKey := range byTF {
			for k := range byKey {
				s.Total++
				s.BySymbol[symbol]++
				s.ByKind[k.kind.String()]++
			}
		}
	}
	return s
}
