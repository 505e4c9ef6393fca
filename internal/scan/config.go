package scan

import (
	"log"
	"time"

	"regime-scannerv1/config"
)

// Default volatility ATR lengths, used when the configured pair is unusable.
const (
	defaultVolatilityMinLen = 1
	defaultVolatilityMaxLen = 10
)

// Config holds everything the scan service needs, derived from the
// process environment.
type Config struct {
	Service string // snapshot namespace, e.g. "scanengine"

	Symbols []string
	TFs     []int

	// Regime filter
	RegimeEnabled   bool
	RegimeThreshold float64

	// Volatility filter
	VolatilityEnabled bool
	VolatilityMinLen  int
	VolatilityMaxLen  int

	// ADX filter
	ADXEnabled   bool
	ADXLength    int
	ADXThreshold float64

	// Infrastructure
	RedisAddr     string
	RedisPassword string
	SQLitePath    string
	MetricsAddr   string
	BarWSURL      string

	SnapshotInterval time.Duration
}

// FromEnv builds a scan Config from the loaded application config.
// The volatility gate compares a short ATR against a long one, so the
// configured lengths must satisfy min < max; a degenerate pair would make
// both lookups resolve to one shared instance.
func FromEnv(app *config.Config) Config {
	volMin, volMax := app.VolatilityMinLen, app.VolatilityMaxLen
	if volMin >= volMax {
		log.Printf("[config] invalid volatility lengths min=%d max=%d (need min < max), using %d/%d",
			volMin, volMax, defaultVolatilityMinLen, defaultVolatilityMaxLen)
		volMin, volMax = defaultVolatilityMinLen, defaultVolatilityMaxLen
	}

	return Config{
		Service: "scanengine",

		Symbols: app.ParseSymbols(),
		TFs:     app.ParseTFs(),

		RegimeEnabled:   app.RegimeEnabled,
		RegimeThreshold: app.RegimeThreshold,

		VolatilityEnabled: app.VolatilityEnabled,
		VolatilityMinLen:  volMin,
		VolatilityMaxLen:  volMax,

		ADXEnabled:   app.ADXEnabled,
		ADXLength:    app.ADXLength,
		ADXThreshold: app.ADXThreshold,

		RedisAddr:     app.RedisAddr,
		RedisPassword: app.RedisPassword,
		SQLitePath:    app.SQLitePath,
		MetricsAddr:   app.MetricsAddr,
		BarWSURL:      app.BarWSURL,

		SnapshotInterval: time.Duration(app.SnapshotInterval) * time.Second,
	}
}
