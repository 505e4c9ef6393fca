package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Infrastructure
	RedisAddr     string
	RedisPassword string
	SQLitePath    string
	MetricsAddr   string

	// Bar feed
	BarWSURL string
	Symbols  string // comma-separated, e.g. "BTCUSDT,ETHUSDT"

	// Dynamic timeframes (comma-separated seconds, e.g. "60,300,900")
	EnabledTFs string

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

	// Snapshot cadence in seconds
	SnapshotInterval int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SQLitePath:    getEnv("SQLITE_PATH", "data/bars.db"),
		MetricsAddr:   getEnv("METRICS_ADDR", ":9090"),

		BarWSURL: getEnv("BAR_WS_URL", "ws://localhost:8081/bars"),
		Symbols:  getEnv("SYMBOLS", "BTCUSDT"),

		// Default TFs: 1m, 5m, 15m
		EnabledTFs: getEnv("ENABLED_TFS", "60,300,900"),

		RegimeEnabled:   getEnvBool("REGIME_ENABLED", true),
		RegimeThreshold: getEnvFloat("REGIME_THRESHOLD", -0.1),

		VolatilityEnabled: getEnvBool("VOLATILITY_ENABLED", true),
		VolatilityMinLen:  getEnvInt("VOLATILITY_MIN_LEN", 1),
		VolatilityMaxLen:  getEnvInt("VOLATILITY_MAX_LEN", 10),

		ADXEnabled:   getEnvBool("ADX_ENABLED", false),
		ADXLength:    getEnvInt("ADX_LENGTH", 14),
		ADXThreshold: getEnvFloat("ADX_THRESHOLD", 20),

		SnapshotInterval: getEnvInt("SNAPSHOT_INTERVAL", 30),
	}
}

// ParseTFs parses the EnabledTFs string into a slice of timeframe durations in seconds.
func (c *Config) ParseTFs() []int {
	parts := strings.Split(c.EnabledTFs, ",")
	tfs := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			log.Printf("[config] skipping invalid TF value: %q", p)
			continue
		}
		tfs = append(tfs, n)
	}
	return tfs
}

// ParseSymbols parses the Symbols string into a deduplicated slice.
func (c *Config) ParseSymbols() []string {
	parts := strings.Split(c.Symbols, ",")
	seen := make(map[string]bool, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid int for %s: %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[config] invalid float for %s: %q, using %g", key, v, fallback)
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] invalid bool for %s: %q, using %v", key, v, fallback)
		return fallback
	}
	return b
}
