// Package scan is the thin driver around the indicator engine: it consumes
// bars from the feed, sanitizes them, routes them through the registry and
// gates, normalizes outputs, and publishes feature results.
package scan

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"regime-scannerv1/internal/barsource"
	"regime-scannerv1/internal/metrics"
	"regime-scannerv1/internal/model"
	"regime-scannerv1/internal/ringbuf"
	"regime-scannerv1/internal/sanitize"
	redisstore "regime-scannerv1/internal/store/redis"
	sqlitestore "regime-scannerv1/internal/store/sqlite"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service is the top-level orchestrator for the scan engine. It wires all
// dependencies, manages lifecycle, and coordinates goroutines. The engine
// itself is driven by exactly one goroutine (processLoop); the registry's
// creation lock covers any future multi-driver deployment.
type Service struct {
	cfg Config

	engine      *Engine
	ring        *ringbuf.Ring
	source      *barsource.Source
	redisWriter *redisstore.Writer
	redisReader *redisstore.Reader
	sqlReader   *sqlitestore.Reader
	sqlWriter   *sqlitestore.Writer
	prom        *metrics.Metrics
}

// New creates a Service from the given Config. Redis and SQLite are
// optional: a failed connection logs a warning and the service runs
// without persistence rather than refusing to start.
func New(cfg Config) *Service {
	svc := &Service{
		cfg:  cfg,
		ring: ringbuf.New(4096),
		prom: metrics.New(),
	}

	var err error
	svc.redisWriter, err = redisstore.New(redisstore.WriterConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Printf("[scan] WARNING: redis writer init failed: %v (continuing without publishing)", err)
	}
	svc.redisReader, err = redisstore.NewReader(redisstore.ReaderConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Printf("[scan] WARNING: redis reader init failed: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
		log.Printf("[scan] WARNING: sqlite dir create failed for %s: %v", cfg.SQLitePath, err)
	}
	svc.sqlWriter, err = sqlitestore.New(sqlitestore.WriterConfig{DBPath: cfg.SQLitePath})
	if err != nil {
		log.Printf("[scan] WARNING: sqlite writer init failed: %v", err)
	}
	svc.sqlReader, err = sqlitestore.NewReader(cfg.SQLitePath)
	if err != nil {
		log.Printf("[scan] WARNING: sqlite reader init failed: %v (continuing without backfill)", err)
	}

	svc.source = barsource.New(barsource.Config{
		URL:     cfg.BarWSURL,
		Symbols: cfg.Symbols,
		TFs:     cfg.TFs,
	})
	svc.source.OnReconnect = func() { svc.prom.WSReconnects.Inc() }

	return svc
}

// Run starts all subsystems and blocks until ctx is cancelled.
func (svc *Service) Run(ctx context.Context) error {
	log.Printf("[scan] starting scan engine: %d symbols, TFs=%v", len(svc.cfg.Symbols), svc.cfg.TFs)

	svc.engine = NewRestorer(svc.cfg).Restore(ctx, svc.redisReader, svc.sqlReader)

	go svc.source.Run(ctx, svc.ring)
	go svc.snapshotLoop(ctx)
	go svc.serveHTTP(ctx)

	svc.processLoop(ctx)

	// Final checkpoint on shutdown.
	svc.saveSnapshot(context.Background())
	log.Println("[scan] stopped")
	return nil
}

// processLoop drains the ring buffer in batches and feeds the engine one
// bar at a time, strictly in arrival order.
func (svc *Service) processLoop(ctx context.Context) {
	idle := time.NewTicker(time.Millisecond)
	defer idle.Stop()

	batch := make([]model.RawBar, 256)
	for {
		n := svc.ring.PopN(batch)
		if n == 0 {
			select {
			case <-ctx.Done():
				return
			case <-idle.C:
			}
			continue
		}
		for _, raw := range batch[:n] {
			if !svc.configured(raw) {
				continue
			}
			svc.processBar(ctx, raw)
		}
	}
}

func (svc *Service) processBar(ctx context.Context, raw model.RawBar) {
	bar, err := sanitize.Sanitize(raw)
	if err != nil {
		svc.prom.InvalidBars.WithLabelValues(refusalReason(err)).Inc()
		log.Printf("[scan] skipping bar %s seq=%d: %v", raw.Symbol, raw.Seq, err)
		return
	}

	start := time.Now()
	features, gates := svc.engine.ProcessBar(bar)
	svc.prom.ComputeDur.Observe(time.Since(start).Seconds())
	svc.prom.BarsTotal.Inc()
	svc.prom.ObserveGate("regime", gates.Regime)
	svc.prom.ObserveGate("volatility", gates.Volatility)
	svc.prom.ObserveGate("adx", gates.ADX)

	if svc.sqlWriter != nil {
		if err := svc.sqlWriter.WriteBar(bar); err != nil {
			log.Printf("[scan] bar persist failed: %v", err)
		}
	}

	if svc.redisWriter != nil {
		wstart := time.Now()
		for _, f := range features {
			svc.redisWriter.WriteFeature(ctx, f)
		}
		svc.redisWriter.WriteGates(ctx, gates)
		svc.prom.RedisWriteDur.Observe(time.Since(wstart).Seconds())
	}
	svc.prom.FeaturesTotal.Add(float64(len(features)))
}

// configured reports whether a raw bar belongs to a stream this service scans.
func (svc *Service) configured(raw model.RawBar) bool {
	okTF := false
	for _, tf := range svc.cfg.TFs {
		if tf == raw.TF {
			okTF = true
			break
		}
	}
	if !okTF {
		return false
	}
	for _, s := range svc.cfg.Symbols {
		if s == raw.Symbol {
			return true
		}
	}
	return false
}

// snapshotLoop periodically checkpoints engine state and refreshes the
// registry-size gauges.
func (svc *Service) snapshotLoop(ctx context.Context) {
	interval := svc.cfg.SnapshotInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.saveSnapshot(ctx)

			stats := svc.engine.Registry().Stats()
			svc.prom.SetInstanceCounts(stats.Total, stats.ByKind)
			svc.prom.RingBufOverflow.Set(float64(svc.ring.Overflow()))
		}
	}
}

func (svc *Service) saveSnapshot(ctx context.Context) {
	if svc.engine == nil {
		return
	}
	start := time.Now()
	data, err := svc.engine.Snapshot().Marshal()
	if err != nil {
		log.Printf("[scan] snapshot marshal failed: %v", err)
		return
	}

	if svc.redisWriter != nil {
		if err := svc.redisWriter.SaveSnapshot(ctx, svc.cfg.Service, data); err != nil {
			log.Printf("[scan] redis snapshot save failed: %v", err)
		}
	}
	if svc.sqlWriter != nil {
		if err := svc.sqlWriter.WriteSnapshot(svc.cfg.Service, data); err != nil {
			log.Printf("[scan] sqlite snapshot save failed: %v", err)
		}
	}
	svc.prom.SnapshotDur.Observe(time.Since(start).Seconds())
}

// serveHTTP exposes /metrics and /healthz.
func (svc *Service) serveHTTP(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: svc.cfg.MetricsAddr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[scan] metrics listening on %s", svc.cfg.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[scan] metrics server: %v", err)
	}
}

// refusalReason maps a sanitizer error to its metrics label.
func refusalReason(err error) string {
	switch {
	case errors.Is(err, sanitize.ErrMissingData):
		return "missing_data"
	case errors.Is(err, sanitize.ErrInvalidNumeric):
		return "invalid_numeric"
	case errors.Is(err, sanitize.ErrInconsistentBar):
		return "inconsistent_bar"
	}
	return "unknown"
}
