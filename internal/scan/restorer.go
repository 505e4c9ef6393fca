package scan

import (
	"context"
	"log"

	redisstore "regime-scannerv1/internal/store/redis"
	sqlitestore "regime-scannerv1/internal/store/sqlite"
)

// warmupBars is how much history the SQLite backfill replays per stream
// when no snapshot exists. It covers the slowest consumer: the regime
// filter's 200-period slope average plus its 50-sample floor.
const warmupBars = 300

// Restorer rebuilds engine state on startup. It follows a priority chain:
// Redis snapshot → SQLite snapshot → SQLite bar backfill → cold start.
type Restorer struct {
	cfg Config
}

// NewRestorer creates a Restorer for the given scan config.
func NewRestorer(cfg Config) *Restorer {
	return &Restorer{cfg: cfg}
}

// Restore returns a warmed engine. Every failure in the chain degrades to
// the next source; the worst case is a cold engine, never an error.
func (r *Restorer) Restore(ctx context.Context, redisReader *redisstore.Reader, sqlReader *sqlitestore.Reader) *Engine {
	engine := NewEngine(r.cfg)

	if snap := r.loadSnapshot(ctx, redisReader, sqlReader); snap != nil {
		engine.Restore(snap)
		return engine
	}

	if fed := r.backfill(engine, sqlReader); fed > 0 {
		log.Printf("[restorer] warmed engine from %d backfilled bars", fed)
		return engine
	}

	log.Println("[restorer] no snapshot or history found, cold starting")
	return engine
}

func (r *Restorer) loadSnapshot(ctx context.Context, redisReader *redisstore.Reader, sqlReader *sqlitestore.Reader) *EngineSnapshot {
	if redisReader != nil {
		data, err := redisReader.LoadSnapshot(ctx, r.cfg.Service)
		if err != nil {
			log.Printf("[restorer] redis snapshot load failed: %v", err)
		} else if data != nil {
			snap, err := UnmarshalSnapshot(data)
			if err != nil {
				log.Printf("[restorer] redis snapshot decode failed: %v", err)
			} else {
				log.Printf("[restorer] restoring from redis snapshot (version=%d, taken_at=%d)", snap.Version, snap.TakenAt)
				return snap
			}
		}
	}

	if sqlReader != nil {
		data, err := sqlReader.ReadLatestSnapshot(r.cfg.Service)
		if err != nil {
			log.Printf("[restorer] sqlite snapshot load failed: %v", err)
		} else if data != nil {
			snap, err := UnmarshalSnapshot(data)
			if err != nil {
				log.Printf("[restorer] sqlite snapshot decode failed: %v", err)
			} else {
				log.Printf("[restorer] restoring from sqlite snapshot (version=%d, taken_at=%d)", snap.Version, snap.TakenAt)
				return snap
			}
		}
	}

	return nil
}

// backfill replays recent bars from SQLite into the engine, discarding the
// computed outputs. Returns the number of bars fed.
func (r *Restorer) backfill(engine *Engine, sqlReader *sqlitestore.Reader) int {
	if sqlReader == nil {
		return 0
	}

	total := 0
	for _, symbol := range r.cfg.Symbols {
		for _, tf := range r.cfg.TFs {
			bars, err := sqlReader.ReadLastBars(symbol, tf, warmupBars)
			if err != nil {
				log.Printf("[restorer] backfill read %s tf=%d failed: %v", symbol, tf, err)
				continue
			}
			for _, b := range bars {
				engine.ProcessBar(b)
			}
			if len(bars) > 0 {
				log.Printf("[restorer] backfilled %d bars for %s tf=%d", len(bars), symbol, tf)
				total += len(bars)
			}
		}
	}
	return total
}
