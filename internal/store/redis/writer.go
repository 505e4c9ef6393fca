// Package redis persists engine snapshots and publishes computed feature
// and gate results to Redis streams.
package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"regime-scannerv1/internal/model"

	goredis "github.com/go-redis/redis/v8"
)

const (
	// Stream trimming: bounded history per feature stream
	streamMaxLen     = 10000
	defaultLatestTTL = 30 * time.Minute
)

// WriterConfig configures the Redis writer.
type WriterConfig struct {
	Addr     string // Redis address, e.g. "localhost:6379"
	Password string
	DB       int
}

// Writer writes feature results, gate reports, and snapshots to Redis.
type Writer struct {
	client *goredis.Client
}

// Client returns the underlying Redis client for health checks.
func (w *Writer) Client() *goredis.Client { return w.client }

// New creates a new Redis Writer and pings the server.
func New(cfg WriterConfig) (*Writer, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Printf("[redis] connected to %s", cfg.Addr)
	return &Writer{client: client}, nil
}

// WriteFeature appends a feature result to its stream and refreshes the
// latest-value key. Failures are logged, not returned — the scan loop must
// not stall on a slow Redis.
func (w *Writer) WriteFeature(ctx context.Context, f model.FeatureResult) {
	data := string(f.JSON())

	if err := w.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: f.StreamKey(),
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{"data": data},
	}).Err(); err != nil {
		log.Printf("[redis] XADD %s: %v", f.StreamKey(), err)
		return
	}

	latestKey := "latest:" + f.StreamKey()
	if err := w.client.Set(ctx, latestKey, data, defaultLatestTTL).Err(); err != nil {
		log.Printf("[redis] SET %s: %v", latestKey, err)
	}
}

// WriteGates appends a gate report to its stream.
func (w *Writer) WriteGates(ctx context.Context, g model.GateReport) {
	if err := w.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: g.StreamKey(),
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{"data": string(g.JSON())},
	}).Err(); err != nil {
		log.Printf("[redis] XADD %s: %v", g.StreamKey(), err)
	}
}

// SaveSnapshot stores the serialized engine snapshot under the service's
// snapshot key. Snapshots have no TTL; a restart may come much later.
func (w *Writer) SaveSnapshot(ctx context.Context, service string, data []byte) error {
	key := "scan:snapshot:" + service
	if err := w.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis save snapshot: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (w *Writer) Close() error {
	return w.client.Close()
}
