// Package sqlite stores bar history for warm-up backfill and keeps a
// fallback copy of engine snapshots.
package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"regime-scannerv1/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS bars (
	symbol  TEXT    NOT NULL,
	tf      INTEGER NOT NULL,
	seq     INTEGER NOT NULL,
	ts      INTEGER NOT NULL,
	open    REAL    NOT NULL,
	high    REAL    NOT NULL,
	low     REAL    NOT NULL,
	close   REAL    NOT NULL,
	volume  REAL    NOT NULL,
	PRIMARY KEY (symbol, tf, seq)
);
CREATE INDEX IF NOT EXISTS idx_bars_ts ON bars (symbol, tf, ts);

CREATE TABLE IF NOT EXISTS engine_snapshots (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	service    TEXT    NOT NULL,
	created_at INTEGER NOT NULL,
	data       TEXT    NOT NULL
);
`

// WriterConfig configures the SQLite writer.
type WriterConfig struct {
	DBPath string
}

// Writer persists bars and engine snapshots.
type Writer struct {
	db *sql.DB
}

// New opens (creating if needed) the SQLite database in WAL mode.
func New(cfg WriterConfig) (*Writer, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Printf("[sqlite] opened %s", cfg.DBPath)
	return &Writer{db: db}, nil
}

// WriteBar inserts one bar, ignoring duplicates (same symbol/tf/seq).
func (w *Writer) WriteBar(b model.Bar) error {
	_, err := w.db.Exec(`
		INSERT OR IGNORE INTO bars (symbol, tf, seq, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.Symbol, b.TF, b.Seq, b.TS.Unix(), b.Open, b.High, b.Low, b.Close, b.Volume)
	if err != nil {
		return fmt.Errorf("sqlite insert bar: %w", err)
	}
	return nil
}

// WriteSnapshot stores a serialized engine snapshot and prunes older ones,
// keeping the last 5 per service.
func (w *Writer) WriteSnapshot(service string, data []byte) error {
	if _, err := w.db.Exec(`
		INSERT INTO engine_snapshots (service, created_at, data) VALUES (?, ?, ?)
	`, service, time.Now().Unix(), string(data)); err != nil {
		return fmt.Errorf("sqlite insert snapshot: %w", err)
	}
	if _, err := w.db.Exec(`
		DELETE FROM engine_snapshots
		WHERE service = ? AND id NOT IN (
			SELECT id FROM engine_snapshots WHERE service = ? ORDER BY id DESC LIMIT 5
		)
	`, service, service); err != nil {
		return fmt.Errorf("sqlite prune snapshots: %w", err)
	}
	return nil
}

// Close closes the database.
func (w *Writer) Close() error {
	return w.db.Close()
}
