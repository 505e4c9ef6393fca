package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"regime-scannerv1/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// Reader provides read-only access to SQLite for backfill and snapshot restore.
type Reader struct {
	db *sql.DB
}

// NewReader opens a SQLite connection for reading.
func NewReader(dbPath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open reader: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)

	log.Printf("[sqlite-reader] opened %s", dbPath)
	return &Reader{db: db}, nil
}

// ReadLastBars returns the most recent `limit` bars for (symbol, tf),
// ordered by sequence ascending for correct replay order.
func (r *Reader) ReadLastBars(symbol string, tf, limit int) ([]model.Bar, error) {
	rows, err := r.db.Query(`
		SELECT symbol, tf, seq, ts, open, high, low, close, volume FROM (
			SELECT * FROM bars
			WHERE symbol = ? AND tf = ?
			ORDER BY seq DESC
			LIMIT ?
		) ORDER BY seq ASC
	`, symbol, tf, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var b model.Bar
		var tsUnix int64
		if err := rows.Scan(&b.Symbol, &b.TF, &b.Seq, &tsUnix, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("sqlite scan bar: %w", err)
		}
		b.TS = time.Unix(tsUnix, 0).UTC()
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// ReadLatestSnapshot loads the most recent engine snapshot for the
// service, or (nil, nil) when none exists.
func (r *Reader) ReadLatestSnapshot(service string) ([]byte, error) {
	var data string
	err := r.db.QueryRow(`
		SELECT data FROM engine_snapshots
		WHERE service = ?
		ORDER BY id DESC
		LIMIT 1
	`, service).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite read snapshot: %w", err)
	}
	return []byte(data), nil
}

// Close closes the database.
func (r *Reader) Close() error {
	return r.db.Close()
}
