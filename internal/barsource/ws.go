// Package barsource connects to the upstream bar feed over WebSocket and
// pushes raw bars into the scan loop's ring buffer.
package barsource

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"regime-scannerv1/internal/model"
	"regime-scannerv1/internal/ringbuf"

	"github.com/gorilla/websocket"
)

const (
	reconnectDelay = 3 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 25 * time.Second
	readLimit      = 1 << 20
)

// Config holds configuration for the bar feed.
type Config struct {
	URL     string
	Symbols []string
	TFs     []int
}

// Source streams JSON bar frames from the feed into a ring buffer.
type Source struct {
	cfg Config

	// Optional metrics hooks
	OnReconnect func()
}

// New creates a new bar source.
func New(cfg Config) *Source {
	return &Source{cfg: cfg}
}

// Run connects and streams bars into ring until ctx is cancelled,
// reconnecting with a fixed delay on any failure.
func (s *Source) Run(ctx context.Context, ring *ringbuf.Ring) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := s.stream(ctx, ring); err != nil {
			log.Printf("[barsource] stream ended: %v", err)
		}
		if s.OnReconnect != nil {
			s.OnReconnect()
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

// subscribeMsg is the feed's subscription frame.
type subscribeMsg struct {
	Action  string   `json:"action"`
	Symbols []string `json:"symbols"`
	TFs     []int    `json:"tfs"`
}

func (s *Source) stream(ctx context.Context, ring *ringbuf.Ring) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Printf("[barsource] connected to %s, subscribing %d symbols", s.cfg.URL, len(s.cfg.Symbols))

	if err := conn.WriteJSON(subscribeMsg{
		Action:  "subscribe",
		Symbols: s.cfg.Symbols,
		TFs:     s.cfg.TFs,
	}); err != nil {
		return err
	}

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Keepalive pings; the read loop ends when the connection dies.
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				conn.Close()
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var raw model.RawBar
		if err := json.Unmarshal(data, &raw); err != nil {
			log.Printf("[barsource] bad frame: %v", err)
			continue
		}

		if !ring.Push(raw) {
			log.Printf("[barsource] ring full, dropping bar %s seq=%d", raw.Symbol, raw.Seq)
		}
	}
}
