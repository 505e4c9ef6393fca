package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"regime-scannerv1/config"
	"regime-scannerv1/internal/logger"
	"regime-scannerv1/internal/scan"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	logger.Init("scanengine", slog.LevelInfo)

	cfg := scan.FromEnv(config.Load())
	log.Printf("[scanengine] symbols: %v, TFs: %v, snapshot interval: %s", cfg.Symbols, cfg.TFs, cfg.SnapshotInterval)

	svc := scan.New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := svc.Run(ctx); err != nil {
		log.Fatalf("[scanengine] fatal: %v", err)
	}
}
