package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"formsheet/internal/config"
	"formsheet/pkg/log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server run into an error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logs := log.NewZapLogger("formsheet", log.ParseLevel(cfg.LogLevel))
	defer logs.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := NewApp(ctx, cfg, logs)
	if err != nil {
		logs.Errorw("failed to initialize app", "store", cfg.StoreDriver, "error", err)
		return err
	}
	defer cleanup()

	// --- Start HTTP Server ---
	errChan := make(chan error, 1)
	go func() {
		logs.Infow("starting server", "addr", cfg.Addr(), "store", cfg.StoreDriver)
		errChan <- app.Listen(cfg.Addr())
	}()

	// Wait for interrupt signal or a listener failure
	select {
	case <-ctx.Done():
		logs.Infow("shutting down server")
	case err = <-errChan:
		logs.Errorw("server failed", "error", err)
	}

	if sdErr := app.Shutdown(); sdErr != nil {
		logs.Errorw("error during fiber shutdown", "error", sdErr)
	}
	logs.Infow("server gracefully stopped")
	return err
}
