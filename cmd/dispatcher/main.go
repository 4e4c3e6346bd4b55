package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-post-curator/internal/app"
	"github.com/samvad-hq/samvad-post-curator/internal/config"
	"github.com/samvad-hq/samvad-post-curator/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dispatcher start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("dispatcher starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher, err := app.NewDispatcher(ctx, cfg, log, app.DispatcherOptions{})
	if err != nil {
		logger.ErrorObj("failed to initialize dispatcher", "error", err)
		return err
	}

	if err := dispatcher.Run(ctx); err != nil {
		return fmt.Errorf("dispatcher run: %w", err)
	}
	return nil
}
