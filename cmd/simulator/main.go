package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pmcu-collector/internal/app"
	"pmcu-collector/internal/config"
	"pmcu-collector/internal/logging"
)

const appName = "pmcu-simulator"

var version = "dev"

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg, version, appName)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Simulate(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("simulate failed", "err", err)
		os.Exit(1)
	}
}
