package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"pmcu-collector/internal/app"
	"pmcu-collector/internal/config"
	"pmcu-collector/internal/logging"
)

const appName = "pmcu-collector"

// Set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	// The broker address may also be given as the only argument.
	if len(os.Args) > 1 && strings.TrimSpace(os.Args[1]) != "" {
		cfg.MQTTBroker = strings.TrimSpace(os.Args[1])
	}

	logger := logging.New(cfg, version, appName)
	slog.SetDefault(logger)

	slog.Info("starting",
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
		"log_level", cfg.LogLevel.String(),
		"broker", fmt.Sprintf("%s:%d", cfg.MQTTBroker, cfg.MQTTPort),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "err", err)
		os.Exit(1)
	}

	slog.Info("shutting down")
}
