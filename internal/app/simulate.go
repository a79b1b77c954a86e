package app

import (
	"context"
	"log/slog"
	"time"

	"pmcu-collector/internal/config"
	"pmcu-collector/internal/mqtt"
	"pmcu-collector/internal/simulator"
)

// Simulate connects to the broker and publishes synthetic frames for
// cfg.SimIMEI until ctx is cancelled.
func Simulate(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("simulator config",
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"imei", cfg.SimIMEI,
		"interval", cfg.SimInterval,
	)

	pub := mqtt.NewPublisher(cfg, logger)
	defer pub.Disconnect()

	if err := pub.Connect(ctx); err != nil {
		return err
	}

	gen := simulator.NewGenerator(uint64(time.Now().UnixNano()))
	return simulator.Run(ctx, pub, gen, cfg.SimIMEI, cfg.SimInterval, logger)
}
