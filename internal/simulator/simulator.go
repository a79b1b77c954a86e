package simulator

import (
	"context"
	"log/slog"
	"time"

	"pmcu-collector/internal/telemetry"
)

// FramePublisher is satisfied by mqtt.Publisher.
type FramePublisher interface {
	PublishFrame(imei string, frame telemetry.Frame) error
}

// Run publishes one frame for imei every interval until ctx is done. Publish
// errors are logged and the loop keeps going.
func Run(ctx context.Context, pub FramePublisher, gen *Generator, imei string, interval time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sent := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame := gen.Next(time.Now())
		if err := pub.PublishFrame(imei, frame); err != nil {
			logger.Warn("publish failed", "imei", imei, "error", err)
		} else {
			sent++
			logger.Info("frame published",
				"imei", imei,
				"sent", sent,
				"rh", float64(frame.Humidity)/10,
				"temperature", float64(frame.Temperature)/10,
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
