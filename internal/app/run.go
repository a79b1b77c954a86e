package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"pmcu-collector/internal/config"
	"pmcu-collector/internal/db"
	"pmcu-collector/internal/httpapi"
	"pmcu-collector/internal/metrics"
	"pmcu-collector/internal/migrate"
	"pmcu-collector/internal/modules/measurements"
	"pmcu-collector/internal/mqtt"
	"pmcu-collector/internal/sink"
)

// Run starts the collector and blocks until ctx is cancelled or the HTTP
// server fails.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"sqliteMaxOpenConns", cfg.SQLiteMaxOpenConns,
		"sqliteMaxIdleConns", cfg.SQLiteMaxIdleConns,
		"sqliteConnMaxLifetime", cfg.SQLiteConnMaxLifetime,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttTopic", cfg.MQTTTopic,
		"mqttQoS", cfg.MQTTQoS,
		"influx", cfg.InfluxURL != "",
		"printMeasurements", cfg.PrintMeasurements,
	)

	dbConn, err := db.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			logger.Error("db close", "error", closeErr)
		}
	}()

	if _, err := migrate.Run(ctx, dbConn, logger); err != nil {
		return err
	}
	logger.Info("database ready")

	m := metrics.New()
	subscriber := mqtt.NewSubscriber(cfg, logger, m)
	mux := httpapi.NewMux(dbConn, subscriber, m.Handler())
	store := measurements.RegisterFeature(mux, dbConn, logger)

	fanout, closeSinks, err := buildSinks(cfg, store, os.Stdout)
	if err != nil {
		return err
	}
	defer closeSinks()

	// The handler must be in place before Connect: the broker may deliver
	// right after CONNACK.
	attachSinks(subscriber, fanout, logger)

	// Connect in the background so /healthz works while the broker is down;
	// paho keeps retrying until Disconnect.
	go func() {
		if err := subscriber.Connect(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("mqtt connect failed", "error", err)
		}
	}()

	srv := httpapi.NewServer(cfg, mux, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		subscriber.Disconnect()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("mqtt disconnecting")
	subscriber.Disconnect()

	logger.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

func attachSinks(sub mqtt.MQTTSubscriber, fanout *sink.Fanout, logger *slog.Logger) {
	sub.SetMessageHandler(fanout.Write)
	logger.Info("measurement sinks attached", "sinks", fanout.Len())
}

// buildSinks assembles the sinks enabled by cfg behind one fan-out. The
// returned func releases sink resources.
func buildSinks(cfg config.Config, store sink.Sink, console io.Writer) (*sink.Fanout, func(), error) {
	sinks := []sink.Sink{store}
	closers := []func() error{}

	if cfg.PrintMeasurements {
		sinks = append(sinks, sink.NewConsole(console))
	}
	if cfg.InfluxURL != "" {
		influx, err := sink.NewInflux(cfg)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, influx)
		closers = append(closers, influx.Close)
	}

	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				slog.Error("sink close", "error", err)
			}
		}
	}
	return sink.NewFanout(sinks...), closeAll, nil
}
