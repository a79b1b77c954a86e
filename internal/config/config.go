package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	MQTTBroker   string
	MQTTPort     int
	MQTTClientID string
	MQTTTopic    string
	MQTTQoS      byte

	SQLiteDriver          string
	SQLiteDSN             string
	SQLitePath            string
	SQLiteMaxOpenConns    int
	SQLiteMaxIdleConns    int
	SQLiteConnMaxLifetime time.Duration
	// SQLiteLogStatements opens go-sqlite3 through the logging connector,
	// so it only works with SQLiteDriver "sqlite3".
	SQLiteLogStatements   bool

	// PrintMeasurements writes every decoded measurement to stdout.
	PrintMeasurements bool

	// InfluxURL enables the InfluxDB sink when non-empty.
	InfluxURL      string
	InfluxDatabase string
	InfluxUsername string
	InfluxPassword string

	// Simulator only.
	SimIMEI     string
	SimInterval time.Duration
}

func LoadFromEnv() (Config, error) {
	appEnv := env("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(env("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	mqttPortStr := env("MQTT_PORT", "1883")
	mqttPort, err := strconv.Atoi(mqttPortStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %q: %w", mqttPortStr, err)
	}
	if mqttPort <= 0 || mqttPort > 65535 {
		return Config{}, fmt.Errorf("MQTT_PORT out of range: %d", mqttPort)
	}

	mqttClientID := env("MQTT_CLIENT_ID", "")
	if mqttClientID == "" {
		mqttClientID = "client/" + uuid.NewString()
	}

	qosStr := env("MQTT_QOS", "0")
	qos, err := strconv.ParseUint(qosStr, 10, 8)
	if err != nil || qos > 2 {
		return Config{}, fmt.Errorf("invalid MQTT_QOS %q (allowed: 0, 1, 2)", qosStr)
	}

	maxOpenConns, err := envInt("DB_MAX_OPEN_CONNS", "1")
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := envInt("DB_MAX_IDLE_CONNS", "1")
	if err != nil {
		return Config{}, err
	}
	connMaxLifetime, err := envDuration("DB_CONN_MAX_LIFETIME", "0s")
	if err != nil {
		return Config{}, err
	}
	logStatements, err := envBool("DB_LOG_SQL", "false")
	if err != nil {
		return Config{}, err
	}

	sqliteDriver := env("DB_DRIVER", "sqlite3")
	if logStatements && sqliteDriver != "sqlite3" {
		return Config{}, fmt.Errorf("DB_LOG_SQL requires DB_DRIVER=sqlite3, got %q", sqliteDriver)
	}

	printMeasurements, err := envBool("PRINT_MEASUREMENTS", "true")
	if err != nil {
		return Config{}, err
	}

	simInterval, err := envDuration("SIM_INTERVAL", "5s")
	if err != nil {
		return Config{}, err
	}
	if simInterval <= 0 {
		return Config{}, fmt.Errorf("SIM_INTERVAL must be positive, got %v", simInterval)
	}

	return Config{
		AppEnv:   appEnv,
		LogLevel: level,
		HTTPAddr: env("HTTP_ADDR", ":8080"),

		MQTTBroker:   env("MQTT_BROKER", "localhost"),
		MQTTPort:     mqttPort,
		MQTTClientID: mqttClientID,
		MQTTTopic:    env("MQTT_TOPIC", "pmcu/+"),
		MQTTQoS:      byte(qos),

		SQLiteDriver:          sqliteDriver,
		SQLiteDSN:             env("DB_DSN", ""),
		SQLitePath:            env("SQLITE_PATH", "data/pmcu.db"),
		SQLiteMaxOpenConns:    maxOpenConns,
		SQLiteMaxIdleConns:    maxIdleConns,
		SQLiteConnMaxLifetime: connMaxLifetime,
		SQLiteLogStatements:   logStatements,

		PrintMeasurements: printMeasurements,

		InfluxURL:      env("INFLUX_URL", ""),
		InfluxDatabase: env("INFLUX_DATABASE", "pmcu"),
		InfluxUsername: env("INFLUX_USERNAME", ""),
		InfluxPassword: env("INFLUX_PASSWORD", ""),

		SimIMEI:     env("SIM_IMEI", "863730011223344"),
		SimInterval: simInterval,
	}, nil
}

func env(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt(key, def string) (int, error) {
	s := env(key, def)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func envDuration(key, def string) (time.Duration, error) {
	s := env(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func envBool(key, def string) (bool, error) {
	s := env(key, def)
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return b, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
