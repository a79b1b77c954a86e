package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pmcu-collector/internal/config"
	"pmcu-collector/internal/telemetry"
	"pmcu-collector/internal/utils"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MeasurementHandler receives every successfully decoded measurement.
type MeasurementHandler func(m telemetry.Measurement) error

// Observer is notified about message outcomes; see metrics.Metrics.
type Observer interface {
	ObserveReceived()
	ObserveDecoded(m telemetry.Measurement)
	ObserveDecodeFailure(err error)
	ObserveSinkError()
}

type Subscriber struct {
	client    mqtt.Client
	cfg       config.Config
	logger    *slog.Logger
	observer  Observer
	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once

	handler MeasurementHandler
}

// MQTTSubscriber is the part of Subscriber that sinks are attached through.
type MQTTSubscriber interface {
	SetMessageHandler(handler MeasurementHandler)
}

// SetMessageHandler sets the handler for decoded measurements. Call it before Connect.
func (s *Subscriber) SetMessageHandler(handler MeasurementHandler) {
	s.mu.Lock()
	s.handler = handler
	s.mu.Unlock()
}

func NewSubscriber(cfg config.Config, logger *slog.Logger, observer Observer) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Subscriber{
		cfg:      cfg,
		logger:   logger,
		observer: observer,
		stopCh:   make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort))
	opts.SetClientID(cfg.MQTTClientID)

	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	// A clean session forgets subscriptions, so subscribe on every (re)connect.
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		s.setConnected(true)
		logger.Info("mqtt connected", "broker", cfg.MQTTBroker, "port", cfg.MQTTPort)
		if err := s.subscribe(c); err != nil {
			logger.Error("mqtt subscribe failed", "topic", cfg.MQTTTopic, "error", err)
		}
	})

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.setConnected(false)
		logger.Warn("mqtt connection lost", "error", err)
	})

	s.client = mqtt.NewClient(opts)
	return s
}

// Connect establishes the broker connection. It returns once the broker has
// acknowledged the connection, ctx is done or Disconnect was called.
func (s *Subscriber) Connect(ctx context.Context) error {
	select {
	case <-s.stopCh:
		return fmt.Errorf("subscriber stopped")
	default:
	}

	if s.IsConnected() {
		return nil
	}

	token := s.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			// The OnConnect handler runs on its own goroutine and may not have run yet.
			s.setConnected(true)
			return nil
		}

		select {
		case <-ctx.Done():
			s.client.Disconnect(0)
			return ctx.Err()
		case <-s.stopCh:
			s.client.Disconnect(0)
			return fmt.Errorf("subscriber stopped")
		default:
		}
	}
}

func (s *Subscriber) subscribe(c mqtt.Client) error {
	topic := s.cfg.MQTTTopic
	qos := s.cfg.MQTTQoS

	token := c.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		s.handleMessage(msg.Topic(), msg.Payload())
	})
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe timeout for topic %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	s.logger.Info("subscribed to mqtt topic", "topic", topic, "qos", qos)
	return nil
}

func (s *Subscriber) handleMessage(topic string, payload []byte) {
	s.logger.Debug("received mqtt message", "topic", topic, "size", len(payload))
	if s.observer != nil {
		s.observer.ObserveReceived()
	}

	m, err := telemetry.Decode(topic, payload)
	if err != nil {
		if s.observer != nil {
			s.observer.ObserveDecodeFailure(err)
		}
		s.logger.Warn("failed to decode measurement",
			"topic", topic,
			"size", len(payload),
			"error", err,
		)
		s.logger.Debug("undecodable payload", "topic", topic, "payload", utils.BytesToHex(payload))
		return
	}
	if s.observer != nil {
		s.observer.ObserveDecoded(m)
	}

	s.mu.RLock()
	handler := s.handler
	s.mu.RUnlock()
	if handler == nil {
		return
	}

	if err := handler(m); err != nil {
		if s.observer != nil {
			s.observer.ObserveSinkError()
		}
		s.logger.Error("measurement handler failed",
			"topic", topic,
			"imei", m.IMEI,
			"error", err,
		)
		return
	}
	s.logger.Debug("processed measurement",
		"imei", m.IMEI,
		"location", m.LocationQuality(),
	)
}

// IsConnected returns whether the client is connected.
func (s *Subscriber) IsConnected() bool {
	s.mu.RLock()
	connected := s.connected
	s.mu.RUnlock()
	return connected && s.client.IsConnected()
}

// Disconnect stops the subscriber and closes the MQTT connection.
// Idempotent and safe to call multiple times.
func (s *Subscriber) Disconnect() {
	s.stopOnce.Do(func() { close(s.stopCh) })

	if s.client != nil && s.IsConnected() {
		token := s.client.Unsubscribe(s.cfg.MQTTTopic)
		token.WaitTimeout(2 * time.Second)
	}

	if s.client != nil {
		s.client.Disconnect(250)
	}

	s.setConnected(false)
	s.logger.Info("mqtt subscriber disconnected")
}

func (s *Subscriber) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}
