// Package metrics exposes collector counters on a private Prometheus registry.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pmcu-collector/internal/telemetry"
)

const namespace = "pmcu"

type Metrics struct {
	registry *prometheus.Registry

	MessagesReceived    prometheus.Counter
	DecodeFailures      *prometheus.CounterVec
	MeasurementsDecoded *prometheus.CounterVec
	SinkErrors          prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		MessagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "MQTT messages received on the device topic.",
		}),
		DecodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_failures_total",
			Help:      "Payloads that could not be decoded, by reason.",
		}, []string{"reason"}),
		MeasurementsDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "measurements_decoded_total",
			Help:      "Decoded measurements, by location source.",
		}, []string{"location"}),
		SinkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Measurements at least one sink failed to store.",
		}),
	}
	reg.MustRegister(
		m.MessagesReceived,
		m.DecodeFailures,
		m.MeasurementsDecoded,
		m.SinkErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveReceived() {
	m.MessagesReceived.Inc()
}

func (m *Metrics) ObserveDecoded(meas telemetry.Measurement) {
	loc := meas.LocationQuality()
	if loc == "" {
		loc = "none"
	}
	m.MeasurementsDecoded.WithLabelValues(loc).Inc()
}

func (m *Metrics) ObserveDecodeFailure(err error) {
	m.DecodeFailures.WithLabelValues(FailureReason(err)).Inc()
}

func (m *Metrics) ObserveSinkError() {
	m.SinkErrors.Inc()
}

// FailureReason maps a decode error to a low-cardinality label value.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, telemetry.ErrTruncated):
		return "truncated"
	case errors.Is(err, telemetry.ErrTrailingBytes):
		return "trailing_bytes"
	case errors.Is(err, telemetry.ErrMalformedCoordinate):
		return "malformed_coordinate"
	case errors.Is(err, telemetry.ErrMalformedSentence):
		return "malformed_sentence"
	case errors.Is(err, telemetry.ErrInvalidDeviceID):
		return "invalid_device_id"
	default:
		return "other"
	}
}
