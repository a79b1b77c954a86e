package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"pmcu-collector/internal/telemetry"
)

func TestFailureReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("gga sentence: %w", telemetry.ErrTruncated), "truncated"},
		{telemetry.ErrTrailingBytes, "trailing_bytes"},
		{fmt.Errorf("gga latitude: %w", telemetry.ErrMalformedCoordinate), "malformed_coordinate"},
		{telemetry.ErrMalformedSentence, "malformed_sentence"},
		{telemetry.ErrInvalidDeviceID, "invalid_device_id"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		if got := FailureReason(tt.err); got != tt.want {
			t.Errorf("FailureReason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveReceived()
	m.ObserveReceived()
	m.ObserveDecoded(telemetry.Measurement{Location: &telemetry.GPSLocation{}})
	m.ObserveDecoded(telemetry.Measurement{})
	m.ObserveDecodeFailure(telemetry.ErrTruncated)
	m.ObserveSinkError()

	if got := testutil.ToFloat64(m.MessagesReceived); got != 2 {
		t.Errorf("messages received = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.MeasurementsDecoded.WithLabelValues("gps")); got != 1 {
		t.Errorf("gps = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.MeasurementsDecoded.WithLabelValues("none")); got != 1 {
		t.Errorf("none = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.DecodeFailures.WithLabelValues("truncated")); got != 1 {
		t.Errorf("truncated = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SinkErrors); got != 1 {
		t.Errorf("sink errors = %v, want 1", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveReceived()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pmcu_messages_received_total 1") {
		t.Errorf("body missing counter:\n%s", rec.Body.String())
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveReceived()
	if got := testutil.ToFloat64(b.MessagesReceived); got != 0 {
		t.Errorf("second registry saw %v messages, want 0", got)
	}
}
