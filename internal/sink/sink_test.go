package sink

import (
	"errors"
	"strings"
	"testing"

	"pmcu-collector/internal/telemetry"
)

type recordingSink struct {
	name string
	err  error
	got  []telemetry.Measurement
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Write(m telemetry.Measurement) error {
	r.got = append(r.got, m)
	return r.err
}

func TestFanout_Write(t *testing.T) {
	m := telemetry.Measurement{IMEI: "863730011223344"}

	t.Run("all sinks succeed", func(t *testing.T) {
		a, b := &recordingSink{name: "a"}, &recordingSink{name: "b"}
		f := NewFanout(a, b)

		if err := f.Write(m); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if len(a.got) != 1 || len(b.got) != 1 {
			t.Errorf("deliveries a=%d b=%d, want 1 each", len(a.got), len(b.got))
		}
		if f.Len() != 2 {
			t.Errorf("Len = %d, want 2", f.Len())
		}
	})

	t.Run("failure does not stop delivery", func(t *testing.T) {
		errA := errors.New("disk full")
		errC := errors.New("timeout")
		a := &recordingSink{name: "sqlite", err: errA}
		b := &recordingSink{name: "console"}
		c := &recordingSink{name: "influx", err: errC}

		err := NewFanout(a, b, c).Write(m)
		if err == nil {
			t.Fatal("Write error = nil, want joined error")
		}
		if !errors.Is(err, errA) || !errors.Is(err, errC) {
			t.Errorf("error %v does not wrap both sink errors", err)
		}
		if !strings.Contains(err.Error(), "sqlite: disk full") || !strings.Contains(err.Error(), "influx: timeout") {
			t.Errorf("error = %q, want sink names", err)
		}
		if len(b.got) != 1 || len(c.got) != 1 {
			t.Errorf("deliveries after failure b=%d c=%d, want 1 each", len(b.got), len(c.got))
		}
	})

	t.Run("no sinks", func(t *testing.T) {
		if err := NewFanout().Write(m); err != nil {
			t.Errorf("Write with no sinks = %v", err)
		}
	})
}
