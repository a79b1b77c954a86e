// Package sink delivers decoded measurements to their destinations.
package sink

import (
	"errors"
	"fmt"

	"pmcu-collector/internal/telemetry"
)

type Sink interface {
	Name() string
	Write(m telemetry.Measurement) error
}

// Fanout writes every measurement to all of its sinks. A failing sink does
// not stop delivery to the others.
type Fanout struct {
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Name() string { return "fanout" }

// Write returns the errors of all failing sinks joined, each prefixed with
// the sink name.
func (f *Fanout) Write(m telemetry.Measurement) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Write(m); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Len reports how many sinks are attached.
func (f *Fanout) Len() int { return len(f.sinks) }
