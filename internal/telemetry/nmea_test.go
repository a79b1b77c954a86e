package telemetry

import (
	"errors"
	"math"
	"testing"
)

func TestNMEACoordinateToDecimal(t *testing.T) {
	tests := []struct {
		name       string
		coordinate string
		direction  string
		want       float64
	}{
		{name: "north latitude", coordinate: "4807.038", direction: "N", want: 48 + 7.038/60},
		{name: "south latitude", coordinate: "4807.038", direction: "S", want: -(48 + 7.038/60)},
		{name: "east longitude three degree digits", coordinate: "01131.000", direction: "E", want: 11 + 31.0/60},
		{name: "west longitude", coordinate: "12311.12", direction: "W", want: -(123 + 11.12/60)},
		{name: "minutes only", coordinate: "30.5", direction: "N", want: 30.5 / 60},
		{name: "unknown direction is positive", coordinate: "4807.038", direction: "", want: 48 + 7.038/60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NMEACoordinateToDecimal(tt.coordinate, tt.direction)
			if err != nil {
				t.Fatalf("NMEACoordinateToDecimal(%q, %q): %v", tt.coordinate, tt.direction, err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("NMEACoordinateToDecimal(%q, %q) = %v; want %v", tt.coordinate, tt.direction, got, tt.want)
			}
		})
	}
}

func TestNMEACoordinateToDecimal_Documented(t *testing.T) {
	got, err := NMEACoordinateToDecimal("4807.038", "N")
	if err != nil {
		t.Fatalf("NMEACoordinateToDecimal: %v", err)
	}
	if math.Abs(got-48.1173) > 1e-9 {
		t.Errorf("got %v; want 48.1173", got)
	}
}

func TestNMEACoordinateToDecimal_Malformed(t *testing.T) {
	tests := []struct {
		name       string
		coordinate string
	}{
		{name: "empty", coordinate: ""},
		{name: "no decimal point", coordinate: "4807038"},
		{name: "decimal point too early", coordinate: "4.807"},
		{name: "non numeric degrees", coordinate: "ab07.038"},
		{name: "non numeric minutes", coordinate: "48x7.0y8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NMEACoordinateToDecimal(tt.coordinate, "N")
			if !errors.Is(err, ErrMalformedCoordinate) {
				t.Fatalf("NMEACoordinateToDecimal(%q) error = %v; want ErrMalformedCoordinate", tt.coordinate, err)
			}
		})
	}
}
