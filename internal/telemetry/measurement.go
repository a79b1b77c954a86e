// Package telemetry decodes PMCU binary frames into measurements.
//
// A frame carries humidity and temperature, a GGA sentence from the GPS
// receiver, a CIPGSMLOC response from the cellular modem and ten readings
// from the particulate matter sensor. Everything in this package is pure and
// safe for concurrent use.
package telemetry

import "errors"

// DeviceTopicPrefix is the topic prefix every PMCU publishes under.
const DeviceTopicPrefix = "pmcu/"

var (
	ErrTruncated           = errors.New("telemetry: truncated payload")
	ErrTrailingBytes       = errors.New("telemetry: trailing bytes after particulate block")
	ErrMalformedSentence   = errors.New("telemetry: malformed sentence")
	ErrMalformedCoordinate = errors.New("telemetry: malformed nmea coordinate")
	ErrInvalidDeviceID     = errors.New("telemetry: invalid device id")
	ErrEmbeddedNUL         = errors.New("telemetry: sentence contains NUL byte")
)

const (
	QualityGPS = "gps"
	QualityGSM = "gsm"
)

// Measurement is one decoded PMCU frame.
type Measurement struct {
	ID               string
	IMEI             string
	RelativeHumidity float64
	Temperature      float64
	// Location is nil when neither the GPS nor the cellular sentence produced a position.
	Location Location
	PM       ParticulateMatter
}

// Location is either a *GPSLocation or a *GSMLocation.
type Location interface {
	Quality() string
	isLocation()
}

// GPSLocation is built from a GGA fix sentence.
type GPSLocation struct {
	Latitude         float64
	Longitude        float64
	Satellites       int
	HorizontalDOP    float64
	Altitude         float64
	HeightOfSeaLevel float64
}

// Quality reports "" for a nil *GPSLocation, the same as no location.
func (l *GPSLocation) Quality() string {
	if l == nil {
		return ""
	}
	return QualityGPS
}

func (*GPSLocation) isLocation() {}

// GSMLocation is built from a +CIPGSMLOC response. Values are kept exactly as
// the modem sent them.
type GSMLocation struct {
	Longitude string
	Latitude  string
	Date      string
	Time      string
}

func (l *GSMLocation) Quality() string {
	if l == nil {
		return ""
	}
	return QualityGSM
}

func (*GSMLocation) isLocation() {}

// ParticulateMatter holds the ten readings of the optical particle sensor.
// Mass concentrations are in µg/m³, number concentrations in #/cm³ and the
// typical particle size in µm.
type ParticulateMatter struct {
	MassPM1_0   float32
	MassPM2_5   float32
	MassPM4_0   float32
	MassPM10    float32
	NumberPM0_5 float32
	NumberPM1_0 float32
	NumberPM2_5 float32
	NumberPM4_0 float32
	NumberPM10  float32
	TypicalSize float32
}

// LocationQuality returns "gps", "gsm" or "" when m has no location.
func (m Measurement) LocationQuality() string {
	if m.Location == nil {
		return ""
	}
	return m.Location.Quality()
}
