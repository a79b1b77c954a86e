package telemetry

import (
	"encoding/json"
	"fmt"
	"math"
)

// number is a reading as it appears in JSON. NaN and ±Inf have no JSON form
// and are written as null.
type number struct {
	v    float64
	bits int
}

func num32(v float32) number { return number{v: float64(v), bits: 32} }
func num64(v float64) number { return number{v: v, bits: 64} }

func (n number) MarshalJSON() ([]byte, error) {
	if math.IsNaN(n.v) || math.IsInf(n.v, 0) {
		return []byte("null"), nil
	}
	if n.bits == 32 {
		return json.Marshal(float32(n.v))
	}
	return json.Marshal(n.v)
}

// measurementJSON is the flat document the PMCU tooling has always printed.
type measurementJSON struct {
	ID               string `json:"id"`
	IMEI             string `json:"imei"`
	RelativeHumidity number `json:"rh"`
	Temperature      number `json:"temperature"`

	LocationQuality  string  `json:"location_quality,omitempty"`
	Latitude         any     `json:"location_latitude,omitempty"`
	Longitude        any     `json:"location_longitude,omitempty"`
	Satellites       *int    `json:"location_number_of_satellites,omitempty"`
	HorizontalDOP    *number `json:"location_horizontal_dop,omitempty"`
	Altitude         *number `json:"location_altitude,omitempty"`
	HeightOfSeaLevel *number `json:"location_height_of_sea_level,omitempty"`
	Date             *string `json:"location_date,omitempty"`
	Time             *string `json:"location_time,omitempty"`

	MassPM1_0   number `json:"pm_1_0_mass_concentration"`
	MassPM2_5   number `json:"pm_2_5_mass_concentration"`
	MassPM4_0   number `json:"pm_4_0_mass_concentration"`
	MassPM10    number `json:"pm_10_mass_concentration"`
	NumberPM0_5 number `json:"pm_0_5_number_concentration"`
	NumberPM1_0 number `json:"pm_1_0_number_concentration"`
	NumberPM2_5 number `json:"pm_2_5_number_concentration"`
	NumberPM4_0 number `json:"pm_4_0_number_concentration"`
	NumberPM10  number `json:"pm_10_number_concentration"`
	TypicalSize number `json:"pm_typical_size"`
}

func (m Measurement) MarshalJSON() ([]byte, error) {
	out := measurementJSON{
		ID:               m.ID,
		IMEI:             m.IMEI,
		RelativeHumidity: num64(m.RelativeHumidity),
		Temperature:      num64(m.Temperature),
		MassPM1_0:        num32(m.PM.MassPM1_0),
		MassPM2_5:        num32(m.PM.MassPM2_5),
		MassPM4_0:        num32(m.PM.MassPM4_0),
		MassPM10:         num32(m.PM.MassPM10),
		NumberPM0_5:      num32(m.PM.NumberPM0_5),
		NumberPM1_0:      num32(m.PM.NumberPM1_0),
		NumberPM2_5:      num32(m.PM.NumberPM2_5),
		NumberPM4_0:      num32(m.PM.NumberPM4_0),
		NumberPM10:       num32(m.PM.NumberPM10),
		TypicalSize:      num32(m.PM.TypicalSize),
	}

	switch loc := m.Location.(type) {
	case nil:
	case *GPSLocation:
		if loc == nil {
			break
		}
		hdop, alt, hsl := num64(loc.HorizontalDOP), num64(loc.Altitude), num64(loc.HeightOfSeaLevel)
		out.LocationQuality = QualityGPS
		out.Latitude = num64(loc.Latitude)
		out.Longitude = num64(loc.Longitude)
		out.Satellites = &loc.Satellites
		out.HorizontalDOP = &hdop
		out.Altitude = &alt
		out.HeightOfSeaLevel = &hsl
	case *GSMLocation:
		if loc == nil {
			break
		}
		out.LocationQuality = QualityGSM
		out.Latitude = loc.Latitude
		out.Longitude = loc.Longitude
		out.Date = &loc.Date
		out.Time = &loc.Time
	default:
		return nil, fmt.Errorf("telemetry: unknown location %T", loc)
	}

	return json.Marshal(out)
}
