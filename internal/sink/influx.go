package sink

import (
	"fmt"
	"math"
	"time"

	client "github.com/influxdata/influxdb/client/v2"

	"pmcu-collector/internal/config"
	"pmcu-collector/internal/telemetry"
)

const influxMeasurement = "pmcu"

// Influx writes one point per measurement to an InfluxDB 1.x server.
type Influx struct {
	client   client.Client
	database string
	now      func() time.Time
}

func NewInflux(cfg config.Config) (*Influx, error) {
	c, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:     cfg.InfluxURL,
		Username: cfg.InfluxUsername,
		Password: cfg.InfluxPassword,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("influx client: %w", err)
	}
	return &Influx{client: c, database: cfg.InfluxDatabase, now: time.Now}, nil
}

func (i *Influx) Name() string { return "influx" }

func (i *Influx) Write(m telemetry.Measurement) error {
	pt, err := ToInfluxPoint(m, i.now())
	if err != nil {
		return err
	}

	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  i.database,
		Precision: "ms",
	})
	if err != nil {
		return err
	}
	bp.AddPoint(pt)

	if err := i.client.Write(bp); err != nil {
		return fmt.Errorf("influx write: %w", err)
	}
	return nil
}

func (i *Influx) Close() error {
	return i.client.Close()
}

// ToInfluxPoint maps m to a point tagged with the device and location source.
// GSM positions stay out of the fields; the modem reports them as text.
// InfluxDB has no NaN or ±Inf, so such readings are left out of the point.
func ToInfluxPoint(m telemetry.Measurement, t time.Time) (*client.Point, error) {
	tags := map[string]string{"imei": m.IMEI}
	if q := m.LocationQuality(); q != "" {
		tags["location_quality"] = q
	} else {
		tags["location_quality"] = "none"
	}

	pm := m.PM
	fields := map[string]interface{}{
		"rh":                          m.RelativeHumidity,
		"temperature":                 m.Temperature,
		"pm_1_0_mass_concentration":   float64(pm.MassPM1_0),
		"pm_2_5_mass_concentration":   float64(pm.MassPM2_5),
		"pm_4_0_mass_concentration":   float64(pm.MassPM4_0),
		"pm_10_mass_concentration":    float64(pm.MassPM10),
		"pm_0_5_number_concentration": float64(pm.NumberPM0_5),
		"pm_1_0_number_concentration": float64(pm.NumberPM1_0),
		"pm_2_5_number_concentration": float64(pm.NumberPM2_5),
		"pm_4_0_number_concentration": float64(pm.NumberPM4_0),
		"pm_10_number_concentration":  float64(pm.NumberPM10),
		"pm_typical_size":             float64(pm.TypicalSize),
	}
	if gps, ok := m.Location.(*telemetry.GPSLocation); ok && gps != nil {
		fields["latitude"] = gps.Latitude
		fields["longitude"] = gps.Longitude
		fields["altitude"] = gps.Altitude
		fields["satellites"] = gps.Satellites
	}
	for k, v := range fields {
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			delete(fields, k)
		}
	}

	pt, err := client.NewPoint(influxMeasurement, tags, fields, t)
	if err != nil {
		return nil, fmt.Errorf("influx point: %w", err)
	}
	return pt, nil
}
