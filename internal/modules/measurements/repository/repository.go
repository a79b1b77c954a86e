package repository

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"pmcu-collector/internal/modules/measurements/types"
	"pmcu-collector/internal/telemetry"
)

//go:embed sql/insert-measurement.sql
var insertMeasurementSQL string

//go:embed sql/get-devices.sql
var getDevicesSQL string

//go:embed sql/get-latest-measurements.sql
var getLatestMeasurementsSQL string

//go:embed sql/get-measurements.sql
var getMeasurementsSQL string

// timestampLayout is fixed width so received_at sorts lexically.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

type MeasurementRepository interface {
	InsertMeasurement(receivedAt time.Time, m telemetry.Measurement) (string, error)
	GetDevices() ([]types.Device, error)
	GetLatestMeasurements(imei string, limit int) ([]types.Record, error)
	GetMeasurements(imei string, from time.Time, to time.Time, limit int) ([]types.Record, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) MeasurementRepository {
	return &repositoryImpl{db: db}
}

// InsertMeasurement stores m and returns the generated row id.
func (r *repositoryImpl) InsertMeasurement(receivedAt time.Time, m telemetry.Measurement) (string, error) {
	rowID := uuid.NewString()

	var (
		quality                                any
		gpsLat, gpsLon, gpsHDOP, gpsAlt, gpsHS any
		gpsSats                                any
		gsmLat, gsmLon, gsmDate, gsmTime       any
	)
	switch loc := m.Location.(type) {
	case nil:
	case *telemetry.GPSLocation:
		if loc == nil {
			break
		}
		quality = telemetry.QualityGPS
		gpsLat, gpsLon = reading(loc.Latitude), reading(loc.Longitude)
		gpsSats = loc.Satellites
		gpsHDOP, gpsAlt, gpsHS = reading(loc.HorizontalDOP), reading(loc.Altitude), reading(loc.HeightOfSeaLevel)
	case *telemetry.GSMLocation:
		if loc == nil {
			break
		}
		quality = telemetry.QualityGSM
		gsmLat, gsmLon = loc.Latitude, loc.Longitude
		gsmDate, gsmTime = loc.Date, loc.Time
	default:
		return "", fmt.Errorf("insert measurement: unknown location %T", loc)
	}

	pm := m.PM
	_, err := r.db.Exec(insertMeasurementSQL,
		rowID, formatTimestamp(receivedAt), m.ID, m.IMEI, reading(m.RelativeHumidity), reading(m.Temperature), quality,
		gpsLat, gpsLon, gpsSats, gpsHDOP, gpsAlt, gpsHS,
		gsmLat, gsmLon, gsmDate, gsmTime,
		reading32(pm.MassPM1_0), reading32(pm.MassPM2_5), reading32(pm.MassPM4_0), reading32(pm.MassPM10),
		reading32(pm.NumberPM0_5), reading32(pm.NumberPM1_0), reading32(pm.NumberPM2_5), reading32(pm.NumberPM4_0), reading32(pm.NumberPM10),
		reading32(pm.TypicalSize),
	)
	if err != nil {
		return "", fmt.Errorf("insert measurement: %w", err)
	}
	return rowID, nil
}

func (r *repositoryImpl) GetDevices() ([]types.Device, error) {
	rows, err := r.db.Query(getDevicesSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close devices rows", "error", err)
		}
	}()

	out := []types.Device{}
	for rows.Next() {
		var (
			d        types.Device
			lastSeen string
		)
		if err := rows.Scan(&d.IMEI, &d.Measurements, &lastSeen); err != nil {
			return nil, err
		}
		if d.LastSeen, err = parseTimestamp(lastSeen); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetLatestMeasurements(imei string, limit int) ([]types.Record, error) {
	rows, err := r.db.Query(getLatestMeasurementsSQL, imei, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close latest measurements rows", "error", err)
		}
	}()
	return scanRecords(rows)
}

// GetMeasurements returns measurements received in [from, to], oldest first.
// A zero from or to leaves that side of the range open.
func (r *repositoryImpl) GetMeasurements(imei string, from time.Time, to time.Time, limit int) ([]types.Record, error) {
	rows, err := r.db.Query(getMeasurementsSQL, imei, nullableTimestamp(from), nullableTimestamp(to), limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close measurements rows", "error", err)
		}
	}()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]types.Record, error) {
	out := []types.Record{}
	for rows.Next() {
		var (
			rec        types.Record
			receivedAt string
			quality    sql.NullString
			rh, temp   sql.NullFloat64

			gpsLat, gpsLon, gpsHDOP, gpsAlt, gpsHS sql.NullFloat64
			gpsSats                                sql.NullInt64
			gsmLat, gsmLon, gsmDate, gsmTime       sql.NullString

			pm [10]sql.NullFloat64
		)
		m := &rec.Measurement
		if err := rows.Scan(
			&rec.RowID, &receivedAt, &m.ID, &m.IMEI, &rh, &temp, &quality,
			&gpsLat, &gpsLon, &gpsSats, &gpsHDOP, &gpsAlt, &gpsHS,
			&gsmLat, &gsmLon, &gsmDate, &gsmTime,
			&pm[0], &pm[1], &pm[2], &pm[3], &pm[4], &pm[5], &pm[6], &pm[7], &pm[8], &pm[9],
		); err != nil {
			return nil, err
		}

		t, err := parseTimestamp(receivedAt)
		if err != nil {
			return nil, err
		}
		rec.ReceivedAt = t
		m.RelativeHumidity, m.Temperature = scanned(rh), scanned(temp)

		switch quality.String {
		case telemetry.QualityGPS:
			m.Location = &telemetry.GPSLocation{
				Latitude:         scanned(gpsLat),
				Longitude:        scanned(gpsLon),
				Satellites:       int(gpsSats.Int64),
				HorizontalDOP:    scanned(gpsHDOP),
				Altitude:         scanned(gpsAlt),
				HeightOfSeaLevel: scanned(gpsHS),
			}
		case telemetry.QualityGSM:
			m.Location = &telemetry.GSMLocation{
				Latitude:  gsmLat.String,
				Longitude: gsmLon.String,
				Date:      gsmDate.String,
				Time:      gsmTime.String,
			}
		}

		m.PM = telemetry.ParticulateMatter{
			MassPM1_0:   float32(scanned(pm[0])),
			MassPM2_5:   float32(scanned(pm[1])),
			MassPM4_0:   float32(scanned(pm[2])),
			MassPM10:    float32(scanned(pm[3])),
			NumberPM0_5: float32(scanned(pm[4])),
			NumberPM1_0: float32(scanned(pm[5])),
			NumberPM2_5: float32(scanned(pm[6])),
			NumberPM4_0: float32(scanned(pm[7])),
			NumberPM10:  float32(scanned(pm[8])),
			TypicalSize: float32(scanned(pm[9])),
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// reading maps NaN and ±Inf to NULL; scanned maps NULL back to NaN.
func reading(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func reading32(v float32) any {
	return reading(float64(v))
}

func scanned(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		var err2 error
		t, err2 = time.Parse(time.RFC3339Nano, s)
		if err2 != nil {
			return time.Time{}, fmt.Errorf("parse timestamp %q: %w; RFC3339Nano: %w", s, err, err2)
		}
	}
	return t.UTC(), nil
}

func nullableTimestamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTimestamp(t)
}
