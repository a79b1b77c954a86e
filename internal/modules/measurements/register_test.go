package measurements

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"pmcu-collector/internal/migrate"
	"pmcu-collector/internal/telemetry"
)

func TestRegisterFeature_StoreAndQuery(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	defer db.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := migrate.Run(context.Background(), db, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mux := http.NewServeMux()
	svc := RegisterFeature(mux, db, logger)

	m := telemetry.Measurement{
		ID:               "pmcu/863730011223344",
		IMEI:             "863730011223344",
		RelativeHumidity: 23.5,
		Temperature:      20.7,
		Location:         &telemetry.GPSLocation{Latitude: 48.1173, Longitude: 11.5166, Satellites: 8},
	}
	if err := svc.Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/devices", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/devices status = %d", rec.Code)
	}
	var devices []struct {
		IMEI         string `json:"imei"`
		Measurements int    `json:"measurements"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&devices); err != nil {
		t.Fatalf("decode devices: %v", err)
	}
	if len(devices) != 1 || devices[0].IMEI != m.IMEI || devices[0].Measurements != 1 {
		t.Errorf("devices = %+v", devices)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/devices/863730011223344/measurements", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET measurements status = %d", rec.Code)
	}
	var records []struct {
		Measurement map[string]any `json:"measurement"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&records); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	got := records[0].Measurement
	if got["location_quality"] != "gps" || got["location_number_of_satellites"] != float64(8) {
		t.Errorf("measurement = %v", got)
	}
}
