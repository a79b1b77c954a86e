package types

import (
	"time"

	"pmcu-collector/internal/telemetry"
)

type Device struct {
	IMEI         string    `json:"imei"`
	Measurements int       `json:"measurements"`
	LastSeen     time.Time `json:"lastSeen"`
}

// Record is a stored measurement together with when the collector received it.
type Record struct {
	RowID       string                `json:"rowId"`
	ReceivedAt  time.Time             `json:"receivedAt"`
	Measurement telemetry.Measurement `json:"measurement"`
}
