package httpapi

import (
	"database/sql"
	"log/slog"
	"net/http"

	"pmcu-collector/internal/utils"
)

// MQTTStatus reports the broker connection state shown by /healthz.
type MQTTStatus interface {
	IsConnected() bool
}

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	db   *sql.DB
	mqtt MQTTStatus
}

func NewHealthchecker(db *sql.DB, mqtt MQTTStatus) healthchecker {
	return &healthcheckerImpl{db: db, mqtt: mqtt}
}

// handleHealthz fails only when the database is unreachable. A lost broker
// connection is reported but the collector keeps serving stored data.
func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	var ok int
	if err := h.db.QueryRowContext(r.Context(), `SELECT 1`).Scan(&ok); err != nil {
		slog.Error("failed to check database connectivity", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to check database connectivity")
		return
	}

	mqttState := "disconnected"
	if h.mqtt != nil && h.mqtt.IsConnected() {
		mqttState = "connected"
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"mqtt":   mqttState,
	})
}

func registerHealthcheck(mux *http.ServeMux, db *sql.DB, mqtt MQTTStatus) {
	healthchecker := NewHealthchecker(db, mqtt)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
}
