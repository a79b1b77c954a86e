package controller

import (
	"log/slog"
	"net/http"

	"pmcu-collector/internal/utils"
)

func (c *measurementControllerImpl) handleDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := c.repository.GetDevices()
	if err != nil {
		slog.Error("devices: get devices failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load devices")
		return
	}
	utils.WriteJSON(w, http.StatusOK, devices)
}

func (c *measurementControllerImpl) handleLatest(w http.ResponseWriter, r *http.Request) {
	imei := r.PathValue("imei")
	if imei == "" {
		utils.WriteError(w, http.StatusBadRequest, "missing imei")
		return
	}

	limit, err := parseLatestQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	latest, err := c.repository.GetLatestMeasurements(imei, limit)
	if err != nil {
		slog.Error("latest: get measurements failed", "imei", imei, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load measurements")
		return
	}
	utils.WriteJSON(w, http.StatusOK, latest)
}

func (c *measurementControllerImpl) handleMeasurements(w http.ResponseWriter, r *http.Request) {
	imei := r.PathValue("imei")
	if imei == "" {
		utils.WriteError(w, http.StatusBadRequest, "missing imei")
		return
	}

	from, to, limit, err := parseMeasurementsQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := c.repository.GetMeasurements(imei, from, to, limit)
	if err != nil {
		slog.Error("measurements: get measurements failed", "imei", imei, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load measurements")
		return
	}
	utils.WriteJSON(w, http.StatusOK, records)
}
