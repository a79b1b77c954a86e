package controller

import (
	"net/http"

	"pmcu-collector/internal/modules/measurements/repository"
)

type MeasurementController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type measurementControllerImpl struct {
	repository repository.MeasurementRepository
}

func NewMeasurementController(repository repository.MeasurementRepository) MeasurementController {
	return &measurementControllerImpl{repository: repository}
}

func (c *measurementControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/devices", c.handleDevices)
	mux.HandleFunc("GET /api/devices/{imei}/latest", c.handleLatest)
	mux.HandleFunc("GET /api/devices/{imei}/measurements", c.handleMeasurements)
}
