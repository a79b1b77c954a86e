package measurements

import (
	"database/sql"
	"log/slog"
	"net/http"

	"pmcu-collector/internal/modules/measurements/controller"
	"pmcu-collector/internal/modules/measurements/repository"
	"pmcu-collector/internal/modules/measurements/service"
)

// RegisterFeature mounts the measurement API on mux and returns the service
// that stores incoming measurements.
func RegisterFeature(mux *http.ServeMux, db *sql.DB, logger *slog.Logger) *service.Service {
	measurementRepository := repository.NewRepository(db)
	measurementController := controller.NewMeasurementController(measurementRepository)
	measurementController.RegisterRoutes(mux)
	return service.NewService(measurementRepository, logger)
}
