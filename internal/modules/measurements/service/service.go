package service

import (
	"log/slog"
	"time"

	"pmcu-collector/internal/modules/measurements/repository"
	"pmcu-collector/internal/telemetry"
)

// Service stores decoded measurements. It is the sqlite sink of the collector.
type Service struct {
	repository repository.MeasurementRepository
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repository repository.MeasurementRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repository: repository, logger: logger, now: time.Now}
}

func (s *Service) Name() string { return "sqlite" }

func (s *Service) Write(m telemetry.Measurement) error {
	s.logger.Debug("storing measurement",
		"imei", m.IMEI,
		"location", m.LocationQuality(),
	)

	rowID, err := s.repository.InsertMeasurement(s.now(), m)
	if err != nil {
		s.logger.Error("failed to insert measurement",
			"imei", m.IMEI,
			"error", err,
		)
		return err
	}

	s.logger.Debug("successfully stored measurement",
		"imei", m.IMEI,
		"row_id", rowID,
	)
	return nil
}
