package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/jackpot-engine/internal/engine"
	"github.com/yourusername/jackpot-engine/internal/metrics"
	"github.com/yourusername/jackpot-engine/internal/models"
	"github.com/yourusername/jackpot-engine/internal/repository"
	"github.com/yourusername/jackpot-engine/internal/snapshot"
)

// CalibrationService refits isotonic calibration curves from settled
// prediction history and evaluates per-set accuracy.
type CalibrationService struct {
	predictionRepo repository.PredictionRepository
	snapshotRepo   repository.SnapshotRepository
	registry       *snapshot.Registry
	tuning         engine.Tuning
	logger         *logrus.Logger
}

// NewCalibrationService creates a new calibration service
func NewCalibrationService(
	predictionRepo repository.PredictionRepository,
	snapshotRepo repository.SnapshotRepository,
	registry *snapshot.Registry,
	tuning engine.Tuning,
	log *logrus.Logger,
) *CalibrationService {
	return &CalibrationService{
		predictionRepo: predictionRepo,
		snapshotRepo:   snapshotRepo,
		registry:       registry,
		tuning:         tuning,
		logger:         log,
	}
}

// Refit fits fresh curves for one probability set from settled predictions
// since the given time and stores them against the active model version.
// Outcomes whose sample volume is too thin keep no curve and fall back to
// passthrough, which is the designed behavior for sparse history.
func (s *CalibrationService) Refit(ctx context.Context, setName string, since time.Time) (map[models.Outcome]*models.CalibrationCurve, error) {
	snap, err := s.registry.Active()
	if err != nil {
		return nil, err
	}

	settled, err := s.predictionRepo.GetSettledSince(ctx, setName, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load settled predictions: %w", err)
	}

	samples := engine.CollectCalibrationSamples(setName, settled)
	curves := make(map[models.Outcome]*models.CalibrationCurve)
	for _, outcome := range models.Outcomes {
		curve, err := engine.FitCalibrationCurve(outcome, samples[outcome], s.tuning)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"set_name": setName,
				"outcome":  outcome,
			}).Warn("Skipping calibration curve, insufficient samples")
			continue
		}
		curves[outcome] = curve
	}

	if len(curves) == 0 {
		metrics.CalibrationPassthroughsTotal.Inc()
		return curves, nil
	}

	if err := s.snapshotRepo.SaveCalibrationCurves(ctx, snap.Version(), curves); err != nil {
		return nil, fmt.Errorf("failed to store calibration curves: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"set_name": setName,
		"version":  snap.Version(),
		"outcomes": len(curves),
		"settled":  len(settled),
	}).Info("Calibration curves refitted")

	return curves, nil
}

// Evaluate computes accuracy statistics for one probability set over the
// settled predictions since the given time.
func (s *CalibrationService) Evaluate(ctx context.Context, setName string, since time.Time) (engine.SetAccuracy, error) {
	settled, err := s.predictionRepo.GetSettledSince(ctx, setName, since)
	if err != nil {
		return engine.SetAccuracy{}, fmt.Errorf("failed to load settled predictions: %w", err)
	}
	return engine.EvaluateSetAccuracy(setName, settled), nil
}
