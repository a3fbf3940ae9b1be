package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/jackpot-engine/internal/logger"
	"github.com/yourusername/jackpot-engine/internal/metrics"
	"github.com/yourusername/jackpot-engine/internal/repository"
	"github.com/yourusername/jackpot-engine/internal/snapshot"
)

// SnapshotService loads trained model snapshots from storage and activates
// them in the registry.
type SnapshotService struct {
	repo     repository.SnapshotRepository
	registry *snapshot.Registry
	audit    *logger.AuditLogger
	logger   *logrus.Logger
}

// NewSnapshotService creates a new snapshot service
func NewSnapshotService(repo repository.SnapshotRepository, registry *snapshot.Registry, log *logrus.Logger) *SnapshotService {
	return &SnapshotService{
		repo:     repo,
		registry: registry,
		audit:    logger.NewAuditLogger(log),
		logger:   log,
	}
}

// Reload loads the active model version from storage, validates it and swaps
// it into the registry. A snapshot failing validation leaves the previous
// one active.
func (s *SnapshotService) Reload(ctx context.Context) error {
	version, err := s.repo.GetActiveVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve active model version: %w", err)
	}

	if current, err := s.registry.Active(); err == nil && current.Version() == version.Version {
		metrics.SnapshotAgeSeconds.Set(time.Since(current.TrainedAt()).Seconds())
		s.logger.WithField("version", version.Version).Debug("Active snapshot unchanged")
		return nil
	}

	data, err := s.repo.LoadSnapshot(ctx, version.Version)
	if err != nil {
		return fmt.Errorf("failed to load snapshot %s: %w", version.Version, err)
	}

	snap, err := snapshot.New(*data)
	if err != nil {
		return fmt.Errorf("snapshot %s rejected: %w", version.Version, err)
	}

	oldVersion := ""
	if current, err := s.registry.Active(); err == nil {
		oldVersion = current.Version()
	}

	s.registry.Activate(snap)
	s.audit.LogSnapshotActivation(oldVersion, snap.Version(), snap.TeamCount())

	metrics.ActiveModelTeams.Set(float64(snap.TeamCount()))
	metrics.SnapshotAgeSeconds.Set(time.Since(snap.TrainedAt()).Seconds())

	return nil
}
