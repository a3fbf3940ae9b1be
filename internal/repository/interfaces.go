package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/jackpot-engine/internal/models"
	"github.com/yourusername/jackpot-engine/internal/snapshot"
)

// SnapshotRepository defines the interface for trained model snapshot access
type SnapshotRepository interface {
	GetActiveVersion(ctx context.Context) (*models.ModelVersion, error)
	LoadSnapshot(ctx context.Context, version string) (*snapshot.SnapshotData, error)
	SaveCalibrationCurves(ctx context.Context, version string, curves map[models.Outcome]*models.CalibrationCurve) error
	SetActive(ctx context.Context, version string) error
}

// FixtureRepository defines the interface for fixture data access
type FixtureRepository interface {
	Create(ctx context.Context, fixture *models.Fixture) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Fixture, error)
	GetByJackpotID(ctx context.Context, jackpotID uuid.UUID) ([]*models.Fixture, error)
	UpdateOdds(ctx context.Context, id uuid.UUID, odds *models.MarketOdds) error
	GetUpcoming(ctx context.Context, limit int) ([]*models.Fixture, error)
}

// PredictionRepository defines the interface for prediction audit rows
type PredictionRepository interface {
	Insert(ctx context.Context, prediction *models.Prediction) error
	InsertBatch(ctx context.Context, predictions []*models.Prediction) error
	GetByFixtureID(ctx context.Context, fixtureID uuid.UUID) ([]*models.Prediction, error)
	RecordOutcome(ctx context.Context, fixtureID uuid.UUID, outcome models.Outcome) error
	GetSettledSince(ctx context.Context, setName string, since time.Time) ([]*models.Prediction, error)
}

// TicketRepository defines the interface for generated ticket batches
type TicketRepository interface {
	SaveBatch(ctx context.Context, batch *models.TicketBatch) error
	GetByJackpotID(ctx context.Context, jackpotID uuid.UUID) (*models.TicketBatch, error)
}

// H2HRepository defines the interface for head-to-head history access
type H2HRepository interface {
	GetByTeams(ctx context.Context, homeTeamID, awayTeamID string) (*models.H2HStats, error)
	Upsert(ctx context.Context, homeTeamID, awayTeamID string, stats *models.H2HStats) error
}
