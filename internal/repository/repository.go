package repository

import (
	"fmt"

	"github.com/yourusername/jackpot-engine/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Snapshot   SnapshotRepository
	Fixture    FixtureRepository
	Prediction PredictionRepository
	Ticket     TicketRepository
	H2H        H2HRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Snapshot:   NewPostgresSnapshotRepository(db),
		Fixture:    NewPostgresFixtureRepository(db),
		Prediction: NewPostgresPredictionRepository(db),
		Ticket:     NewPostgresTicketRepository(db),
		H2H:        NewPostgresH2HRepository(db),
	}, nil
}
