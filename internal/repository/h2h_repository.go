package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/jackpot-engine/internal/database"
	"github.com/yourusername/jackpot-engine/internal/models"
)

// PostgresH2HRepository implements H2HRepository for PostgreSQL. Head-to-head
// history is stored once per unordered pair; the pair key is normalized so
// lookups are side-insensitive.
type PostgresH2HRepository struct {
	db *database.DB
}

// NewPostgresH2HRepository creates a new head-to-head repository
func NewPostgresH2HRepository(db *database.DB) H2HRepository {
	return &PostgresH2HRepository{db: db}
}

// GetByTeams retrieves the head-to-head stats for a pair of teams. Returns
// models.ErrNotFound when the pair has no recorded history; callers treat
// that as an absent signal, not a failure.
func (r *PostgresH2HRepository) GetByTeams(ctx context.Context, homeTeamID, awayTeamID string) (*models.H2HStats, error) {
	teamA, teamB := normalizePair(homeTeamID, awayTeamID)

	query := `
		SELECT meetings, draws, last_meeting_year, draw_index
		FROM h2h_stats
		WHERE team_a = $1 AND team_b = $2
	`

	stats := &models.H2HStats{}
	err := r.db.GetPool().QueryRow(ctx, query, teamA, teamB).Scan(
		&stats.Meetings, &stats.Draws, &stats.LastMeetingYear, &stats.DrawIndex,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get h2h stats: %w", err)
	}

	return stats, nil
}

// Upsert inserts or replaces the head-to-head stats for a pair of teams
func (r *PostgresH2HRepository) Upsert(ctx context.Context, homeTeamID, awayTeamID string, stats *models.H2HStats) error {
	teamA, teamB := normalizePair(homeTeamID, awayTeamID)

	query := `
		INSERT INTO h2h_stats (team_a, team_b, meetings, draws, last_meeting_year, draw_index)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (team_a, team_b) DO UPDATE SET
			meetings = EXCLUDED.meetings,
			draws = EXCLUDED.draws,
			last_meeting_year = EXCLUDED.last_meeting_year,
			draw_index = EXCLUDED.draw_index
	`

	_, err := r.db.GetPool().Exec(ctx, query, teamA, teamB, stats.Meetings, stats.Draws, stats.LastMeetingYear, stats.DrawIndex)
	if err != nil {
		return fmt.Errorf("failed to upsert h2h stats: %w", err)
	}

	return nil
}

// normalizePair orders a team pair lexicographically for the storage key.
func normalizePair(a, b string) (string, string) {
	if a <= b {
		return a, b
	}
	return b, a
}
