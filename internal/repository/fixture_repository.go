package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yourusername/jackpot-engine/internal/database"
	"github.com/yourusername/jackpot-engine/internal/models"
)

const errScanFixture = "failed to scan fixture: %w"

// PostgresFixtureRepository implements FixtureRepository for PostgreSQL
type PostgresFixtureRepository struct {
	db *database.DB
}

// NewPostgresFixtureRepository creates a new fixture repository
func NewPostgresFixtureRepository(db *database.DB) FixtureRepository {
	return &PostgresFixtureRepository{db: db}
}

// Create inserts a new fixture
func (r *PostgresFixtureRepository) Create(ctx context.Context, fixture *models.Fixture) error {
	query := `
		INSERT INTO fixtures (id, home_team_id, away_team_id, league_code, kickoff_at, odds_home, odds_draw, odds_away)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var home, draw, away *decimal.Decimal
	if fixture.MarketOdds != nil {
		home, draw, away = &fixture.MarketOdds.Home, &fixture.MarketOdds.Draw, &fixture.MarketOdds.Away
	}

	_, err := r.db.GetPool().Exec(ctx, query,
		fixture.ID, fixture.HomeTeamID, fixture.AwayTeamID, fixture.LeagueCode,
		fixture.KickoffAt, home, draw, away,
	)
	if err != nil {
		return fmt.Errorf("failed to create fixture: %w", err)
	}

	return nil
}

// GetByID retrieves a fixture by ID
func (r *PostgresFixtureRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Fixture, error) {
	query := `
		SELECT id, home_team_id, away_team_id, league_code, kickoff_at, odds_home, odds_draw, odds_away
		FROM fixtures WHERE id = $1
	`

	fixture, err := scanFixture(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture: %w", err)
	}

	return fixture, nil
}

// GetByJackpotID retrieves the fixtures of a jackpot in position order
func (r *PostgresFixtureRepository) GetByJackpotID(ctx context.Context, jackpotID uuid.UUID) ([]*models.Fixture, error) {
	query := `
		SELECT f.id, f.home_team_id, f.away_team_id, f.league_code, f.kickoff_at,
		       f.odds_home, f.odds_draw, f.odds_away
		FROM fixtures f
		JOIN jackpot_fixtures jf ON jf.fixture_id = f.id
		WHERE jf.jackpot_id = $1
		ORDER BY jf.position ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, jackpotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query jackpot fixtures: %w", err)
	}
	defer rows.Close()

	var fixtures []*models.Fixture
	for rows.Next() {
		fixture, err := scanFixture(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanFixture, err)
		}
		fixtures = append(fixtures, fixture)
	}

	return fixtures, rows.Err()
}

// UpdateOdds replaces the stored market odds for a fixture
func (r *PostgresFixtureRepository) UpdateOdds(ctx context.Context, id uuid.UUID, odds *models.MarketOdds) error {
	query := `
		UPDATE fixtures SET odds_home = $2, odds_draw = $3, odds_away = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.GetPool().Exec(ctx, query, id, odds.Home, odds.Draw, odds.Away)
	if err != nil {
		return fmt.Errorf("failed to update fixture odds: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetUpcoming retrieves fixtures kicking off in the future
func (r *PostgresFixtureRepository) GetUpcoming(ctx context.Context, limit int) ([]*models.Fixture, error) {
	query := `
		SELECT id, home_team_id, away_team_id, league_code, kickoff_at, odds_home, odds_draw, odds_away
		FROM fixtures
		WHERE kickoff_at > NOW()
		ORDER BY kickoff_at ASC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming fixtures: %w", err)
	}
	defer rows.Close()

	var fixtures []*models.Fixture
	for rows.Next() {
		fixture, err := scanFixture(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanFixture, err)
		}
		fixtures = append(fixtures, fixture)
	}

	return fixtures, rows.Err()
}

// scanFixture reads one fixture row, attaching odds only when all three legs
// are present.
func scanFixture(row pgx.Row) (*models.Fixture, error) {
	fixture := &models.Fixture{}
	var home, draw, away *decimal.Decimal
	err := row.Scan(
		&fixture.ID, &fixture.HomeTeamID, &fixture.AwayTeamID, &fixture.LeagueCode,
		&fixture.KickoffAt, &home, &draw, &away,
	)
	if err != nil {
		return nil, err
	}
	if home != nil && draw != nil && away != nil {
		fixture.MarketOdds = &models.MarketOdds{Home: *home, Draw: *draw, Away: *away}
	}
	return fixture, nil
}
