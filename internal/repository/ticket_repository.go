package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/jackpot-engine/internal/database"
	"github.com/yourusername/jackpot-engine/internal/models"
)

// PostgresTicketRepository implements TicketRepository for PostgreSQL
type PostgresTicketRepository struct {
	db *database.DB
}

// NewPostgresTicketRepository creates a new ticket repository
func NewPostgresTicketRepository(db *database.DB) TicketRepository {
	return &PostgresTicketRepository{db: db}
}

// SaveBatch persists a generated batch, replacing any previous batch for the
// same jackpot. Batch header, tickets and selections go in one transaction.
func (r *PostgresTicketRepository) SaveBatch(ctx context.Context, batch *models.TicketBatch) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM ticket_batches WHERE jackpot_id = $1`, batch.JackpotID); err != nil {
			return fmt.Errorf("failed to clear previous batch: %w", err)
		}

		header := `
			INSERT INTO ticket_batches (jackpot_id, league_code, set_name, min_draws, max_draws)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.Exec(ctx, header, batch.JackpotID, batch.LeagueCode, batch.SetName, batch.MinDraws, batch.MaxDraws); err != nil {
			return fmt.Errorf("failed to insert batch header: %w", err)
		}

		ticketInsert := `
			INSERT INTO tickets (id, jackpot_id, ordinal)
			VALUES ($1, $2, $3)
		`
		selectionInsert := `
			INSERT INTO ticket_selections (ticket_id, fixture_id, outcome, probability, position)
			VALUES ($1, $2, $3, $4, $5)
		`
		for i := range batch.Tickets {
			t := &batch.Tickets[i]
			if _, err := tx.Exec(ctx, ticketInsert, t.ID, batch.JackpotID, i); err != nil {
				return fmt.Errorf("failed to insert ticket %s: %w", t.ID, err)
			}
			for pos, s := range t.Selections {
				if _, err := tx.Exec(ctx, selectionInsert, t.ID, s.FixtureID, s.Outcome, s.Probability, pos); err != nil {
					return fmt.Errorf("failed to insert selection: %w", err)
				}
			}
		}

		return nil
	})
}

// GetByJackpotID retrieves the stored batch for a jackpot
func (r *PostgresTicketRepository) GetByJackpotID(ctx context.Context, jackpotID uuid.UUID) (*models.TicketBatch, error) {
	header := `
		SELECT jackpot_id, league_code, set_name, min_draws, max_draws
		FROM ticket_batches WHERE jackpot_id = $1
	`

	batch := &models.TicketBatch{}
	err := r.db.GetPool().QueryRow(ctx, header, jackpotID).Scan(
		&batch.JackpotID, &batch.LeagueCode, &batch.SetName, &batch.MinDraws, &batch.MaxDraws,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket batch: %w", err)
	}

	query := `
		SELECT t.id, s.fixture_id, s.outcome, s.probability
		FROM tickets t
		JOIN ticket_selections s ON s.ticket_id = t.id
		WHERE t.jackpot_id = $1
		ORDER BY t.ordinal ASC, s.position ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, jackpotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var current *models.Ticket
	for rows.Next() {
		var ticketID uuid.UUID
		sel := models.Selection{}
		if err := rows.Scan(&ticketID, &sel.FixtureID, &sel.Outcome, &sel.Probability); err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		if current == nil || current.ID != ticketID {
			batch.Tickets = append(batch.Tickets, models.Ticket{ID: ticketID})
			current = &batch.Tickets[len(batch.Tickets)-1]
		}
		current.Selections = append(current.Selections, sel)
	}

	return batch, rows.Err()
}
