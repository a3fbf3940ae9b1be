package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/jackpot-engine/internal/database"
	"github.com/yourusername/jackpot-engine/internal/models"
)

const errScanPrediction = "failed to scan prediction: %w"

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL.
// DrawComponents and UncertaintyMetadata are stored as JSONB audit blobs; the
// probability triple gets its own columns so settled rows can feed calibration
// refits with a plain query.
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Insert stores a single prediction audit row
func (r *PostgresPredictionRepository) Insert(ctx context.Context, prediction *models.Prediction) error {
	query := `
		INSERT INTO predictions (id, fixture_id, model_version, set_name, prob_home, prob_draw, prob_away,
		                         draw_components, uncertainty, outcome, predicted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	components, uncertainty, err := marshalAuditBlobs(prediction)
	if err != nil {
		return err
	}

	_, err = r.db.GetPool().Exec(ctx, query,
		prediction.ID, prediction.FixtureID, prediction.ModelVersion, prediction.SetName,
		prediction.Probs.Home, prediction.Probs.Draw, prediction.Probs.Away,
		components, uncertainty, prediction.Outcome, prediction.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	return nil
}

// InsertBatch stores multiple predictions in a single transaction
func (r *PostgresPredictionRepository) InsertBatch(ctx context.Context, predictions []*models.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO predictions (id, fixture_id, model_version, set_name, prob_home, prob_draw, prob_away,
			                         draw_components, uncertainty, outcome, predicted_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		for _, p := range predictions {
			components, uncertainty, err := marshalAuditBlobs(p)
			if err != nil {
				return err
			}
			_, err = tx.Exec(ctx, query,
				p.ID, p.FixtureID, p.ModelVersion, p.SetName,
				p.Probs.Home, p.Probs.Draw, p.Probs.Away,
				components, uncertainty, p.Outcome, p.PredictedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert prediction %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// GetByFixtureID retrieves all probability sets stored for a fixture
func (r *PostgresPredictionRepository) GetByFixtureID(ctx context.Context, fixtureID uuid.UUID) ([]*models.Prediction, error) {
	query := `
		SELECT id, fixture_id, model_version, set_name, prob_home, prob_draw, prob_away,
		       draw_components, uncertainty, outcome, predicted_at
		FROM predictions
		WHERE fixture_id = $1
		ORDER BY predicted_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// RecordOutcome backfills the result onto every prediction of a fixture
func (r *PostgresPredictionRepository) RecordOutcome(ctx context.Context, fixtureID uuid.UUID, outcome models.Outcome) error {
	query := `UPDATE predictions SET outcome = $2 WHERE fixture_id = $1`

	tag, err := r.db.GetPool().Exec(ctx, query, fixtureID, outcome)
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetSettledSince retrieves settled predictions for one probability set,
// the input to calibration refits.
func (r *PostgresPredictionRepository) GetSettledSince(ctx context.Context, setName string, since time.Time) ([]*models.Prediction, error) {
	query := `
		SELECT id, fixture_id, model_version, set_name, prob_home, prob_draw, prob_away,
		       draw_components, uncertainty, outcome, predicted_at
		FROM predictions
		WHERE set_name = $1 AND outcome IS NOT NULL AND predicted_at >= $2
		ORDER BY predicted_at ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, setName, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query settled predictions: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

func scanPredictions(rows pgx.Rows) ([]*models.Prediction, error) {
	var predictions []*models.Prediction
	for rows.Next() {
		p := &models.Prediction{}
		var components, uncertainty []byte
		err := rows.Scan(
			&p.ID, &p.FixtureID, &p.ModelVersion, &p.SetName,
			&p.Probs.Home, &p.Probs.Draw, &p.Probs.Away,
			&components, &uncertainty, &p.Outcome, &p.PredictedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanPrediction, err)
		}
		if len(components) > 0 {
			p.Components = &models.DrawComponents{}
			if err := json.Unmarshal(components, p.Components); err != nil {
				return nil, fmt.Errorf("failed to decode draw components: %w", err)
			}
		}
		if len(uncertainty) > 0 {
			p.Uncertainty = &models.UncertaintyMetadata{}
			if err := json.Unmarshal(uncertainty, p.Uncertainty); err != nil {
				return nil, fmt.Errorf("failed to decode uncertainty metadata: %w", err)
			}
		}
		predictions = append(predictions, p)
	}

	return predictions, rows.Err()
}

func marshalAuditBlobs(p *models.Prediction) ([]byte, []byte, error) {
	var components, uncertainty []byte
	var err error
	if p.Components != nil {
		if components, err = json.Marshal(p.Components); err != nil {
			return nil, nil, fmt.Errorf("failed to encode draw components: %w", err)
		}
	}
	if p.Uncertainty != nil {
		if uncertainty, err = json.Marshal(p.Uncertainty); err != nil {
			return nil, nil, fmt.Errorf("failed to encode uncertainty metadata: %w", err)
		}
	}
	return components, uncertainty, nil
}
