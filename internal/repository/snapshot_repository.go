package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/jackpot-engine/internal/database"
	"github.com/yourusername/jackpot-engine/internal/models"
	"github.com/yourusername/jackpot-engine/internal/snapshot"
)

// PostgresSnapshotRepository implements SnapshotRepository for PostgreSQL.
// A snapshot version spans four tables: model_versions, team_strengths,
// model_params and calibration_buckets, plus the per-league draw priors in
// league_configs.
type PostgresSnapshotRepository struct {
	db *database.DB
}

// NewPostgresSnapshotRepository creates a new snapshot repository
func NewPostgresSnapshotRepository(db *database.DB) SnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

// GetActiveVersion returns the currently active model version
func (r *PostgresSnapshotRepository) GetActiveVersion(ctx context.Context) (*models.ModelVersion, error) {
	query := `
		SELECT version, trained_at, active
		FROM model_versions
		WHERE active = TRUE
		ORDER BY trained_at DESC
		LIMIT 1
	`

	mv := &models.ModelVersion{}
	err := r.db.GetPool().QueryRow(ctx, query).Scan(&mv.Version, &mv.TrainedAt, &mv.Active)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active model version: %w", err)
	}

	return mv, nil
}

// LoadSnapshot assembles the full raw snapshot for a version. Validation and
// parameter clamping happen in snapshot.New, not here.
func (r *PostgresSnapshotRepository) LoadSnapshot(ctx context.Context, version string) (*snapshot.SnapshotData, error) {
	data := &snapshot.SnapshotData{Version: version}

	query := `SELECT trained_at FROM model_versions WHERE version = $1`
	err := r.db.GetPool().QueryRow(ctx, query, version).Scan(&data.TrainedAt)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model version %s: %w", version, err)
	}

	strengths, err := r.loadStrengths(ctx, version)
	if err != nil {
		return nil, err
	}
	data.Strengths = strengths

	params, err := r.loadParams(ctx, version)
	if err != nil {
		return nil, err
	}
	data.Params = params

	curves, err := r.loadCurves(ctx, version)
	if err != nil {
		return nil, err
	}
	data.Curves = curves

	leagues, err := r.loadLeagueConfigs(ctx)
	if err != nil {
		return nil, err
	}
	data.LeagueConfigs = leagues

	return data, nil
}

func (r *PostgresSnapshotRepository) loadStrengths(ctx context.Context, version string) (map[string]models.TeamStrength, error) {
	query := `
		SELECT team_id, attack, defense
		FROM team_strengths
		WHERE model_version = $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, version)
	if err != nil {
		return nil, fmt.Errorf("failed to query team strengths: %w", err)
	}
	defer rows.Close()

	strengths := make(map[string]models.TeamStrength)
	for rows.Next() {
		ts := models.TeamStrength{}
		if err := rows.Scan(&ts.TeamID, &ts.Attack, &ts.Defense); err != nil {
			return nil, fmt.Errorf("failed to scan team strength: %w", err)
		}
		strengths[ts.TeamID] = ts
	}

	return strengths, rows.Err()
}

func (r *PostgresSnapshotRepository) loadParams(ctx context.Context, version string) (models.DixonColesParams, error) {
	query := `
		SELECT rho, home_advantage, temperature
		FROM model_params
		WHERE model_version = $1
	`

	params := models.DixonColesParams{}
	err := r.db.GetPool().QueryRow(ctx, query, version).Scan(
		&params.Rho, &params.HomeAdvantage, &params.Temperature,
	)
	if err == pgx.ErrNoRows {
		return params, models.ErrNotFound
	}
	if err != nil {
		return params, fmt.Errorf("failed to get model params: %w", err)
	}

	return params, nil
}

func (r *PostgresSnapshotRepository) loadCurves(ctx context.Context, version string) (map[models.Outcome]*models.CalibrationCurve, error) {
	query := `
		SELECT outcome, predicted_bucket, observed_frequency, sample_count
		FROM calibration_buckets
		WHERE model_version = $1
		ORDER BY outcome, predicted_bucket ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, version)
	if err != nil {
		return nil, fmt.Errorf("failed to query calibration buckets: %w", err)
	}
	defer rows.Close()

	curves := make(map[models.Outcome]*models.CalibrationCurve)
	for rows.Next() {
		var outcome models.Outcome
		bucket := models.CalibrationBucket{}
		if err := rows.Scan(&outcome, &bucket.PredictedBucket, &bucket.ObservedFrequency, &bucket.SampleCount); err != nil {
			return nil, fmt.Errorf("failed to scan calibration bucket: %w", err)
		}
		curve, ok := curves[outcome]
		if !ok {
			curve = &models.CalibrationCurve{Outcome: outcome}
			curves[outcome] = curve
		}
		curve.Buckets = append(curve.Buckets, bucket)
	}

	return curves, rows.Err()
}

func (r *PostgresSnapshotRepository) loadLeagueConfigs(ctx context.Context) (map[string]models.LeagueConfig, error) {
	query := `
		SELECT code, min_draws, max_draws, draw_floor, draw_ceiling, draw_prior
		FROM league_configs
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query league configs: %w", err)
	}
	defer rows.Close()

	leagues := make(map[string]models.LeagueConfig)
	for rows.Next() {
		lc := models.LeagueConfig{}
		if err := rows.Scan(&lc.Code, &lc.MinDraws, &lc.MaxDraws, &lc.DrawFloor, &lc.DrawCeiling, &lc.DrawPrior); err != nil {
			return nil, fmt.Errorf("failed to scan league config: %w", err)
		}
		leagues[lc.Code] = lc
	}

	return leagues, rows.Err()
}

// SaveCalibrationCurves replaces the calibration curves stored for a version.
// Runs in one transaction so a reload never observes a half-written curve set.
func (r *PostgresSnapshotRepository) SaveCalibrationCurves(ctx context.Context, version string, curves map[models.Outcome]*models.CalibrationCurve) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM calibration_buckets WHERE model_version = $1`, version); err != nil {
			return fmt.Errorf("failed to clear calibration buckets: %w", err)
		}

		insert := `
			INSERT INTO calibration_buckets (model_version, outcome, predicted_bucket, observed_frequency, sample_count)
			VALUES ($1, $2, $3, $4, $5)
		`
		for outcome, curve := range curves {
			if curve == nil {
				continue
			}
			for _, b := range curve.Buckets {
				if _, err := tx.Exec(ctx, insert, version, outcome, b.PredictedBucket, b.ObservedFrequency, b.SampleCount); err != nil {
					return fmt.Errorf("failed to insert calibration bucket: %w", err)
				}
			}
		}

		return nil
	})
}

// SetActive marks a version active and deactivates all others atomically
func (r *PostgresSnapshotRepository) SetActive(ctx context.Context, version string) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE model_versions SET active = FALSE WHERE active = TRUE`); err != nil {
			return fmt.Errorf("failed to deactivate model versions: %w", err)
		}

		tag, err := tx.Exec(ctx, `UPDATE model_versions SET active = TRUE WHERE version = $1`, version)
		if err != nil {
			return fmt.Errorf("failed to activate model version %s: %w", version, err)
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		return nil
	})
}
