// Package service orchestrates the probability pipeline, ticket generation
// and calibration maintenance over the repositories and external sources.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/jackpot-engine/internal/datasource"
	"github.com/yourusername/jackpot-engine/internal/engine"
	"github.com/yourusername/jackpot-engine/internal/logger"
	"github.com/yourusername/jackpot-engine/internal/metrics"
	"github.com/yourusername/jackpot-engine/internal/models"
	"github.com/yourusername/jackpot-engine/internal/oddsfeed"
	"github.com/yourusername/jackpot-engine/internal/repository"
	"github.com/yourusername/jackpot-engine/internal/snapshot"
)

// FixturePrediction pairs a fixture and its resolved signals with the full
// pipeline result, so downstream consumers (ticket generation, persistence)
// see exactly the inputs the probabilities were computed from. ModelVersion
// is pinned at computation time; a snapshot swap between computation and
// persistence must not relabel the audit rows.
type FixturePrediction struct {
	Fixture      *models.Fixture
	Features     models.StructuralFeatures
	ModelVersion string
	Result       *engine.FixtureResult
}

// PredictionService computes probability sets for fixtures against the
// active model snapshot.
type PredictionService struct {
	registry       *snapshot.Registry
	fixtureRepo    repository.FixtureRepository
	predictionRepo repository.PredictionRepository
	h2hRepo        repository.H2HRepository
	features       datasource.FeatureSource
	drift          *oddsfeed.DriftTracker
	tuning         engine.Tuning
	maxParallel    int
	cache          *cache.Cache
	audit          *logger.AuditLogger
	logger         *logrus.Logger
}

// PredictionServiceConfig bundles the service dependencies. Features, Drift
// and H2HRepo are optional; a nil source just means that signal is always
// absent.
type PredictionServiceConfig struct {
	Registry       *snapshot.Registry
	FixtureRepo    repository.FixtureRepository
	PredictionRepo repository.PredictionRepository
	H2HRepo        repository.H2HRepository
	Features       datasource.FeatureSource
	Drift          *oddsfeed.DriftTracker
	Tuning         engine.Tuning
	MaxParallel    int
	CacheTTL       time.Duration
	Logger         *logrus.Logger
}

// NewPredictionService creates a new prediction service
func NewPredictionService(cfg PredictionServiceConfig) *PredictionService {
	maxParallel := cfg.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 8
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &PredictionService{
		registry:       cfg.Registry,
		fixtureRepo:    cfg.FixtureRepo,
		predictionRepo: cfg.PredictionRepo,
		h2hRepo:        cfg.H2HRepo,
		features:       cfg.Features,
		drift:          cfg.Drift,
		tuning:         cfg.Tuning,
		maxParallel:    maxParallel,
		cache:          cache.New(ttl, ttl/2),
		audit:          logger.NewAuditLogger(cfg.Logger),
		logger:         cfg.Logger,
	}
}

// PredictFixture computes all probability sets for one fixture. Results are
// memoized per fixture and model version until the cache TTL expires.
func (s *PredictionService) PredictFixture(ctx context.Context, fixture *models.Fixture) (*FixturePrediction, error) {
	snap, err := s.registry.Active()
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%s:%s", fixture.ID, snap.Version())
	if cached, ok := s.cache.Get(cacheKey); ok {
		metrics.RecordCacheHit()
		return cached.(*FixturePrediction), nil
	}
	metrics.RecordCacheMiss()

	features := s.resolveFeatures(ctx, fixture)
	prediction, err := s.compute(snap, fixture, features)
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKey, prediction, cache.DefaultExpiration)
	return prediction, nil
}

// PredictJackpot computes all probability sets for every fixture of a
// jackpot, fanning out across fixtures up to the configured parallelism, and
// persists the audit rows.
func (s *PredictionService) PredictJackpot(ctx context.Context, jackpotID uuid.UUID) ([]*FixturePrediction, error) {
	fixtures, err := s.fixtureRepo.GetByJackpotID(ctx, jackpotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load jackpot fixtures: %w", err)
	}
	if len(fixtures) == 0 {
		return nil, models.ErrEmptyJackpot
	}

	predictions := make([]*FixturePrediction, len(fixtures))
	errs := make([]error, len(fixtures))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.maxParallel)
	for i, fixture := range fixtures {
		wg.Add(1)
		go func(i int, fixture *models.Fixture) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			predictions[i], errs[i] = s.PredictFixture(ctx, fixture)
		}(i, fixture)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %w", fixtures[i].ID, err)
		}
	}

	if err := s.persist(ctx, predictions); err != nil {
		// Predictions are still usable; persistence failure is reported but
		// does not discard the computation.
		s.logger.WithError(err).WithField("jackpot_id", jackpotID).
			Error("Failed to persist prediction audit rows")
	}

	return predictions, nil
}

// compute runs the pipeline for one fixture against a snapshot.
func (s *PredictionService) compute(snap *snapshot.ModelSnapshot, fixture *models.Fixture, features models.StructuralFeatures) (*FixturePrediction, error) {
	start := time.Now()

	home, homeKnown := snap.ResolveStrength(fixture.HomeTeamID)
	away, awayKnown := snap.ResolveStrength(fixture.AwayTeamID)
	if !homeKnown {
		metrics.RecordMissingSignal("home_strength")
	}
	if !awayKnown {
		metrics.RecordMissingSignal("away_strength")
	}

	pipeline := engine.NewPipeline(snap.Params(), snap.Curves(), s.tuning, s.logger)
	result, err := pipeline.Compute(engine.PipelineInput{
		Fixture:  fixture,
		Home:     home,
		Away:     away,
		League:   snap.LeagueConfig(fixture.LeagueCode),
		Features: features,
	})
	if err != nil {
		return nil, err
	}

	for _, stage := range result.CorrectedStages {
		metrics.RecordInvariantCorrection(stage)
		s.audit.LogInvariantCorrection(fixture.ID.String(), stage, 0)
	}
	if !pipeline.CalibrationEnabled() {
		metrics.CalibrationPassthroughsTotal.Inc()
	}
	metrics.RecordPrediction(time.Since(start).Seconds(), result.Uncertainty.Entropy)

	return &FixturePrediction{
		Fixture:      fixture,
		Features:     features,
		ModelVersion: snap.Version(),
		Result:       result,
	}, nil
}

// resolveFeatures gathers the optional structural signals for a fixture.
// Every failure degrades to an absent signal.
func (s *PredictionService) resolveFeatures(ctx context.Context, fixture *models.Fixture) models.StructuralFeatures {
	features := models.StructuralFeatures{}

	if s.h2hRepo != nil {
		h2h, err := s.h2hRepo.GetByTeams(ctx, fixture.HomeTeamID, fixture.AwayTeamID)
		switch {
		case err == nil:
			features.H2H = h2h
		case errors.Is(err, models.ErrNotFound):
			metrics.RecordMissingSignal("h2h")
		default:
			metrics.RecordMissingSignal("h2h")
			s.logger.WithError(err).WithField("fixture_id", fixture.ID).
				Warn("H2H lookup failed, treating as absent")
		}
	}

	if s.features != nil && s.features.IsEnabled() {
		external, err := s.features.FetchFeatures(ctx, fixture)
		if err != nil {
			metrics.RecordMissingSignal("feature_source")
			s.logger.WithError(err).WithField("fixture_id", fixture.ID).
				Warn("Feature fetch failed, treating signals as absent")
		} else if external != nil {
			features.WeatherFactor = external.WeatherFactor
			features.RestDayFactor = external.RestDayFactor
			features.RefereeFactor = external.RefereeFactor
		}
	}

	if s.drift != nil {
		if factor, ok := s.drift.DriftFactor(fixture.ID.String()); ok {
			features.OddsDriftFactor = &factor
		} else {
			metrics.RecordMissingSignal("odds_drift")
		}
	}

	return features
}

// persist writes one audit row per (fixture, set), labeled with the version
// each prediction was computed under.
func (s *PredictionService) persist(ctx context.Context, predictions []*FixturePrediction) error {
	if s.predictionRepo == nil {
		return nil
	}

	now := time.Now().UTC()
	var rows []*models.Prediction
	for _, p := range predictions {
		for name, probs := range p.Result.Sets {
			comps := p.Result.Components
			meta := p.Result.Uncertainty
			rows = append(rows, &models.Prediction{
				ID:           uuid.New(),
				FixtureID:    p.Fixture.ID,
				ModelVersion: p.ModelVersion,
				SetName:      string(name),
				Probs:        probs,
				Components:   &comps,
				Uncertainty:  &meta,
				PredictedAt:  now,
			})
			s.audit.LogPrediction(p.Fixture.ID.String(), p.ModelVersion, string(name), probs, &comps, &meta)
		}
	}

	return s.predictionRepo.InsertBatch(ctx, rows)
}
