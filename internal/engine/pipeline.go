package engine

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/jackpot-engine/internal/models"
)

// Pipeline chains the computation stages for one fixture:
// ratings -> goal expectations -> score grid -> structural draw adjustment
// -> uncertainty blend -> probability-set catalogue -> calibration.
//
// The pipeline is stateless per fixture and safe for concurrent use; its
// only inputs beyond the call arguments are the read-only snapshot
// parameters captured at construction.
type Pipeline struct {
	goals       *GoalExpectationModel
	scores      *ScoreDistribution
	drawAdjust  *DrawStructuralAdjuster
	uncertainty *UncertaintyControlLayer
	sets        *ProbabilitySetGenerator
	calibration *CalibrationEngine
	logger      *logrus.Logger
}

// NewPipeline assembles all stages from clamped snapshot parameters.
func NewPipeline(params models.DixonColesParams, curves map[models.Outcome]*models.CalibrationCurve, tuning Tuning, logger *logrus.Logger) *Pipeline {
	params = params.Clamped()
	return &Pipeline{
		goals:       NewGoalExpectationModel(params),
		scores:      NewScoreDistribution(params),
		drawAdjust:  NewDrawStructuralAdjuster(tuning, logger),
		uncertainty: NewUncertaintyControlLayer(tuning, params.Temperature),
		sets:        NewProbabilitySetGenerator(tuning),
		calibration: NewCalibrationEngine(curves, tuning),
		logger:      logger,
	}
}

// PipelineInput is the fully resolved input for one fixture. The caller
// resolves all external data before invoking the pipeline; no I/O happens
// inside.
type PipelineInput struct {
	Fixture  *models.Fixture
	Home     models.TeamStrength
	Away     models.TeamStrength
	League   models.LeagueConfig
	Features models.StructuralFeatures
}

// FixtureResult is the full per-fixture output: every probability set plus
// the audit trail of how the base distribution was produced.
type FixtureResult struct {
	FixtureID       uuid.UUID
	Expectations    models.GoalExpectations
	Grid            *ScoreGrid
	Base            models.OutcomeProbabilities
	Components      models.DrawComponents
	Uncertainty     models.UncertaintyMetadata
	Sets            map[SetName]models.OutcomeProbabilities
	CorrectedStages []string
}

// Compute runs the full pipeline for one fixture.
func (p *Pipeline) Compute(in PipelineInput) (*FixtureResult, error) {
	exp, err := p.goals.Expectations(in.Home, in.Away)
	if err != nil {
		return nil, err
	}

	grid, err := p.scores.Compute(exp)
	if err != nil {
		return nil, err
	}

	result := &FixtureResult{
		FixtureID:    in.Fixture.ID,
		Expectations: exp,
		Grid:         grid,
	}

	base := p.checkpoint(result, "score_grid", grid.Probs)

	adjusted, components := p.drawAdjust.Adjust(AdjustInput{
		Probs:    base,
		League:   in.League,
		Home:     in.Home,
		Away:     in.Away,
		Features: in.Features,
	})
	adjusted = p.checkpoint(result, "draw_adjust", adjusted)
	result.Base = adjusted
	result.Components = components

	blended, meta := p.uncertainty.Blend(adjusted, in.Fixture.MarketOdds)
	blended = p.checkpoint(result, "uncertainty_blend", blended)
	result.Uncertainty = meta

	sets := p.sets.Generate(SetContext{
		Base:        adjusted,
		Blended:     blended,
		Market:      in.Fixture.MarketOdds,
		Entropy:     meta.Entropy,
		Uncertainty: meta,
	})

	for name, probs := range sets {
		calibrated := p.calibration.Calibrate(probs)
		sets[name] = p.checkpoint(result, "calibration:"+string(name), calibrated)
	}
	result.Sets = sets

	return result, nil
}

// CalibrationEnabled reports whether the snapshot supplied any calibration
// curve; without one the calibration stage is a passthrough.
func (p *Pipeline) CalibrationEnabled() bool {
	return p.calibration.Enabled()
}

// checkpoint enforces the simplex invariant at a stage exit. A violation is
// a programming-bug class error: it is corrected by renormalization
// immediately, flagged on the result and logged, never propagated silently.
func (p *Pipeline) checkpoint(result *FixtureResult, stage string, probs models.OutcomeProbabilities) models.OutcomeProbabilities {
	if probs.IsNormalized() {
		return probs
	}
	result.CorrectedStages = append(result.CorrectedStages, stage)
	p.logger.WithFields(logrus.Fields{
		"stage": stage,
		"sum":   probs.Sum(),
	}).Warn("Probability triple violated simplex invariant; renormalized")
	return probs.Normalized()
}
