package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/jackpot-engine/internal/models"
)

func testParams() models.DixonColesParams {
	return models.DixonColesParams{Rho: -0.06, HomeAdvantage: 0.25, Temperature: 1.1}
}

func testFixture(market *models.MarketOdds) *models.Fixture {
	return &models.Fixture{
		ID:         uuid.New(),
		HomeTeamID: "team-h",
		AwayTeamID: "team-a",
		LeagueCode: "EPL",
		KickoffAt:  time.Now().Add(48 * time.Hour),
		MarketOdds: market,
	}
}

func TestPipeline_ComputeWithoutMarket(t *testing.T) {
	p := NewPipeline(testParams(), nil, DefaultTuning(), testLogger())
	assert.False(t, p.CalibrationEnabled())

	in := PipelineInput{
		Fixture: testFixture(nil),
		Home:    models.TeamStrength{TeamID: "team-h", Attack: 0.3, Defense: 0.1},
		Away:    models.TeamStrength{TeamID: "team-a", Attack: -0.1, Defense: -0.05},
		League:  models.DefaultLeagueConfig("EPL"),
	}

	result, err := p.Compute(in)
	require.NoError(t, err)

	assert.Equal(t, in.Fixture.ID, result.FixtureID)
	assert.Greater(t, result.Expectations.LambdaHome, result.Expectations.LambdaAway)
	assert.Equal(t, "H", result.Base.Favourite())

	// Every variant in the catalogue, every one on the simplex.
	require.Len(t, result.Sets, len(AllSetNames))
	for name, probs := range result.Sets {
		assert.True(t, probs.IsNormalized(), "set %s violates simplex", name)
	}

	// No market: the blend reports pure-model weighting.
	assert.InDelta(t, 1.0, result.Uncertainty.AlphaEffective, 1e-9)
	assert.InDelta(t, 1.1, result.Uncertainty.Temperature, 1e-9)
	assert.Empty(t, result.CorrectedStages)
}

func TestPipeline_ComputeWithMarket(t *testing.T) {
	p := NewPipeline(testParams(), nil, DefaultTuning(), testLogger())

	in := PipelineInput{
		Fixture: testFixture(models.NewMarketOdds(2.2, 3.3, 3.5)),
		Home:    models.TeamStrength{TeamID: "team-h", Attack: 0.2, Defense: 0.05},
		Away:    models.TeamStrength{TeamID: "team-a", Attack: 0.0, Defense: 0.0},
		League:  models.DefaultLeagueConfig("EPL"),
	}

	result, err := p.Compute(in)
	require.NoError(t, err)

	assert.Greater(t, result.Uncertainty.Overround, 0.0)
	assert.GreaterOrEqual(t, result.Uncertainty.AlphaEffective, 0.15)
	assert.LessOrEqual(t, result.Uncertainty.AlphaEffective, 0.75)

	// Market-dominant differs from pure model when a market is present.
	assert.NotEqual(t, result.Sets[SetPureModel], result.Sets[SetMarketDominant])
}

func TestPipeline_ComputeWithCalibration(t *testing.T) {
	curves := map[models.Outcome]*models.CalibrationCurve{
		models.OutcomeHome: twoPointCurve(models.OutcomeHome, 0.25, 0.65),
		models.OutcomeDraw: twoPointCurve(models.OutcomeDraw, 0.18, 0.40),
		models.OutcomeAway: twoPointCurve(models.OutcomeAway, 0.20, 0.60),
	}
	p := NewPipeline(testParams(), curves, DefaultTuning(), testLogger())
	assert.True(t, p.CalibrationEnabled())

	in := PipelineInput{
		Fixture: testFixture(nil),
		Home:    models.NeutralStrength("team-h"),
		Away:    models.NeutralStrength("team-a"),
		League:  models.DefaultLeagueConfig("EPL"),
	}

	result, err := p.Compute(in)
	require.NoError(t, err)
	for name, probs := range result.Sets {
		assert.True(t, probs.IsNormalized(), "set %s violates simplex", name)
	}
}

func TestPipeline_StructuralFeaturesRaiseDraw(t *testing.T) {
	p := NewPipeline(testParams(), nil, DefaultTuning(), testLogger())

	base := PipelineInput{
		Fixture: testFixture(nil),
		Home:    models.TeamStrength{TeamID: "team-h", Attack: 0.4, Defense: 0.1},
		Away:    models.TeamStrength{TeamID: "team-a", Attack: -0.3, Defense: -0.1},
		League:  models.DefaultLeagueConfig("EPL"),
	}
	plain, err := p.Compute(base)
	require.NoError(t, err)

	withSignals := base
	withSignals.Features = models.StructuralFeatures{
		H2H: &models.H2HStats{Meetings: 12, LastMeetingYear: time.Now().Year(), DrawIndex: 1.25},
	}
	boosted, err := p.Compute(withSignals)
	require.NoError(t, err)

	assert.Greater(t, boosted.Base.Draw, plain.Base.Draw)
	assert.InDelta(t, 1.25, boosted.Components.HeadToHead, 1e-9)
}

func TestPipeline_InvalidStrengthSurfacesError(t *testing.T) {
	p := NewPipeline(testParams(), nil, DefaultTuning(), testLogger())

	in := PipelineInput{
		Fixture: testFixture(nil),
		Home:    models.TeamStrength{TeamID: "team-h", Attack: 1e9},
		Away:    models.NeutralStrength("team-a"),
		League:  models.DefaultLeagueConfig("EPL"),
	}
	_, err := p.Compute(in)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidExpectation)
}
