package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/jackpot-engine/internal/models"
)

func computeGrid(t *testing.T, lambdaHome, lambdaAway, rho float64) *ScoreGrid {
	t.Helper()
	dist := NewScoreDistribution(models.DixonColesParams{Rho: rho, HomeAdvantage: 0.3, Temperature: 1.0})
	grid, err := dist.Compute(models.GoalExpectations{LambdaHome: lambdaHome, LambdaAway: lambdaAway})
	require.NoError(t, err)
	return grid
}

func TestScoreDistribution_GridSumsToOne(t *testing.T) {
	grid := computeGrid(t, 1.5, 1.2, -0.08)

	total := 0.0
	for _, row := range grid.Matrix {
		for _, p := range row {
			assert.GreaterOrEqual(t, p, 0.0)
			total += p
		}
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.True(t, grid.Probs.IsNormalized())
}

func TestScoreDistribution_TauRaisesLowScores(t *testing.T) {
	// Negative rho inflates 0-0 and 1-1 relative to independent Poisson.
	correlated := computeGrid(t, 1.4, 1.1, -0.1)
	independent := computeGrid(t, 1.4, 1.1, 0.0)

	assert.Greater(t, correlated.Matrix[0][0], independent.Matrix[0][0])
	assert.Greater(t, correlated.Matrix[1][1], independent.Matrix[1][1])
	assert.Less(t, correlated.Matrix[1][0], independent.Matrix[1][0])
	assert.Greater(t, correlated.Probs.Draw, independent.Probs.Draw)
}

func TestScoreDistribution_Aggregates(t *testing.T) {
	grid := computeGrid(t, 1.8, 1.0, -0.05)

	// Stronger home attack means the home leg dominates.
	assert.Equal(t, "H", grid.Probs.Favourite())

	// Over 1.5 mass always contains the over 2.5 mass.
	assert.GreaterOrEqual(t, grid.Over1p5Goals, grid.Over2p5Goals)
	assert.Greater(t, grid.Over1p5Goals, 0.0)
	assert.Less(t, grid.Over2p5Goals, 1.0)
}

func TestScoreDistribution_MostLikelyScore(t *testing.T) {
	// Low expectations put the modal scoreline at 0-0.
	grid := computeGrid(t, 0.8, 0.6, -0.05)
	assert.Equal(t, 0, grid.MostLikelyHome)
	assert.Equal(t, 0, grid.MostLikelyAway)
	assert.Equal(t, "0-0", grid.MostLikelyScore())
}

func TestScoreDistribution_SymmetricWithoutHomeEdge(t *testing.T) {
	grid := computeGrid(t, 1.3, 1.3, -0.05)
	assert.InDelta(t, grid.Probs.Home, grid.Probs.Away, 1e-9)
}

func TestScoreDistribution_RejectsInvalidExpectations(t *testing.T) {
	dist := NewScoreDistribution(models.DixonColesParams{Rho: -0.05, HomeAdvantage: 0.3, Temperature: 1.0})
	for _, bad := range []models.GoalExpectations{
		{LambdaHome: 0, LambdaAway: 1},
		{LambdaHome: 1, LambdaAway: -0.5},
		{LambdaHome: math.NaN(), LambdaAway: 1},
	} {
		_, err := dist.Compute(bad)
		assert.ErrorIs(t, err, models.ErrInvalidExpectation)
	}
}

func TestPoissonPMF(t *testing.T) {
	// P(X=0) = e^-lambda; P(X=2) for lambda=2 is 2e^-2.
	assert.InDelta(t, math.Exp(-1.5), poissonPMF(1.5, 0), 1e-12)
	assert.InDelta(t, 2*math.Exp(-2), poissonPMF(2.0, 2), 1e-12)
}
