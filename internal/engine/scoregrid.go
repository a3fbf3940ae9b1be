package engine

import (
	"fmt"
	"math"

	"github.com/yourusername/jackpot-engine/internal/models"
)

// DefaultMaxGoals truncates the score grid; Poisson mass beyond 8 goals per
// side is negligible and absorbed by renormalization.
const DefaultMaxGoals = 8

// ScoreGrid holds the Dixon-Coles-adjusted joint scoreline distribution for
// one fixture and the aggregates derived from it.
type ScoreGrid struct {
	MaxGoals int
	Matrix   [][]float64

	Probs          models.OutcomeProbabilities
	MostLikelyHome int
	MostLikelyAway int
	Over1p5Goals   float64
	Over2p5Goals   float64
}

// MostLikelyScore formats the modal scoreline as "H-A".
func (g *ScoreGrid) MostLikelyScore() string {
	return fmt.Sprintf("%d-%d", g.MostLikelyHome, g.MostLikelyAway)
}

// ScoreDistribution computes scoreline grids from goal expectations.
type ScoreDistribution struct {
	rho      float64
	maxGoals int
}

// NewScoreDistribution creates a distribution with the snapshot's rho and
// the default grid truncation.
func NewScoreDistribution(params models.DixonColesParams) *ScoreDistribution {
	return &ScoreDistribution{rho: params.Rho, maxGoals: DefaultMaxGoals}
}

// Compute builds the joint grid for the given expectations: independent
// Poisson mass per cell, tau correction on the four low-score cells, then
// renormalization to absorb truncation error.
func (s *ScoreDistribution) Compute(exp models.GoalExpectations) (*ScoreGrid, error) {
	if err := validateExpectations(exp); err != nil {
		return nil, err
	}

	n := s.maxGoals + 1
	matrix := make([][]float64, n)
	for h := 0; h < n; h++ {
		matrix[h] = make([]float64, n)
		ph := poissonPMF(exp.LambdaHome, h)
		for a := 0; a < n; a++ {
			matrix[h][a] = ph * poissonPMF(exp.LambdaAway, a)
		}
	}

	// Low-score correlation correction on {0-0, 1-0, 0-1, 1-1} only.
	matrix[0][0] *= tau(0, 0, exp.LambdaHome, exp.LambdaAway, s.rho)
	matrix[1][0] *= tau(1, 0, exp.LambdaHome, exp.LambdaAway, s.rho)
	matrix[0][1] *= tau(0, 1, exp.LambdaHome, exp.LambdaAway, s.rho)
	matrix[1][1] *= tau(1, 1, exp.LambdaHome, exp.LambdaAway, s.rho)

	renormalizeMatrix(matrix)

	grid := &ScoreGrid{MaxGoals: s.maxGoals, Matrix: matrix}
	grid.aggregate()
	return grid, nil
}

// tau is the Dixon-Coles correction factor for low scorelines.
func tau(homeGoals, awayGoals int, lambdaHome, lambdaAway, rho float64) float64 {
	switch {
	case homeGoals == 0 && awayGoals == 0:
		return 1 - lambdaHome*lambdaAway*rho
	case homeGoals == 0 && awayGoals == 1:
		return 1 + lambdaHome*rho
	case homeGoals == 1 && awayGoals == 0:
		return 1 + lambdaAway*rho
	case homeGoals == 1 && awayGoals == 1:
		return 1 - rho
	}
	return 1.0
}

// poissonPMF returns P(X=k) for X~Poisson(lambda), computed in log space to
// stay stable for larger k.
func poissonPMF(lambda float64, k int) float64 {
	logP := float64(k)*math.Log(lambda) - lambda - logFactorial(k)
	return math.Exp(logP)
}

func logFactorial(k int) float64 {
	lf := 0.0
	for i := 2; i <= k; i++ {
		lf += math.Log(float64(i))
	}
	return lf
}

func renormalizeMatrix(matrix [][]float64) {
	total := 0.0
	for i := range matrix {
		for j := range matrix[i] {
			total += matrix[i][j]
		}
	}
	if total <= 0 {
		return
	}
	for i := range matrix {
		for j := range matrix[i] {
			matrix[i][j] /= total
		}
	}
}

// aggregate derives outcome probabilities, the modal scoreline and the
// over/under markets from the grid.
func (g *ScoreGrid) aggregate() {
	var home, draw, away float64
	var over15, over25 float64
	bestProb := -1.0

	for h := range g.Matrix {
		for a := range g.Matrix[h] {
			p := g.Matrix[h][a]
			switch {
			case h > a:
				home += p
			case h == a:
				draw += p
			default:
				away += p
			}
			if h+a > 1 {
				over15 += p
			}
			if h+a > 2 {
				over25 += p
			}
			if p > bestProb {
				bestProb = p
				g.MostLikelyHome = h
				g.MostLikelyAway = a
			}
		}
	}

	g.Probs = models.OutcomeProbabilities{Home: home, Draw: draw, Away: away}.Normalized()
	g.Over1p5Goals = over15
	g.Over2p5Goals = over25
}
