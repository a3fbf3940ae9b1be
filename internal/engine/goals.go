// Package engine implements the probability pipeline: goal expectations,
// Dixon-Coles score distribution, structural draw adjustment, uncertainty
// control, the probability-set catalogue and calibration.
package engine

import (
	"fmt"
	"math"

	"github.com/yourusername/jackpot-engine/internal/models"
)

// GoalExpectationModel converts team ratings into expected goals.
type GoalExpectationModel struct {
	params models.DixonColesParams
}

// NewGoalExpectationModel creates a model from clamped snapshot parameters.
func NewGoalExpectationModel(params models.DixonColesParams) *GoalExpectationModel {
	return &GoalExpectationModel{params: params.Clamped()}
}

// Expectations computes expected goals for both sides.
//
//	lambda_home = exp(attack_home - defense_away + homeAdvantage)
//	lambda_away = exp(attack_away - defense_home)
//
// Neutral (0.0 log-scale) ratings from unresolved teams need no special
// casing: they produce exp(homeAdvantage) and 1.0.
func (m *GoalExpectationModel) Expectations(home, away models.TeamStrength) (models.GoalExpectations, error) {
	lambdaHome := math.Exp(home.Attack - away.Defense + m.params.HomeAdvantage)
	lambdaAway := math.Exp(away.Attack - home.Defense)

	exp := models.GoalExpectations{LambdaHome: lambdaHome, LambdaAway: lambdaAway}
	if err := validateExpectations(exp); err != nil {
		return models.GoalExpectations{}, err
	}
	return exp, nil
}

// validateExpectations fails fast on malformed inputs; these are caller bugs
// (wildly out-of-range ratings), not missing data.
func validateExpectations(exp models.GoalExpectations) error {
	for _, l := range []float64{exp.LambdaHome, exp.LambdaAway} {
		if l <= 0 || math.IsNaN(l) || math.IsInf(l, 0) {
			return fmt.Errorf("%w: got lambda=%v", models.ErrInvalidExpectation, l)
		}
	}
	return nil
}
