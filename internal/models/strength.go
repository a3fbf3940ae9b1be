package models

import "time"

// TeamStrength holds log-scale multiplicative attack/defense ratings for a
// team. A rating of 0.0 in log space (1.0 linear) is league average. Ratings
// are produced by offline training and never mutated at inference time.
type TeamStrength struct {
	TeamID  string  `db:"team_id" json:"team_id" validate:"required"`
	Attack  float64 `db:"attack" json:"attack" validate:"gte=-3,lte=3"`
	Defense float64 `db:"defense" json:"defense" validate:"gte=-3,lte=3"`
}

// NeutralStrength returns a league-average rating for unresolved teams.
func NeutralStrength(teamID string) TeamStrength {
	return TeamStrength{TeamID: teamID, Attack: 0.0, Defense: 0.0}
}

// IsNeutral reports whether the rating is the unresolved-team default.
func (t TeamStrength) IsNeutral() bool {
	return t.Attack == 0.0 && t.Defense == 0.0
}

// DixonColesParams holds the global parameters of the active goal model.
// HomeAdvantage and Temperature are clamped at load time and treated as
// immutable afterwards.
type DixonColesParams struct {
	Rho           float64 `db:"rho" json:"rho" validate:"gte=-1,lte=1"`
	HomeAdvantage float64 `db:"home_advantage" json:"home_advantage" validate:"gte=0.1,lte=0.6"`
	Temperature   float64 `db:"temperature" json:"temperature" validate:"gte=1.0,lte=1.5"`
}

// Clamped returns a copy with HomeAdvantage and Temperature forced into
// their legal ranges. Applied once when a snapshot is loaded.
func (p DixonColesParams) Clamped() DixonColesParams {
	out := p
	if out.HomeAdvantage < 0.1 {
		out.HomeAdvantage = 0.1
	}
	if out.HomeAdvantage > 0.6 {
		out.HomeAdvantage = 0.6
	}
	if out.Temperature < 1.0 {
		out.Temperature = 1.0
	}
	if out.Temperature > 1.5 {
		out.Temperature = 1.5
	}
	return out
}

// GoalExpectations holds expected goals for both sides of a fixture.
// Ephemeral, recomputed per request.
type GoalExpectations struct {
	LambdaHome float64 `json:"lambda_home"`
	LambdaAway float64 `json:"lambda_away"`
}

// ModelVersion identifies a trained snapshot.
type ModelVersion struct {
	Version   string    `db:"version" json:"version" validate:"required"`
	TrainedAt time.Time `db:"trained_at" json:"trained_at"`
	Active    bool      `db:"active" json:"active"`
}
