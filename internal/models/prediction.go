package models

import (
	"time"

	"github.com/google/uuid"
)

// Prediction is the persisted audit record for one probability set computed
// for one fixture. DrawComponents and UncertaintyMetadata are stored for
// auditability and never mutated after the fact; the Outcome column is
// backfilled once the result is known and feeds calibration refits.
type Prediction struct {
	ID           uuid.UUID            `db:"id" json:"id" validate:"required,uuid4"`
	FixtureID    uuid.UUID            `db:"fixture_id" json:"fixture_id" validate:"required,uuid4"`
	ModelVersion string               `db:"model_version" json:"model_version" validate:"required"`
	SetName      string               `db:"set_name" json:"set_name" validate:"required"`
	Probs        OutcomeProbabilities `json:"probabilities"`
	Components   *DrawComponents      `json:"draw_components,omitempty"`
	Uncertainty  *UncertaintyMetadata `json:"uncertainty,omitempty"`
	Outcome      *Outcome             `db:"outcome" json:"outcome,omitempty"`
	PredictedAt  time.Time            `db:"predicted_at" json:"predicted_at"`
}

// Settled reports whether the fixture result has been recorded.
func (p *Prediction) Settled() bool {
	return p.Outcome != nil
}

// ProbabilityFor returns the predicted probability of the given outcome.
func (p *Prediction) ProbabilityFor(o Outcome) float64 {
	switch o {
	case OutcomeHome:
		return p.Probs.Home
	case OutcomeDraw:
		return p.Probs.Draw
	case OutcomeAway:
		return p.Probs.Away
	}
	return 0
}

// Hit reports whether the given outcome was both predicted favourite and the
// actual result.
func (p *Prediction) Hit() bool {
	if p.Outcome == nil {
		return false
	}
	return string(*p.Outcome) == p.Probs.Favourite()
}
