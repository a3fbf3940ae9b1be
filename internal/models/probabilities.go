package models

import (
	"fmt"
	"math"
)

// SumTolerance is the tolerance within which a probability triple must sum
// to 1 at every stage exit.
const SumTolerance = 1e-6

// OutcomeProbabilities is the Home/Draw/Away triple that flows through every
// stage of the engine. Each stage consumes and produces this shape and is
// responsible for the simplex invariant at its own exit.
type OutcomeProbabilities struct {
	Home float64 `db:"p_home" json:"home"`
	Draw float64 `db:"p_draw" json:"draw"`
	Away float64 `db:"p_away" json:"away"`
}

// Sum returns Home+Draw+Away.
func (p OutcomeProbabilities) Sum() float64 {
	return p.Home + p.Draw + p.Away
}

// IsNormalized reports whether the triple sums to 1 within tolerance and
// each component lies in [0,1].
func (p OutcomeProbabilities) IsNormalized() bool {
	if math.Abs(p.Sum()-1.0) > SumTolerance {
		return false
	}
	for _, v := range []float64{p.Home, p.Draw, p.Away} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Normalized returns a copy rescaled to sum to exactly 1. A degenerate
// (zero or non-finite) triple collapses to the uniform distribution.
func (p OutcomeProbabilities) Normalized() OutcomeProbabilities {
	s := p.Sum()
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return Uniform()
	}
	return OutcomeProbabilities{Home: p.Home / s, Draw: p.Draw / s, Away: p.Away / s}
}

// Favourite returns "H", "A" or "D" for the most probable outcome.
func (p OutcomeProbabilities) Favourite() string {
	if p.Home > p.Away && p.Home > p.Draw {
		return "H"
	}
	if p.Away > p.Home && p.Away > p.Draw {
		return "A"
	}
	return "D"
}

// Entropy returns the Shannon entropy of the triple in nats.
func (p OutcomeProbabilities) Entropy() float64 {
	h := 0.0
	for _, v := range []float64{p.Home, p.Draw, p.Away} {
		if v > 0 {
			h -= v * math.Log(v)
		}
	}
	return h
}

// NormalizedEntropy returns entropy scaled into [0,1] by ln(3).
func (p OutcomeProbabilities) NormalizedEntropy() float64 {
	return p.Entropy() / math.Log(3)
}

func (p OutcomeProbabilities) String() string {
	return fmt.Sprintf("H=%.4f D=%.4f A=%.4f", p.Home, p.Draw, p.Away)
}

// Uniform returns the maximum-entropy triple.
func Uniform() OutcomeProbabilities {
	return OutcomeProbabilities{Home: 1.0 / 3.0, Draw: 1.0 / 3.0, Away: 1.0 / 3.0}
}

// DrawComponents records the independent bounded multipliers applied by the
// structural draw adjustment, kept for auditability alongside each
// prediction. A multiplier of 1.0 means the underlying signal was absent or
// neutral.
type DrawComponents struct {
	LeaguePrior     float64 `json:"league_prior"`
	HeadToHead      float64 `json:"head_to_head"`
	RatingSymmetry  float64 `json:"rating_symmetry"`
	Weather         float64 `json:"weather"`
	RestFatigue     float64 `json:"rest_fatigue"`
	Referee         float64 `json:"referee"`
	OddsMovement    float64 `json:"odds_movement"`
	TotalMultiplier float64 `json:"total_multiplier"`
}

// NeutralDrawComponents returns the all-ones component set.
func NeutralDrawComponents() DrawComponents {
	return DrawComponents{
		LeaguePrior:     1.0,
		HeadToHead:      1.0,
		RatingSymmetry:  1.0,
		Weather:         1.0,
		RestFatigue:     1.0,
		Referee:         1.0,
		OddsMovement:    1.0,
		TotalMultiplier: 1.0,
	}
}

// UncertaintyMetadata is attached to market-blended probability sets.
type UncertaintyMetadata struct {
	Entropy        float64 `json:"entropy"`
	AlphaEffective float64 `json:"alpha_effective"`
	Temperature    float64 `json:"temperature"`
	Overround      float64 `json:"overround"`
}
