// Package tickets implements draw-eligibility gating and constrained
// ticket-batch generation for jackpot fixtures.
package tickets

import (
	"time"

	"github.com/yourusername/jackpot-engine/internal/models"
)

// PolicyConfig holds the thresholds of the draw-eligibility gate. Values
// are configuration, recalibrated from historical data, not constants.
type PolicyConfig struct {
	DrawProbabilityThreshold float64 `mapstructure:"draw_probability_threshold"`
	EntropyThreshold         float64 `mapstructure:"entropy_threshold"`
	H2HDrawIndexThreshold    float64 `mapstructure:"h2h_draw_index_threshold"`
}

// DefaultPolicyConfig returns the tuned gate defaults.
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		DrawProbabilityThreshold: 0.28,
		EntropyThreshold:         0.85,
		H2HDrawIndexThreshold:    1.15,
	}
}

// DrawEligibilityPolicy decides per fixture whether "Draw" may be offered as
// a ticket selection. It is a pure boolean gate: it never alters any
// probability value.
type DrawEligibilityPolicy struct {
	cfg PolicyConfig
	now func() time.Time
}

// NewDrawEligibilityPolicy creates the policy.
func NewDrawEligibilityPolicy(cfg PolicyConfig) *DrawEligibilityPolicy {
	return &DrawEligibilityPolicy{cfg: cfg, now: time.Now}
}

// Eligible reports whether Draw is admissible for a fixture. All conditions
// must hold: draw probability at threshold, normalized entropy at threshold,
// and the head-to-head signal either absent, untrusted (ignored), or
// supportive. An untrusted H2H sample is treated exactly like an absent one.
func (p *DrawEligibilityPolicy) Eligible(probs models.OutcomeProbabilities, h2h *models.H2HStats) bool {
	if probs.Draw < p.cfg.DrawProbabilityThreshold {
		return false
	}
	if probs.NormalizedEntropy() < p.cfg.EntropyThreshold {
		return false
	}
	if h2h.IsTrusted(p.now().Year()) && h2h.DrawIndex < p.cfg.H2HDrawIndexThreshold {
		return false
	}
	return true
}

// EligibleOutcomes returns the admissible outcome set for a fixture: always
// Home and Away, plus Draw when the gate opens.
func (p *DrawEligibilityPolicy) EligibleOutcomes(probs models.OutcomeProbabilities, h2h *models.H2HStats) []models.Outcome {
	out := []models.Outcome{models.OutcomeHome, models.OutcomeAway}
	if p.Eligible(probs, h2h) {
		out = append(out, models.OutcomeDraw)
	}
	return out
}
