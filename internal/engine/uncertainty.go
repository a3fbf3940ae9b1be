package engine

import (
	"math"

	"github.com/yourusername/jackpot-engine/internal/models"
)

// UncertaintyControlLayer softens overconfident distributions via
// temperature scaling and blends the model against market-implied
// probabilities with an entropy-weighted, overround-aware coefficient.
type UncertaintyControlLayer struct {
	tuning      Tuning
	temperature float64
}

// NewUncertaintyControlLayer creates the layer. Temperatures below 1 are
// clamped: this layer only ever softens, upstream clamping notwithstanding.
func NewUncertaintyControlLayer(tuning Tuning, temperature float64) *UncertaintyControlLayer {
	if temperature < 1.0 || math.IsNaN(temperature) {
		temperature = 1.0
	}
	return &UncertaintyControlLayer{tuning: tuning, temperature: temperature}
}

// ApplyTemperature applies p_i^(1/T) / sum_j p_j^(1/T) with the layer's
// softening-only temperature. T=1 is the identity.
func (u *UncertaintyControlLayer) ApplyTemperature(p models.OutcomeProbabilities) models.OutcomeProbabilities {
	return scaleTemperature(p, u.temperature)
}

// scaleTemperature applies the power transform for an arbitrary T>0. Shared
// with the entropy-penalized set, which deliberately sharpens with T<1.
func scaleTemperature(p models.OutcomeProbabilities, temperature float64) models.OutcomeProbabilities {
	if temperature == 1.0 || temperature <= 0 {
		return p
	}
	inv := 1.0 / temperature
	out := models.OutcomeProbabilities{
		Home: math.Pow(p.Home, inv),
		Draw: math.Pow(p.Draw, inv),
		Away: math.Pow(p.Away, inv),
	}
	return out.Normalized()
}

// EffectiveAlpha derives the model weight for blending: high normalized
// entropy (genuinely uncertain model) keeps weight on the model, while an
// overconfident low-entropy distribution is pulled toward the market.
func (u *UncertaintyControlLayer) EffectiveAlpha(p models.OutcomeProbabilities) float64 {
	return clamp(u.tuning.BaseAlpha*p.NormalizedEntropy(), u.tuning.AlphaFloor, u.tuning.AlphaCeiling)
}

// MarketWeight discounts market trust by bookmaker margin:
// weight * exp(-k * overround). Markets with fat margins are trusted less.
func (u *UncertaintyControlLayer) MarketWeight(weight, overround float64) float64 {
	if overround < 0 {
		overround = 0
	}
	return weight * math.Exp(-u.tuning.OverroundDecayK*overround)
}

// Blend temperature-scales the model triple, then mixes it with the
// de-margined market triple using the effective alpha. The market side of
// the mix is additionally decayed by the overround trust factor; the slack
// falls back to the model. Returns the blended triple and the attached
// uncertainty metadata.
func (u *UncertaintyControlLayer) Blend(model models.OutcomeProbabilities, market *models.MarketOdds) (models.OutcomeProbabilities, models.UncertaintyMetadata) {
	scaled := u.ApplyTemperature(model)
	meta := models.UncertaintyMetadata{
		Entropy:        scaled.NormalizedEntropy(),
		AlphaEffective: u.EffectiveAlpha(scaled),
		Temperature:    u.temperature,
	}

	if market == nil || !market.IsValid() {
		// No market: pure model, alpha effectively 1.
		meta.AlphaEffective = 1.0
		return scaled, meta
	}

	overround := market.Overround()
	meta.Overround = overround

	alpha := meta.AlphaEffective
	marketShare := u.MarketWeight(1.0-alpha, overround)
	marketProbs := market.TrueProbabilities()

	blended := models.OutcomeProbabilities{
		Home: alpha*scaled.Home + marketShare*marketProbs.Home,
		Draw: alpha*scaled.Draw + marketShare*marketProbs.Draw,
		Away: alpha*scaled.Away + marketShare*marketProbs.Away,
	}
	return blended.Normalized(), meta
}
