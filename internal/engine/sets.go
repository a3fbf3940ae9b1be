package engine

import (
	"math"

	"github.com/yourusername/jackpot-engine/internal/models"
)

// SetName identifies a probability-set variant. The catalogue is closed:
// every variant is listed in AllSetNames and dispatched through the same
// interface, so tests can be exhaustive and no variant can leak state into
// another.
type SetName string

const (
	SetPureModel        SetName = "pure_model"
	SetMarketBalanced   SetName = "market_balanced"
	SetMarketDominant   SetName = "market_dominant"
	SetDrawBoosted      SetName = "draw_boosted"
	SetEntropyPenalized SetName = "entropy_penalized"
	SetValueWeighted    SetName = "value_weighted"
	SetEnsemble         SetName = "ensemble"
	SetAdaptive         SetName = "adaptive"
)

// AllSetNames lists the catalogue in generation order.
var AllSetNames = []SetName{
	SetPureModel,
	SetMarketBalanced,
	SetMarketDominant,
	SetDrawBoosted,
	SetEntropyPenalized,
	SetValueWeighted,
	SetEnsemble,
	SetAdaptive,
}

// SetContext is the read-only input every variant maps from. Base is the
// draw-adjusted model triple (post grid + structural adjustment); Blended is
// the uncertainty-layer output. Variants never mutate the context.
type SetContext struct {
	Base        models.OutcomeProbabilities
	Blended     models.OutcomeProbabilities
	Market      *models.MarketOdds
	Entropy     float64
	Uncertainty models.UncertaintyMetadata
}

// setStrategy computes one named variant from the shared context.
type setStrategy interface {
	Name() SetName
	Compute(ctx SetContext) models.OutcomeProbabilities
}

// ProbabilitySetGenerator produces the full family of named variants.
type ProbabilitySetGenerator struct {
	strategies []setStrategy
}

// NewProbabilitySetGenerator builds the catalogue with the given tuning.
func NewProbabilitySetGenerator(tuning Tuning) *ProbabilitySetGenerator {
	return &ProbabilitySetGenerator{
		strategies: []setStrategy{
			pureModelSet{},
			marketBalancedSet{},
			marketDominantSet{weight: tuning.MarketDominantModelWeight},
			drawBoostedSet{boost: tuning.DrawBoostMultiplier, cap: tuning.DrawBoostCap},
			entropyPenalizedSet{temperature: tuning.SharpenTemperature},
			valueWeightedSet{kellyFraction: tuning.ValueKellyFraction},
			ensembleSet{boost: tuning.DrawBoostMultiplier, cap: tuning.DrawBoostCap},
			adaptiveSet{
				entropyHigh: tuning.AdaptiveEntropyHigh,
				entropyMid:  tuning.AdaptiveEntropyMid,
				spreadTight: tuning.AdaptiveSpreadTight,
				spreadLoose: tuning.AdaptiveSpreadLoose,
				boostHigh:   tuning.AdaptiveBoostHigh,
				boostMid:    tuning.AdaptiveBoostMid,
				boostLow:    tuning.AdaptiveBoostLow,
				cap:         tuning.DrawBoostCap,
			},
		},
	}
}

// Generate computes every variant. Each output independently satisfies the
// simplex invariant.
func (g *ProbabilitySetGenerator) Generate(ctx SetContext) map[SetName]models.OutcomeProbabilities {
	out := make(map[SetName]models.OutcomeProbabilities, len(g.strategies))
	for _, s := range g.strategies {
		out[s.Name()] = s.Compute(ctx).Normalized()
	}
	return out
}

// pureModelSet passes the draw-adjusted model distribution through
// untouched.
type pureModelSet struct{}

func (pureModelSet) Name() SetName { return SetPureModel }
func (pureModelSet) Compute(ctx SetContext) models.OutcomeProbabilities {
	return ctx.Base
}

// marketBalancedSet is the entropy-weighted blend from the uncertainty
// layer.
type marketBalancedSet struct{}

func (marketBalancedSet) Name() SetName { return SetMarketBalanced }
func (marketBalancedSet) Compute(ctx SetContext) models.OutcomeProbabilities {
	return ctx.Blended
}

// marketDominantSet keeps a small fixed model weight and hands the rest to
// the de-margined market. Without a market it degrades to the model triple.
type marketDominantSet struct {
	weight float64
}

func (marketDominantSet) Name() SetName { return SetMarketDominant }
func (s marketDominantSet) Compute(ctx SetContext) models.OutcomeProbabilities {
	if ctx.Market == nil || !ctx.Market.IsValid() {
		return ctx.Base
	}
	m := ctx.Market.TrueProbabilities()
	w := s.weight
	return models.OutcomeProbabilities{
		Home: w*ctx.Base.Home + (1-w)*m.Home,
		Draw: w*ctx.Base.Draw + (1-w)*m.Draw,
		Away: w*ctx.Base.Away + (1-w)*m.Away,
	}
}

// drawBoostedSet applies a post-hoc draw multiplier with proportional
// renormalization.
type drawBoostedSet struct {
	boost float64
	cap   float64
}

func (drawBoostedSet) Name() SetName { return SetDrawBoosted }
func (s drawBoostedSet) Compute(ctx SetContext) models.OutcomeProbabilities {
	return boostDraw(ctx.Blended, s.boost, s.cap)
}

// entropyPenalizedSet sharpens low-conviction predictions: the inverse use
// of temperature logic, producing a more decisive distribution.
type entropyPenalizedSet struct {
	temperature float64
}

func (entropyPenalizedSet) Name() SetName { return SetEntropyPenalized }
func (s entropyPenalizedSet) Compute(ctx SetContext) models.OutcomeProbabilities {
	t := s.temperature
	if t <= 0 || t >= 1 {
		t = 0.75
	}
	return scaleTemperature(ctx.Base, t)
}

// valueWeightedSet tilts each leg by its Kelly-style edge against the market
// price, overweighting legs the model prices above the market.
type valueWeightedSet struct {
	kellyFraction float64
}

func (valueWeightedSet) Name() SetName { return SetValueWeighted }
func (s valueWeightedSet) Compute(ctx SetContext) models.OutcomeProbabilities {
	if ctx.Market == nil || !ctx.Market.IsValid() {
		return ctx.Blended
	}
	implied := ctx.Market.ImpliedProbabilities()
	return models.OutcomeProbabilities{
		Home: edgeWeight(ctx.Blended.Home, implied.Home, s.kellyFraction),
		Draw: edgeWeight(ctx.Blended.Draw, implied.Draw, s.kellyFraction),
		Away: edgeWeight(ctx.Blended.Away, implied.Away, s.kellyFraction),
	}
}

// edgeWeight scales a leg by 1 + fraction*kellyEdge, flooring at a sliver of
// the original mass so a terrible leg never goes fully to zero.
func edgeWeight(model, implied, fraction float64) float64 {
	if implied <= 0 || implied >= 1 {
		return model
	}
	odds := 1.0 / implied
	b := odds - 1.0
	kelly := (b*model - (1 - model)) / b
	w := 1.0 + fraction*kelly
	if w < 0.1 {
		w = 0.1
	}
	return model * w
}

// ensembleSet is the arithmetic mean of the pure-model, balanced-blend and
// draw-boosted variants, each recomputed locally so no intermediate state is
// shared.
type ensembleSet struct {
	boost float64
	cap   float64
}

func (ensembleSet) Name() SetName { return SetEnsemble }
func (s ensembleSet) Compute(ctx SetContext) models.OutcomeProbabilities {
	boosted := boostDraw(ctx.Blended, s.boost, s.cap)
	return models.OutcomeProbabilities{
		Home: (ctx.Base.Home + ctx.Blended.Home + boosted.Home) / 3,
		Draw: (ctx.Base.Draw + ctx.Blended.Draw + boosted.Draw) / 3,
		Away: (ctx.Base.Away + ctx.Blended.Away + boosted.Away) / 3,
	}
}

// adaptiveSet picks a draw-boost multiplier from a decision rule over
// entropy and home/away spread: uncertain, tight fixtures get the aggressive
// boost, lopsided ones stay conservative.
type adaptiveSet struct {
	entropyHigh float64
	entropyMid  float64
	spreadTight float64
	spreadLoose float64
	boostHigh   float64
	boostMid    float64
	boostLow    float64
	cap         float64
}

func (adaptiveSet) Name() SetName { return SetAdaptive }
func (s adaptiveSet) Compute(ctx SetContext) models.OutcomeProbabilities {
	spread := math.Abs(ctx.Blended.Home - ctx.Blended.Away)
	boost := s.boostLow
	switch {
	case ctx.Entropy >= s.entropyHigh && spread < s.spreadTight:
		boost = s.boostHigh
	case ctx.Entropy >= s.entropyMid && spread < s.spreadLoose:
		boost = s.boostMid
	}
	return boostDraw(ctx.Blended, boost, s.cap)
}

// boostDraw multiplies the draw leg and rescales home/away proportionally so
// the triple still sums to 1. The boosted draw is capped.
func boostDraw(p models.OutcomeProbabilities, boost, cap float64) models.OutcomeProbabilities {
	newDraw := p.Draw * boost
	if cap > 0 && newDraw > cap {
		newDraw = cap
	}
	if newDraw >= 1 {
		newDraw = 0.999
	}
	rest := p.Home + p.Away
	if rest <= 0 {
		half := (1 - newDraw) / 2
		return models.OutcomeProbabilities{Home: half, Draw: newDraw, Away: half}
	}
	scale := (1 - newDraw) / rest
	return models.OutcomeProbabilities{Home: p.Home * scale, Draw: newDraw, Away: p.Away * scale}
}
