package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/jackpot-engine/internal/models"
)

func modelOnlyContext() SetContext {
	base := models.OutcomeProbabilities{Home: 0.5, Draw: 0.25, Away: 0.25}
	return SetContext{
		Base:    base,
		Blended: base,
		Market:  nil,
		Entropy: base.NormalizedEntropy(),
	}
}

func marketContext() SetContext {
	base := models.OutcomeProbabilities{Home: 0.55, Draw: 0.25, Away: 0.20}
	blended := models.OutcomeProbabilities{Home: 0.52, Draw: 0.26, Away: 0.22}
	return SetContext{
		Base:    base,
		Blended: blended,
		Market:  models.NewMarketOdds(2.1, 3.4, 3.9),
		Entropy: blended.NormalizedEntropy(),
	}
}

func TestSetGenerator_ProducesFullCatalogue(t *testing.T) {
	gen := NewProbabilitySetGenerator(DefaultTuning())

	for _, ctx := range []SetContext{modelOnlyContext(), marketContext()} {
		sets := gen.Generate(ctx)
		require.Len(t, sets, len(AllSetNames))
		for _, name := range AllSetNames {
			probs, ok := sets[name]
			require.True(t, ok, "missing set %s", name)
			assert.True(t, probs.IsNormalized(), "set %s violates simplex", name)
		}
	}
}

func TestSetGenerator_PureModelPassesBaseThrough(t *testing.T) {
	gen := NewProbabilitySetGenerator(DefaultTuning())
	ctx := modelOnlyContext()

	sets := gen.Generate(ctx)
	assert.InDelta(t, ctx.Base.Home, sets[SetPureModel].Home, 1e-9)
	assert.InDelta(t, ctx.Base.Draw, sets[SetPureModel].Draw, 1e-9)
	assert.InDelta(t, ctx.Base.Away, sets[SetPureModel].Away, 1e-9)
}

func TestSetGenerator_MarketVariantsDegradeWithoutMarket(t *testing.T) {
	gen := NewProbabilitySetGenerator(DefaultTuning())
	ctx := modelOnlyContext()

	sets := gen.Generate(ctx)
	// No market: market-dominant falls back to the model, value-weighted to
	// the blend.
	assert.InDelta(t, ctx.Base.Home, sets[SetMarketDominant].Home, 1e-9)
	assert.InDelta(t, ctx.Blended.Home, sets[SetValueWeighted].Home, 1e-9)
}

func TestSetGenerator_MarketDominantTracksMarket(t *testing.T) {
	gen := NewProbabilitySetGenerator(DefaultTuning())
	ctx := marketContext()

	sets := gen.Generate(ctx)
	m := ctx.Market.TrueProbabilities()
	want := models.OutcomeProbabilities{
		Home: 0.2*ctx.Base.Home + 0.8*m.Home,
		Draw: 0.2*ctx.Base.Draw + 0.8*m.Draw,
		Away: 0.2*ctx.Base.Away + 0.8*m.Away,
	}.Normalized()

	assert.InDelta(t, want.Home, sets[SetMarketDominant].Home, 1e-9)
	assert.InDelta(t, want.Draw, sets[SetMarketDominant].Draw, 1e-9)
}

func TestSetGenerator_DrawBoosted(t *testing.T) {
	gen := NewProbabilitySetGenerator(DefaultTuning())
	ctx := modelOnlyContext()

	sets := gen.Generate(ctx)
	assert.InDelta(t, 0.25*1.15, sets[SetDrawBoosted].Draw, 1e-9)
	assert.Greater(t, sets[SetDrawBoosted].Draw, ctx.Blended.Draw)
	assert.Equal(t, "H", sets[SetDrawBoosted].Favourite())
}

func TestSetGenerator_EntropyPenalizedSharpens(t *testing.T) {
	gen := NewProbabilitySetGenerator(DefaultTuning())
	ctx := modelOnlyContext()

	sets := gen.Generate(ctx)
	sharpened := sets[SetEntropyPenalized]
	assert.Greater(t, sharpened.Home, ctx.Base.Home)
	assert.Less(t, sharpened.NormalizedEntropy(), ctx.Base.NormalizedEntropy())
}

func TestSetGenerator_EnsembleAverages(t *testing.T) {
	gen := NewProbabilitySetGenerator(DefaultTuning())
	ctx := modelOnlyContext()

	sets := gen.Generate(ctx)
	boostedDraw := 0.25 * 1.15
	wantDraw := (ctx.Base.Draw + ctx.Blended.Draw + boostedDraw) / 3
	assert.InDelta(t, wantDraw, sets[SetEnsemble].Draw, 1e-6)
}

func TestSetGenerator_AdaptiveBoostTiers(t *testing.T) {
	gen := NewProbabilitySetGenerator(DefaultTuning())

	// Tight, uncertain fixture: aggressive 1.25 boost.
	tight := models.OutcomeProbabilities{Home: 0.36, Draw: 0.30, Away: 0.34}
	tightCtx := SetContext{Base: tight, Blended: tight, Entropy: tight.NormalizedEntropy()}
	sets := gen.Generate(tightCtx)
	assert.InDelta(t, 0.30*1.25, sets[SetAdaptive].Draw, 1e-9)

	// Lopsided fixture: conservative 1.05 boost.
	lopsided := models.OutcomeProbabilities{Home: 0.62, Draw: 0.23, Away: 0.15}
	lopsidedCtx := SetContext{Base: lopsided, Blended: lopsided, Entropy: lopsided.NormalizedEntropy()}
	sets = gen.Generate(lopsidedCtx)
	assert.InDelta(t, 0.23*1.05, sets[SetAdaptive].Draw, 1e-9)
}

func TestSetGenerator_AdaptiveRuleFollowsTuning(t *testing.T) {
	// Raise the entropy bar past 1 and widen the boosts: even the tight
	// fixture now lands in the mid tier.
	tuning := DefaultTuning()
	tuning.AdaptiveEntropyHigh = 1.01
	tuning.AdaptiveSpreadLoose = 0.30
	tuning.AdaptiveBoostMid = 1.40
	gen := NewProbabilitySetGenerator(tuning)

	tight := models.OutcomeProbabilities{Home: 0.36, Draw: 0.30, Away: 0.34}
	ctx := SetContext{Base: tight, Blended: tight, Entropy: tight.NormalizedEntropy()}
	sets := gen.Generate(ctx)
	assert.InDelta(t, 0.30*1.40, sets[SetAdaptive].Draw, 1e-9)

	// Floor-tier boost is configurable too.
	tuning = DefaultTuning()
	tuning.AdaptiveEntropyHigh = 1.01
	tuning.AdaptiveEntropyMid = 1.01
	tuning.AdaptiveBoostLow = 1.02
	gen = NewProbabilitySetGenerator(tuning)
	sets = gen.Generate(ctx)
	assert.InDelta(t, 0.30*1.02, sets[SetAdaptive].Draw, 1e-9)
}

func TestBoostDraw_CapAndDegenerate(t *testing.T) {
	p := models.OutcomeProbabilities{Home: 0.3, Draw: 0.4, Away: 0.3}
	out := boostDraw(p, 2.0, 0.5)
	assert.InDelta(t, 0.5, out.Draw, 1e-9)
	assert.InDelta(t, 1.0, out.Sum(), 1e-9)

	// All-draw input splits the remainder evenly.
	degenerate := boostDraw(models.OutcomeProbabilities{Draw: 1.0}, 1.1, 0.9)
	assert.InDelta(t, 0.9, degenerate.Draw, 1e-9)
	assert.InDelta(t, degenerate.Home, degenerate.Away, 1e-12)
}
