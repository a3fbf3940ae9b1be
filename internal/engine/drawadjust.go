package engine

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/jackpot-engine/internal/models"
)

// DrawStructuralAdjuster multiplies the draw probability by a bounded
// composite of independent structural signals and rescales Home/Away
// proportionally. Any absent signal degrades to a neutral 1.0 multiplier,
// never to an error.
type DrawStructuralAdjuster struct {
	tuning Tuning
	logger *logrus.Logger
}

// NewDrawStructuralAdjuster creates an adjuster.
func NewDrawStructuralAdjuster(tuning Tuning, logger *logrus.Logger) *DrawStructuralAdjuster {
	return &DrawStructuralAdjuster{tuning: tuning, logger: logger}
}

// AdjustInput bundles everything the adjuster may consult. All signal fields
// are optional.
type AdjustInput struct {
	Probs    models.OutcomeProbabilities
	League   models.LeagueConfig
	Home     models.TeamStrength
	Away     models.TeamStrength
	Features models.StructuralFeatures
}

// Adjust applies the structural multipliers and returns the rescaled triple
// plus the audit component record.
func (d *DrawStructuralAdjuster) Adjust(in AdjustInput) (models.OutcomeProbabilities, models.DrawComponents) {
	t := d.tuning
	comps := models.NeutralDrawComponents()

	if in.League.DrawPrior > 0 && t.GlobalDrawBaseline > 0 {
		comps.LeaguePrior = clamp(in.League.DrawPrior/t.GlobalDrawBaseline, t.LeaguePriorFloor, t.LeaguePriorCeiling)
	}
	if in.Features.H2H.IsTrusted(time.Now().Year()) {
		comps.HeadToHead = clamp(in.Features.H2H.DrawIndex, t.H2HFloor, t.H2HCeiling)
	}
	comps.RatingSymmetry = d.symmetryMultiplier(in.Home, in.Away)
	comps.Weather = boundedSignal(in.Features.WeatherFactor, t.H2HFloor, t.H2HCeiling)
	comps.RestFatigue = boundedSignal(in.Features.RestDayFactor, t.H2HFloor, t.H2HCeiling)
	comps.Referee = boundedSignal(in.Features.RefereeFactor, t.H2HFloor, t.H2HCeiling)
	comps.OddsMovement = boundedSignal(in.Features.OddsDriftFactor, t.H2HFloor, t.H2HCeiling)

	total := comps.LeaguePrior * comps.HeadToHead * comps.RatingSymmetry *
		comps.Weather * comps.RestFatigue * comps.Referee * comps.OddsMovement
	comps.TotalMultiplier = clamp(total, t.TotalMultiplierFloor, t.TotalMultiplierCeiling)

	adjusted := d.rescale(in.Probs, comps.TotalMultiplier, in.League)

	// Proportional rescaling cannot cross home and away; anything else is a
	// bug worth hearing about.
	if (in.Probs.Home-in.Probs.Away)*(adjusted.Home-adjusted.Away) < 0 {
		d.logger.WithFields(logrus.Fields{
			"before": in.Probs.String(),
			"after":  adjusted.String(),
		}).Error("Draw adjustment flipped the favourite")
	}

	return adjusted, comps
}

// rescale clamps the boosted draw into the league band and redistributes the
// remainder across home/away in proportion to their prior shares.
func (d *DrawStructuralAdjuster) rescale(p models.OutcomeProbabilities, multiplier float64, league models.LeagueConfig) models.OutcomeProbabilities {
	floor, ceiling := league.DrawFloor, league.DrawCeiling
	if ceiling <= floor {
		floor, ceiling = 0.12, 0.38
	}
	newDraw := clamp(p.Draw*multiplier, floor, ceiling)

	rest := p.Home + p.Away
	if rest <= 0 {
		// Degenerate all-draw input; split the remainder evenly.
		half := (1 - newDraw) / 2
		return models.OutcomeProbabilities{Home: half, Draw: newDraw, Away: half}
	}
	scale := (1 - newDraw) / rest
	out := models.OutcomeProbabilities{
		Home: p.Home * scale,
		Draw: newDraw,
		Away: p.Away * scale,
	}
	return out.Normalized()
}

// symmetryMultiplier raises the draw multiplier when both attack and defense
// gaps are small: evenly matched sides draw more often. The multiplier decays
// linearly to neutral as the gap widens.
func (d *DrawStructuralAdjuster) symmetryMultiplier(home, away models.TeamStrength) float64 {
	attackGap := math.Abs(home.Attack - away.Attack)
	defenseGap := math.Abs(home.Defense - away.Defense)
	gap := math.Max(attackGap, defenseGap)

	// Full effect below 0.05 rating gap, none beyond 0.5.
	const fullEffectGap, noEffectGap = 0.05, 0.5
	if gap >= noEffectGap {
		return 1.0
	}
	weight := 1.0
	if gap > fullEffectGap {
		weight = (noEffectGap - gap) / (noEffectGap - fullEffectGap)
	}
	return 1.0 + (d.tuning.SymmetryCeiling-1.0)*weight
}

// boundedSignal clamps an optional external multiplier, treating nil as
// neutral.
func boundedSignal(v *float64, floor, ceiling float64) float64 {
	if v == nil {
		return 1.0
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 1.0
	}
	return clamp(*v, floor, ceiling)
}
