package models

import (
	"github.com/shopspring/decimal"
)

// MarketOdds holds decimal 1X2 odds for a fixture as quoted by a bookmaker.
// Odds arrive as strings from feeds and are parsed with decimal arithmetic
// to avoid drift before the float conversion at the probability boundary.
type MarketOdds struct {
	Home decimal.Decimal `db:"odds_home" json:"home"`
	Draw decimal.Decimal `db:"odds_draw" json:"draw"`
	Away decimal.Decimal `db:"odds_away" json:"away"`
}

// NewMarketOdds builds MarketOdds from float quotes.
func NewMarketOdds(home, draw, away float64) *MarketOdds {
	return &MarketOdds{
		Home: decimal.NewFromFloat(home),
		Draw: decimal.NewFromFloat(draw),
		Away: decimal.NewFromFloat(away),
	}
}

// ParseMarketOdds builds MarketOdds from string quotes as delivered by the
// odds feed. Returns nil if any leg fails to parse; callers treat a nil
// market as absent.
func ParseMarketOdds(home, draw, away string) *MarketOdds {
	h, err := decimal.NewFromString(home)
	if err != nil {
		return nil
	}
	d, err := decimal.NewFromString(draw)
	if err != nil {
		return nil
	}
	a, err := decimal.NewFromString(away)
	if err != nil {
		return nil
	}
	return &MarketOdds{Home: h, Draw: d, Away: a}
}

// IsValid reports whether all three legs are quoted above 1.0.
func (m *MarketOdds) IsValid() bool {
	one := decimal.NewFromInt(1)
	return m.Home.GreaterThan(one) && m.Draw.GreaterThan(one) && m.Away.GreaterThan(one)
}

// ImpliedProbabilities returns the raw bookmaker-implied triple. The sum
// exceeds 1 by the overround.
func (m *MarketOdds) ImpliedProbabilities() OutcomeProbabilities {
	if !m.IsValid() {
		return OutcomeProbabilities{}
	}
	one := decimal.NewFromInt(1)
	h, _ := one.Div(m.Home).Float64()
	d, _ := one.Div(m.Draw).Float64()
	a, _ := one.Div(m.Away).Float64()
	return OutcomeProbabilities{Home: h, Draw: d, Away: a}
}

// Overround returns the bookmaker margin: implied sum minus 1.
func (m *MarketOdds) Overround() float64 {
	implied := m.ImpliedProbabilities()
	return implied.Sum() - 1.0
}

// TrueProbabilities removes the overround multiplicatively so the triple
// sums to 1.
func (m *MarketOdds) TrueProbabilities() OutcomeProbabilities {
	return m.ImpliedProbabilities().Normalized()
}
