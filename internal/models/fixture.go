package models

import (
	"time"

	"github.com/google/uuid"
)

// Fixture represents one match inside a jackpot.
type Fixture struct {
	ID         uuid.UUID   `db:"id" json:"id" validate:"required,uuid4"`
	HomeTeamID string      `db:"home_team_id" json:"home_team_id" validate:"required"`
	AwayTeamID string      `db:"away_team_id" json:"away_team_id" validate:"required"`
	LeagueCode string      `db:"league_code" json:"league_code" validate:"required"`
	KickoffAt  time.Time   `db:"kickoff_at" json:"kickoff_at"`
	MarketOdds *MarketOdds `json:"market_odds,omitempty"`
}

// HasMarket reports whether usable 1X2 market odds are attached.
func (f *Fixture) HasMarket() bool {
	return f.MarketOdds != nil && f.MarketOdds.IsValid()
}

// StructuralFeatures carries the optional per-fixture signals consumed by the
// draw adjustment. Every field is optional; nil means "no signal", which the
// engine treats as neutral rather than an error.
type StructuralFeatures struct {
	H2H             *H2HStats `json:"h2h,omitempty"`
	WeatherFactor   *float64  `json:"weather_factor,omitempty"`
	RestDayFactor   *float64  `json:"rest_day_factor,omitempty"`
	RefereeFactor   *float64  `json:"referee_factor,omitempty"`
	OddsDriftFactor *float64  `json:"odds_drift_factor,omitempty"`
}
