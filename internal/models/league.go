package models

// LeagueConfig carries the per-league knobs of the engine: ticket draw-count
// constraints and the hard bounds for the structurally adjusted draw
// probability.
type LeagueConfig struct {
	Code        string  `db:"code" json:"code" mapstructure:"code" validate:"required"`
	MinDraws    int     `db:"min_draws" json:"min_draws" mapstructure:"min_draws" validate:"gte=0"`
	MaxDraws    int     `db:"max_draws" json:"max_draws" mapstructure:"max_draws" validate:"gtefield=MinDraws"`
	DrawFloor   float64 `db:"draw_floor" json:"draw_floor" mapstructure:"draw_floor" validate:"gte=0,lte=1"`
	DrawCeiling float64 `db:"draw_ceiling" json:"draw_ceiling" mapstructure:"draw_ceiling" validate:"gtefield=DrawFloor,lte=1"`
	DrawPrior   float64 `db:"draw_prior" json:"draw_prior" mapstructure:"draw_prior" validate:"gte=0,lte=1"`
}

// DefaultLeagueConfig is used for leagues without explicit configuration.
func DefaultLeagueConfig(code string) LeagueConfig {
	return LeagueConfig{
		Code:        code,
		MinDraws:    0,
		MaxDraws:    13,
		DrawFloor:   0.12,
		DrawCeiling: 0.38,
		DrawPrior:   0.26,
	}
}
