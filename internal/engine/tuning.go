package engine

// Tuning carries the empirically calibrated constants of the pipeline. The
// defaults below came out of historical backfits and should be treated as a
// starting point, not law; they are overridable through configuration and
// revalidated at load time.
type Tuning struct {
	// Structural draw adjustment.
	GlobalDrawBaseline     float64 `mapstructure:"global_draw_baseline"`
	LeaguePriorFloor       float64 `mapstructure:"league_prior_floor"`
	LeaguePriorCeiling     float64 `mapstructure:"league_prior_ceiling"`
	H2HFloor               float64 `mapstructure:"h2h_floor"`
	H2HCeiling             float64 `mapstructure:"h2h_ceiling"`
	SymmetryCeiling        float64 `mapstructure:"symmetry_ceiling"`
	TotalMultiplierFloor   float64 `mapstructure:"total_multiplier_floor"`
	TotalMultiplierCeiling float64 `mapstructure:"total_multiplier_ceiling"`

	// Uncertainty control.
	BaseAlpha       float64 `mapstructure:"base_alpha"`
	AlphaFloor      float64 `mapstructure:"alpha_floor"`
	AlphaCeiling    float64 `mapstructure:"alpha_ceiling"`
	OverroundDecayK float64 `mapstructure:"overround_decay_k"`

	// Probability-set catalogue.
	MarketDominantModelWeight float64 `mapstructure:"market_dominant_model_weight"`
	DrawBoostMultiplier       float64 `mapstructure:"draw_boost_multiplier"`
	DrawBoostCap              float64 `mapstructure:"draw_boost_cap"`
	SharpenTemperature        float64 `mapstructure:"sharpen_temperature"`
	ValueKellyFraction        float64 `mapstructure:"value_kelly_fraction"`

	// Adaptive draw-boost decision rule: tight, uncertain fixtures get the
	// high boost, lopsided ones the low one.
	AdaptiveEntropyHigh float64 `mapstructure:"adaptive_entropy_high"`
	AdaptiveEntropyMid  float64 `mapstructure:"adaptive_entropy_mid"`
	AdaptiveSpreadTight float64 `mapstructure:"adaptive_spread_tight"`
	AdaptiveSpreadLoose float64 `mapstructure:"adaptive_spread_loose"`
	AdaptiveBoostHigh   float64 `mapstructure:"adaptive_boost_high"`
	AdaptiveBoostMid    float64 `mapstructure:"adaptive_boost_mid"`
	AdaptiveBoostLow    float64 `mapstructure:"adaptive_boost_low"`

	// Calibration.
	SmoothingLambda  float64 `mapstructure:"smoothing_lambda"`
	BucketWidth      float64 `mapstructure:"bucket_width"`
	MinBucketSamples int     `mapstructure:"min_bucket_samples"`
}

// DefaultTuning returns the tuned defaults.
func DefaultTuning() Tuning {
	return Tuning{
		GlobalDrawBaseline:     0.26,
		LeaguePriorFloor:       0.85,
		LeaguePriorCeiling:     1.20,
		H2HFloor:               0.85,
		H2HCeiling:             1.30,
		SymmetryCeiling:        1.15,
		TotalMultiplierFloor:   0.80,
		TotalMultiplierCeiling: 1.50,

		BaseAlpha:       0.85,
		AlphaFloor:      0.15,
		AlphaCeiling:    0.75,
		OverroundDecayK: 4.0,

		MarketDominantModelWeight: 0.20,
		DrawBoostMultiplier:       1.15,
		DrawBoostCap:              0.95,
		SharpenTemperature:        0.75,
		ValueKellyFraction:        0.25,

		AdaptiveEntropyHigh: 0.80,
		AdaptiveEntropyMid:  0.60,
		AdaptiveSpreadTight: 0.10,
		AdaptiveSpreadLoose: 0.20,
		AdaptiveBoostHigh:   1.25,
		AdaptiveBoostMid:    1.15,
		AdaptiveBoostLow:    1.05,

		SmoothingLambda:  0.05,
		BucketWidth:      0.05,
		MinBucketSamples: 25,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
