// Package config provides configuration management for the jackpot engine.
package config

import (
	"time"

	"github.com/yourusername/jackpot-engine/internal/engine"
	"github.com/yourusername/jackpot-engine/internal/models"
	"github.com/yourusername/jackpot-engine/internal/tickets"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig             `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig        `mapstructure:"database" validate:"required"`
	Engine    EngineConfig          `mapstructure:"engine" validate:"required"`
	Tickets   TicketsConfig         `mapstructure:"tickets" validate:"required"`
	Leagues   []models.LeagueConfig `mapstructure:"leagues" validate:"dive"`
	OddsFeed  OddsFeedConfig        `mapstructure:"odds_feed"`
	Features  FeatureSourcesConfig  `mapstructure:"feature_sources"`
	Scheduler SchedulerConfig       `mapstructure:"scheduler"`
	Metrics   MetricsConfig         `mapstructure:"metrics" validate:"required"`
	Tracing   TracingConfig         `mapstructure:"tracing"`
	Cache     CacheConfig           `mapstructure:"cache"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// EngineConfig carries the pipeline tuning plus the parallelism knob.
// Zero-valued tuning fields fall back to the tuned defaults at load time.
type EngineConfig struct {
	Tuning      engine.Tuning `mapstructure:"tuning"`
	MaxParallel int           `mapstructure:"max_parallel" validate:"gte=0"`
}

// TicketsConfig holds the draw gate thresholds and batch sizing.
type TicketsConfig struct {
	Policy             tickets.PolicyConfig `mapstructure:"policy"`
	DefaultTicketCount int                  `mapstructure:"default_ticket_count" validate:"required,gt=0"`
	DefaultSetName     string               `mapstructure:"default_set_name" validate:"required"`
}

// OddsFeedConfig configures the market odds sources: the polled HTTP API and
// the websocket stream used for odds-movement tracking.
type OddsFeedConfig struct {
	APIURL         string  `mapstructure:"api_url" validate:"omitempty,url"`
	StreamURL      string  `mapstructure:"stream_url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"omitempty,gte=0"`
}

// FeatureSourcesConfig configures the optional structural feature fetchers.
// Every source degrades to a neutral signal when disabled or unreachable.
type FeatureSourcesConfig struct {
	WeatherAPIURL string `mapstructure:"weather_api_url" validate:"omitempty,url"`
	RefereeAPIURL string `mapstructure:"referee_api_url" validate:"omitempty,url"`
	Enabled       bool   `mapstructure:"enabled"`
}

// SchedulerConfig configures the background cron jobs.
type SchedulerConfig struct {
	SnapshotReloadCron string `mapstructure:"snapshot_reload_cron"`
	CalibrationFitCron string `mapstructure:"calibration_fit_cron"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// TracingConfig configures AWS X-Ray distributed tracing.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	SamplingRate float64 `mapstructure:"sampling_rate" validate:"omitempty,gte=0,lte=1"`
	DaemonAddr   string  `mapstructure:"daemon_addr"`
}

// CacheConfig controls per-fixture result memoization.
type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"omitempty,gt=0"`
	MaxSize    int `mapstructure:"max_size" validate:"omitempty,gt=0"`
}

// TTL returns the cache TTL with a default.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// LeagueByCode resolves a configured league, falling back to defaults.
func (c *Config) LeagueByCode(code string) models.LeagueConfig {
	for _, l := range c.Leagues {
		if l.Code == code {
			return l
		}
	}
	return models.DefaultLeagueConfig(code)
}

// EffectiveTuning returns the engine tuning with zero-valued fields replaced
// by the tuned defaults, so a partial YAML section behaves sanely.
func (c *Config) EffectiveTuning() engine.Tuning {
	t := c.Engine.Tuning
	def := engine.DefaultTuning()
	if t.GlobalDrawBaseline <= 0 {
		t.GlobalDrawBaseline = def.GlobalDrawBaseline
	}
	if t.LeaguePriorFloor <= 0 {
		t.LeaguePriorFloor = def.LeaguePriorFloor
	}
	if t.LeaguePriorCeiling <= 0 {
		t.LeaguePriorCeiling = def.LeaguePriorCeiling
	}
	if t.H2HFloor <= 0 {
		t.H2HFloor = def.H2HFloor
	}
	if t.H2HCeiling <= 0 {
		t.H2HCeiling = def.H2HCeiling
	}
	if t.SymmetryCeiling <= 0 {
		t.SymmetryCeiling = def.SymmetryCeiling
	}
	if t.TotalMultiplierFloor <= 0 {
		t.TotalMultiplierFloor = def.TotalMultiplierFloor
	}
	if t.TotalMultiplierCeiling <= 0 {
		t.TotalMultiplierCeiling = def.TotalMultiplierCeiling
	}
	if t.BaseAlpha <= 0 {
		t.BaseAlpha = def.BaseAlpha
	}
	if t.AlphaFloor <= 0 {
		t.AlphaFloor = def.AlphaFloor
	}
	if t.AlphaCeiling <= 0 {
		t.AlphaCeiling = def.AlphaCeiling
	}
	if t.OverroundDecayK <= 0 {
		t.OverroundDecayK = def.OverroundDecayK
	}
	if t.MarketDominantModelWeight <= 0 {
		t.MarketDominantModelWeight = def.MarketDominantModelWeight
	}
	if t.DrawBoostMultiplier <= 0 {
		t.DrawBoostMultiplier = def.DrawBoostMultiplier
	}
	if t.DrawBoostCap <= 0 {
		t.DrawBoostCap = def.DrawBoostCap
	}
	if t.SharpenTemperature <= 0 {
		t.SharpenTemperature = def.SharpenTemperature
	}
	if t.ValueKellyFraction <= 0 {
		t.ValueKellyFraction = def.ValueKellyFraction
	}
	if t.AdaptiveEntropyHigh <= 0 {
		t.AdaptiveEntropyHigh = def.AdaptiveEntropyHigh
	}
	if t.AdaptiveEntropyMid <= 0 {
		t.AdaptiveEntropyMid = def.AdaptiveEntropyMid
	}
	if t.AdaptiveSpreadTight <= 0 {
		t.AdaptiveSpreadTight = def.AdaptiveSpreadTight
	}
	if t.AdaptiveSpreadLoose <= 0 {
		t.AdaptiveSpreadLoose = def.AdaptiveSpreadLoose
	}
	if t.AdaptiveBoostHigh <= 0 {
		t.AdaptiveBoostHigh = def.AdaptiveBoostHigh
	}
	if t.AdaptiveBoostMid <= 0 {
		t.AdaptiveBoostMid = def.AdaptiveBoostMid
	}
	if t.AdaptiveBoostLow <= 0 {
		t.AdaptiveBoostLow = def.AdaptiveBoostLow
	}
	if t.SmoothingLambda <= 0 {
		t.SmoothingLambda = def.SmoothingLambda
	}
	if t.BucketWidth <= 0 {
		t.BucketWidth = def.BucketWidth
	}
	if t.MinBucketSamples <= 0 {
		t.MinBucketSamples = def.MinBucketSamples
	}
	return t
}

// EffectivePolicy returns the draw gate thresholds with defaults applied.
func (c *Config) EffectivePolicy() tickets.PolicyConfig {
	p := c.Tickets.Policy
	def := tickets.DefaultPolicyConfig()
	if p.DrawProbabilityThreshold <= 0 {
		p.DrawProbabilityThreshold = def.DrawProbabilityThreshold
	}
	if p.EntropyThreshold <= 0 {
		p.EntropyThreshold = def.EntropyThreshold
	}
	if p.H2HDrawIndexThreshold <= 0 {
		p.H2HDrawIndexThreshold = def.H2HDrawIndexThreshold
	}
	return p
}
