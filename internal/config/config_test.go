package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/jackpot-engine/internal/engine"
	"github.com/yourusername/jackpot-engine/internal/models"
	"github.com/yourusername/jackpot-engine/internal/tickets"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "jackpot-engine",
			Environment: "development",
			LogLevel:    "info",
		},
		Database: DatabaseConfig{
			Host:               "localhost",
			Port:               5432,
			Name:               "jackpot",
			User:               "app",
			Password:           "secret",
			SSLMode:            "disable",
			MaxConnections:     10,
			MaxIdleConnections: 2,
		},
		Engine: EngineConfig{
			MaxParallel: 8,
		},
		Tickets: TicketsConfig{
			DefaultTicketCount: 10,
			DefaultSetName:     "market_balanced",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown environment", func(c *Config) { c.App.Environment = "qa" }},
		{"unknown log level", func(c *Config) { c.App.LogLevel = "verbose" }},
		{"missing database host", func(c *Config) { c.Database.Host = "" }},
		{"bad ssl mode", func(c *Config) { c.Database.SSLMode = "maybe" }},
		{"alpha floor above ceiling", func(c *Config) {
			c.Engine.Tuning.AlphaFloor = 0.8
			c.Engine.Tuning.AlphaCeiling = 0.2
		}},
		{"sharpen temperature softens", func(c *Config) { c.Engine.Tuning.SharpenTemperature = 1.2 }},
		{"league draw band inverted", func(c *Config) {
			c.Leagues = []models.LeagueConfig{{Code: "X", MinDraws: 1, MaxDraws: 3, DrawFloor: 0.4, DrawCeiling: 0.2}}
		}},
		{"policy threshold outside range", func(c *Config) {
			c.Tickets.Policy.DrawProbabilityThreshold = 1.5
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestEffectiveTuning_Defaults(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, engine.DefaultTuning(), cfg.EffectiveTuning())
}

func TestEffectiveTuning_PartialOverride(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.Tuning.BaseAlpha = 0.5
	cfg.Engine.Tuning.DrawBoostMultiplier = 1.3

	tuning := cfg.EffectiveTuning()
	assert.Equal(t, 0.5, tuning.BaseAlpha)
	assert.Equal(t, 1.3, tuning.DrawBoostMultiplier)
	// Untouched fields keep the tuned defaults.
	assert.Equal(t, engine.DefaultTuning().OverroundDecayK, tuning.OverroundDecayK)
	assert.Equal(t, engine.DefaultTuning().BucketWidth, tuning.BucketWidth)
	assert.Equal(t, engine.DefaultTuning().AdaptiveBoostHigh, tuning.AdaptiveBoostHigh)
}

func TestEffectivePolicy_Defaults(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, tickets.DefaultPolicyConfig(), cfg.EffectivePolicy())

	cfg.Tickets.Policy.DrawProbabilityThreshold = 0.33
	p := cfg.EffectivePolicy()
	assert.Equal(t, 0.33, p.DrawProbabilityThreshold)
	assert.Equal(t, tickets.DefaultPolicyConfig().EntropyThreshold, p.EntropyThreshold)
}

func TestLeagueByCode(t *testing.T) {
	cfg := validConfig()
	cfg.Leagues = []models.LeagueConfig{
		{Code: "EPL", MinDraws: 2, MaxDraws: 4, DrawFloor: 0.12, DrawCeiling: 0.38, DrawPrior: 0.25},
	}

	assert.Equal(t, 2, cfg.LeagueByCode("EPL").MinDraws)

	def := cfg.LeagueByCode("UNKNOWN")
	assert.Equal(t, "UNKNOWN", def.Code)
	assert.Equal(t, models.DefaultLeagueConfig("UNKNOWN"), def)
}

func TestLoadWithDefaults_MissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "jackpot-engine", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 9090, cfg.Metrics.Port)
	assert.Equal(t, "market_balanced", cfg.Tickets.DefaultSetName)
	assert.Equal(t, 8, cfg.Engine.MaxParallel)
}

func TestLoadWithDefaults_FileOverridesAndEnvExpansion(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "hunter2")

	content := `
app:
  name: custom-engine
  log_level: debug
database:
  host: db.internal
  password: ${TEST_DB_PASSWORD}
tickets:
  default_ticket_count: 25
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadWithDefaults(path)
	require.NoError(t, err)

	assert.Equal(t, "custom-engine", cfg.App.Name)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "hunter2", cfg.Database.Password)
	assert.Equal(t, 25, cfg.Tickets.DefaultTicketCount)
	// Defaults survive where the file is silent.
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestCacheConfig_TTL(t *testing.T) {
	assert.Equal(t, "5m0s", CacheConfig{}.TTL().String())
	assert.Equal(t, "30s", CacheConfig{TTLSeconds: 30}.TTL().String())
}
