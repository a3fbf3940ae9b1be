package datasource

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/jackpot-engine/internal/config"
)

// Sources bundles the configured external data sources.
type Sources struct {
	Odds     OddsSource
	Features FeatureSource

	httpClient *RateLimitedHTTPClient
}

// NewSources builds the odds and feature clients from configuration. Both
// share one rate-limited HTTP client so the combined request rate stays
// within the configured limit.
func NewSources(cfg *config.Config, logger logrus.FieldLogger) *Sources {
	clientCfg := DefaultHTTPClientConfig()
	if cfg.OddsFeed.TimeoutSeconds > 0 {
		clientCfg.Timeout = time.Duration(cfg.OddsFeed.TimeoutSeconds) * time.Second
	}
	if cfg.OddsFeed.RateLimit > 0 {
		clientCfg.RateLimit = cfg.OddsFeed.RateLimit
	}
	if cfg.OddsFeed.MaxRetries > 0 {
		clientCfg.MaxRetries = cfg.OddsFeed.MaxRetries
	}

	httpClient := NewRateLimitedHTTPClient(clientCfg, logger)

	oddsEnabled := cfg.OddsFeed.APIURL != ""
	featuresEnabled := cfg.Features.Enabled && (cfg.Features.WeatherAPIURL != "" || cfg.Features.RefereeAPIURL != "")

	return &Sources{
		Odds:       NewOddsAPIClient(httpClient, cfg.OddsFeed.APIURL, cfg.OddsFeed.APIKey, oddsEnabled, logger),
		Features:   NewFeatureAPIClient(httpClient, cfg.Features.WeatherAPIURL, cfg.Features.RefereeAPIURL, featuresEnabled, logger),
		httpClient: httpClient,
	}
}

// Close releases the shared HTTP client resources.
func (s *Sources) Close() error {
	if s.httpClient != nil {
		return s.httpClient.Close()
	}
	return nil
}
