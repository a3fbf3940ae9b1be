package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/jackpot-engine/internal/models"
)

// FeatureAPIClient implements FeatureSource against the structural feature
// API: weather, referee draw tendency and rest days. Signals that the
// provider cannot supply come back as nil fields; only transport-level
// failures produce an error.
type FeatureAPIClient struct {
	httpClient *RateLimitedHTTPClient
	weatherURL string
	refereeURL string
	enabled    bool
	logger     logrus.FieldLogger
}

type weatherAPIResponse struct {
	Factor *float64 `json:"draw_factor"`
}

type refereeAPIResponse struct {
	Factor   *float64 `json:"draw_factor"`
	RestDays *float64 `json:"rest_day_factor"`
}

// NewFeatureAPIClient creates a new structural feature client
func NewFeatureAPIClient(httpClient *RateLimitedHTTPClient, weatherURL, refereeURL string, enabled bool, logger logrus.FieldLogger) *FeatureAPIClient {
	return &FeatureAPIClient{
		httpClient: httpClient,
		weatherURL: weatherURL,
		refereeURL: refereeURL,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchFeatures retrieves the structural signals for a fixture. Each sub-source
// fails independently: a weather outage does not cost the referee signal.
func (c *FeatureAPIClient) FetchFeatures(ctx context.Context, fixture *models.Fixture) (*models.StructuralFeatures, error) {
	if !c.enabled {
		return nil, NewDataSourceError(c.Name(), ErrCodeDisabled, "feature source disabled", ErrSourceDisabled)
	}

	features := &models.StructuralFeatures{}

	if c.weatherURL != "" {
		var payload weatherAPIResponse
		url := fmt.Sprintf("%s?fixture=%s", c.weatherURL, fixture.ID)
		if err := c.fetchJSON(ctx, url, &payload); err != nil {
			c.logger.WithError(err).WithField("fixture_id", fixture.ID).
				Debug("Weather signal unavailable, treating as neutral")
		} else {
			features.WeatherFactor = payload.Factor
		}
	}

	if c.refereeURL != "" {
		var payload refereeAPIResponse
		url := fmt.Sprintf("%s?fixture=%s", c.refereeURL, fixture.ID)
		if err := c.fetchJSON(ctx, url, &payload); err != nil {
			c.logger.WithError(err).WithField("fixture_id", fixture.ID).
				Debug("Referee signal unavailable, treating as neutral")
		} else {
			features.RefereeFactor = payload.Factor
			features.RestDayFactor = payload.RestDays
		}
	}

	return features, nil
}

func (c *FeatureAPIClient) fetchJSON(ctx context.Context, url string, out interface{}) error {
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return NewDataSourceError(c.Name(), ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return NewDataSourceError(c.Name(), ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	return nil
}

// Name returns the data source name
func (c *FeatureAPIClient) Name() string {
	return "feature_api"
}

// IsEnabled returns whether this source is enabled
func (c *FeatureAPIClient) IsEnabled() bool {
	return c.enabled
}
