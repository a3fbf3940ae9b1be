package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/jackpot-engine/internal/models"
)

// OddsAPIClient implements OddsSource against the configured odds feed REST
// API. Quotes arrive as strings and are parsed with decimal arithmetic.
type OddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     logrus.FieldLogger
}

// oddsAPIResponse is the provider's 1X2 payload for one fixture.
type oddsAPIResponse struct {
	FixtureKey string `json:"fixture_key"`
	Home       string `json:"home"`
	Draw       string `json:"draw"`
	Away       string `json:"away"`
}

// NewOddsAPIClient creates a new odds feed client
func NewOddsAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger logrus.FieldLogger) *OddsAPIClient {
	return &OddsAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchOdds retrieves the current 1X2 quote for a fixture
func (c *OddsAPIClient) FetchOdds(ctx context.Context, fixtureKey string) (*models.MarketOdds, error) {
	if !c.enabled {
		return nil, NewDataSourceError(c.Name(), ErrCodeDisabled, "odds source disabled", ErrSourceDisabled)
	}

	url := fmt.Sprintf("%s/odds/%s", c.baseURL, fixtureKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "failed to fetch odds", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, NewDataSourceError(c.Name(), ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case http.StatusNotFound:
		return nil, NewDataSourceError(c.Name(), ErrCodeNotFound, "no quote for fixture "+fixtureKey, ErrNotFound)
	case http.StatusTooManyRequests:
		return nil, NewDataSourceError(c.Name(), ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError(c.Name(), ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var payload oddsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	odds := models.ParseMarketOdds(payload.Home, payload.Draw, payload.Away)
	if odds == nil || !odds.IsValid() {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData,
			fmt.Sprintf("unusable quote %s/%s/%s", payload.Home, payload.Draw, payload.Away), ErrInvalidData)
	}

	return odds, nil
}

// Name returns the data source name
func (c *OddsAPIClient) Name() string {
	return "odds_api"
}

// IsEnabled returns whether this source is enabled
func (c *OddsAPIClient) IsEnabled() bool {
	return c.enabled
}
