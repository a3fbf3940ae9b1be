package datasource

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/jackpot-engine/internal/models"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.Timeout = 2 * time.Second
	cfg.RateLimit = 1000
	return NewRateLimitedHTTPClient(cfg, testLogger())
}

func TestOddsAPIClient_FetchOdds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fixture_key":"fx-1","home":"2.10","draw":"3.40","away":"3.60"}`))
	}))
	defer server.Close()

	client := NewOddsAPIClient(testHTTPClient(), server.URL, "test-key", true, testLogger())

	odds, err := client.FetchOdds(context.Background(), "fx-1")
	require.NoError(t, err)
	require.NotNil(t, odds)
	assert.True(t, odds.IsValid())
	assert.Equal(t, "2.1", odds.Home.String())
	assert.Equal(t, "3.4", odds.Draw.String())
}

func TestOddsAPIClient_Disabled(t *testing.T) {
	client := NewOddsAPIClient(testHTTPClient(), "http://unused", "", false, testLogger())

	_, err := client.FetchOdds(context.Background(), "fx-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceDisabled)
}

func TestOddsAPIClient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewOddsAPIClient(testHTTPClient(), server.URL, "k", true, testLogger())

	_, err := client.FetchOdds(context.Background(), "fx-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOddsAPIClient_UnusableQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"fixture_key":"fx-1","home":"0.95","draw":"3.40","away":"3.60"}`))
	}))
	defer server.Close()

	client := NewOddsAPIClient(testHTTPClient(), server.URL, "k", true, testLogger())

	_, err := client.FetchOdds(context.Background(), "fx-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestFeatureAPIClient_FetchFeatures(t *testing.T) {
	weather := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"draw_factor":1.08}`))
	}))
	defer weather.Close()
	referee := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"draw_factor":1.12,"rest_day_factor":0.97}`))
	}))
	defer referee.Close()

	client := NewFeatureAPIClient(testHTTPClient(), weather.URL, referee.URL, true, testLogger())

	fixture := &models.Fixture{ID: uuid.New(), HomeTeamID: "home", AwayTeamID: "away"}
	features, err := client.FetchFeatures(context.Background(), fixture)
	require.NoError(t, err)
	require.NotNil(t, features)

	require.NotNil(t, features.WeatherFactor)
	assert.InDelta(t, 1.08, *features.WeatherFactor, 1e-9)
	require.NotNil(t, features.RefereeFactor)
	assert.InDelta(t, 1.12, *features.RefereeFactor, 1e-9)
	require.NotNil(t, features.RestDayFactor)
	assert.InDelta(t, 0.97, *features.RestDayFactor, 1e-9)
}

func TestFeatureAPIClient_PartialOutage(t *testing.T) {
	// Weather endpoint down; referee still answering.
	weather := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer weather.Close()
	referee := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"draw_factor":1.05}`))
	}))
	defer referee.Close()

	client := NewFeatureAPIClient(testHTTPClient(), weather.URL, referee.URL, true, testLogger())

	fixture := &models.Fixture{ID: uuid.New()}
	features, err := client.FetchFeatures(context.Background(), fixture)
	require.NoError(t, err)

	assert.Nil(t, features.WeatherFactor)
	require.NotNil(t, features.RefereeFactor)
	assert.InDelta(t, 1.05, *features.RefereeFactor, 1e-9)
}

func TestRateLimitedHTTPClient_CircuitBreaker(t *testing.T) {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.CircuitBreakerMax = 2
	cfg.RateLimit = 1000
	cfg.Timeout = 200 * time.Millisecond
	client := NewRateLimitedHTTPClient(cfg, testLogger())

	// Unroutable target; both attempts fail and open the breaker.
	for i := 0; i < 2; i++ {
		_, err := client.Get(context.Background(), "http://127.0.0.1:1")
		require.Error(t, err)
	}

	_, err := client.Get(context.Background(), "http://127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
}
