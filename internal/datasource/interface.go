// Package datasource fetches market odds and structural feature signals from
// external providers. Every source is optional: a disabled or failing source
// degrades to an absent signal, never to a pipeline error.
package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/jackpot-engine/internal/models"
)

// OddsSource defines the interface for fetching 1X2 market odds
type OddsSource interface {
	// FetchOdds retrieves the current 1X2 quote for a fixture, identified by
	// the provider's fixture key.
	FetchOdds(ctx context.Context, fixtureKey string) (*models.MarketOdds, error)

	// Name returns the name of the odds source
	Name() string

	// IsEnabled returns whether this source is currently enabled
	IsEnabled() bool
}

// FeatureSource defines the interface for fetching structural fixture signals
type FeatureSource interface {
	// FetchFeatures retrieves the structural signals for a fixture. Missing
	// individual signals come back as nil fields, not errors.
	FetchFeatures(ctx context.Context, fixture *models.Fixture) (*models.StructuralFeatures, error)

	// Name returns the name of the feature source
	Name() string

	// IsEnabled returns whether this source is currently enabled
	IsEnabled() bool
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeDisabled             = "source_disabled"
)

// Sentinel errors for callers that branch on failure class
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrSourceDisabled       = errors.New("data source disabled")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
