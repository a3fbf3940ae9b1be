package models

import "errors"

// Custom errors
var (
	ErrNotFound              = errors.New("record not found")
	ErrSnapshotNotLoaded     = errors.New("no model snapshot is active")
	ErrInvalidExpectation    = errors.New("goal expectation must be positive and finite")
	ErrInvalidProbability    = errors.New("probability outside [0,1]")
	ErrEmptyJackpot          = errors.New("jackpot contains no fixtures")
	ErrNoEligibleOutcomes    = errors.New("fixture has no eligible outcomes")
	ErrUnknownProbabilitySet = errors.New("unknown probability set name")
	ErrInvalidID             = errors.New("invalid ID format")
)
