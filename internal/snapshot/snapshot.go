// Package snapshot holds the immutable trained-model snapshot and the
// atomic registry that activates new versions.
package snapshot

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/jackpot-engine/internal/models"
)

// ModelSnapshot is one trained model version: team strengths, goal-model
// parameters, calibration curves and league draw priors. A snapshot is
// validated and clamped once at construction and never mutated afterwards,
// so concurrent readers need no locking.
type ModelSnapshot struct {
	version       string
	trainedAt     time.Time
	strengths     map[string]models.TeamStrength
	params        models.DixonColesParams
	curves        map[models.Outcome]*models.CalibrationCurve
	leagueConfigs map[string]models.LeagueConfig
}

// SnapshotData is the raw loaded form of a snapshot before validation.
type SnapshotData struct {
	Version       string                                      `validate:"required"`
	TrainedAt     time.Time                                   ``
	Strengths     map[string]models.TeamStrength              `validate:"required"`
	Params        models.DixonColesParams                     ``
	Curves        map[models.Outcome]*models.CalibrationCurve ``
	LeagueConfigs map[string]models.LeagueConfig              ``
}

// New validates raw snapshot data and freezes it into an immutable
// ModelSnapshot. Parameters are clamped here, once, rather than re-checked
// at every call site. Calibration curves failing the isotonic invariant are
// rejected: downstream interpolation assumes it.
func New(data SnapshotData) (*ModelSnapshot, error) {
	v := validator.New()
	if err := v.Struct(data); err != nil {
		return nil, fmt.Errorf("invalid snapshot %q: %w", data.Version, err)
	}
	for outcome, curve := range data.Curves {
		if curve == nil {
			continue
		}
		if !curve.IsMonotonic() {
			return nil, fmt.Errorf("snapshot %q: calibration curve for %s violates isotonic invariant", data.Version, outcome)
		}
	}

	s := &ModelSnapshot{
		version:       data.Version,
		trainedAt:     data.TrainedAt,
		strengths:     make(map[string]models.TeamStrength, len(data.Strengths)),
		params:        data.Params.Clamped(),
		curves:        make(map[models.Outcome]*models.CalibrationCurve, len(data.Curves)),
		leagueConfigs: make(map[string]models.LeagueConfig, len(data.LeagueConfigs)),
	}
	for id, ts := range data.Strengths {
		s.strengths[id] = ts
	}
	for o, c := range data.Curves {
		if c != nil {
			s.curves[o] = c
		}
	}
	for code, lc := range data.LeagueConfigs {
		s.leagueConfigs[code] = lc
	}
	return s, nil
}

// Version returns the snapshot version string.
func (s *ModelSnapshot) Version() string { return s.version }

// TrainedAt returns when this snapshot was trained.
func (s *ModelSnapshot) TrainedAt() time.Time { return s.trainedAt }

// Params returns the clamped Dixon-Coles parameters.
func (s *ModelSnapshot) Params() models.DixonColesParams { return s.params }

// Curves returns the calibration curves. Callers must treat the map as
// read-only.
func (s *ModelSnapshot) Curves() map[models.Outcome]*models.CalibrationCurve { return s.curves }

// ResolveStrength is the single resolve-or-neutral point for team ratings:
// an unresolved team gets the league-average rating, and the caller learns
// about it through the boolean, not through scattered defaulting.
func (s *ModelSnapshot) ResolveStrength(teamID string) (models.TeamStrength, bool) {
	if ts, ok := s.strengths[teamID]; ok {
		return ts, true
	}
	return models.NeutralStrength(teamID), false
}

// LeagueConfig resolves a league's configuration, falling back to defaults
// for unknown codes.
func (s *ModelSnapshot) LeagueConfig(code string) models.LeagueConfig {
	if lc, ok := s.leagueConfigs[code]; ok {
		return lc
	}
	return models.DefaultLeagueConfig(code)
}

// TeamCount returns the number of rated teams.
func (s *ModelSnapshot) TeamCount() int { return len(s.strengths) }
