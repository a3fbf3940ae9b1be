package snapshot

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/jackpot-engine/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func validData() SnapshotData {
	return SnapshotData{
		Version:   "2026-08-01-a",
		TrainedAt: time.Date(2026, 8, 1, 3, 0, 0, 0, time.UTC),
		Strengths: map[string]models.TeamStrength{
			"team-h": {TeamID: "team-h", Attack: 0.3, Defense: 0.1},
			"team-a": {TeamID: "team-a", Attack: -0.2, Defense: -0.1},
		},
		Params: models.DixonColesParams{Rho: -0.06, HomeAdvantage: 0.25, Temperature: 1.1},
		LeagueConfigs: map[string]models.LeagueConfig{
			"EPL": {Code: "EPL", MinDraws: 2, MaxDraws: 4, DrawFloor: 0.12, DrawCeiling: 0.38, DrawPrior: 0.25},
		},
	}
}

func TestNew_ValidSnapshot(t *testing.T) {
	s, err := New(validData())
	require.NoError(t, err)

	assert.Equal(t, "2026-08-01-a", s.Version())
	assert.Equal(t, 2, s.TeamCount())
	assert.Equal(t, -0.06, s.Params().Rho)
}

func TestNew_ClampsParams(t *testing.T) {
	data := validData()
	data.Params = models.DixonColesParams{Rho: -0.06, HomeAdvantage: 0.9, Temperature: 0.5}

	s, err := New(data)
	require.NoError(t, err)
	assert.Equal(t, 0.6, s.Params().HomeAdvantage)
	assert.Equal(t, 1.0, s.Params().Temperature)
}

func TestNew_RejectsMissingVersion(t *testing.T) {
	data := validData()
	data.Version = ""
	_, err := New(data)
	assert.Error(t, err)
}

func TestNew_RejectsNonMonotonicCurve(t *testing.T) {
	data := validData()
	data.Curves = map[models.Outcome]*models.CalibrationCurve{
		models.OutcomeDraw: {
			Outcome: models.OutcomeDraw,
			Buckets: []models.CalibrationBucket{
				{PredictedBucket: 0.25, ObservedFrequency: 0.6, SampleCount: 50},
				{PredictedBucket: 0.75, ObservedFrequency: 0.4, SampleCount: 50},
			},
		},
	}

	_, err := New(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "isotonic")
}

func TestNew_SkipsNilCurves(t *testing.T) {
	data := validData()
	data.Curves = map[models.Outcome]*models.CalibrationCurve{
		models.OutcomeHome: nil,
	}
	s, err := New(data)
	require.NoError(t, err)
	assert.Empty(t, s.Curves())
}

func TestResolveStrength(t *testing.T) {
	s, err := New(validData())
	require.NoError(t, err)

	ts, ok := s.ResolveStrength("team-h")
	assert.True(t, ok)
	assert.Equal(t, 0.3, ts.Attack)

	// Unknown teams resolve to the neutral rating, flagged via the boolean.
	ts, ok = s.ResolveStrength("team-unknown")
	assert.False(t, ok)
	assert.True(t, ts.IsNeutral())
	assert.Equal(t, "team-unknown", ts.TeamID)
}

func TestLeagueConfigFallback(t *testing.T) {
	s, err := New(validData())
	require.NoError(t, err)

	lc := s.LeagueConfig("EPL")
	assert.Equal(t, 2, lc.MinDraws)

	def := s.LeagueConfig("UNKNOWN")
	assert.Equal(t, "UNKNOWN", def.Code)
	assert.Equal(t, 13, def.MaxDraws)
}

func TestRegistry_ActivateAndSwap(t *testing.T) {
	r := NewRegistry(testLogger())

	_, err := r.Active()
	assert.ErrorIs(t, err, models.ErrSnapshotNotLoaded)

	first, err := New(validData())
	require.NoError(t, err)
	r.Activate(first)

	active, err := r.Active()
	require.NoError(t, err)
	assert.Equal(t, first.Version(), active.Version())

	data := validData()
	data.Version = "2026-08-15-b"
	second, err := New(data)
	require.NoError(t, err)
	r.Activate(second)

	active, err = r.Active()
	require.NoError(t, err)
	assert.Equal(t, "2026-08-15-b", active.Version())
}
