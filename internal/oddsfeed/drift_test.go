package oddsfeed

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestDriftTracker_ShorteningDrawOdds(t *testing.T) {
	tracker := NewDriftTracker(time.Hour, testLogger())

	require.NoError(t, tracker.HandleTick(OddsTick{FixtureKey: "fx-1", Draw: "3.60"}))
	require.NoError(t, tracker.HandleTick(OddsTick{FixtureKey: "fx-1", Draw: "3.20"}))

	factor, ok := tracker.DriftFactor("fx-1")
	require.True(t, ok)
	assert.InDelta(t, 3.60/3.20, factor, 1e-9)
	assert.Greater(t, factor, 1.0, "shortening draw odds should signal draw support")
}

func TestDriftTracker_DriftingDrawOdds(t *testing.T) {
	tracker := NewDriftTracker(time.Hour, testLogger())

	require.NoError(t, tracker.HandleTick(OddsTick{FixtureKey: "fx-1", Draw: "3.20"}))
	require.NoError(t, tracker.HandleTick(OddsTick{FixtureKey: "fx-1", Draw: "3.50"}))

	factor, ok := tracker.DriftFactor("fx-1")
	require.True(t, ok)
	assert.Less(t, factor, 1.0)
}

func TestDriftTracker_BoundsExtremeMoves(t *testing.T) {
	tracker := NewDriftTracker(time.Hour, testLogger())

	require.NoError(t, tracker.HandleTick(OddsTick{FixtureKey: "fx-1", Draw: "8.00"}))
	require.NoError(t, tracker.HandleTick(OddsTick{FixtureKey: "fx-1", Draw: "2.00"}))

	factor, ok := tracker.DriftFactor("fx-1")
	require.True(t, ok)
	assert.Equal(t, driftCeiling, factor)
}

func TestDriftTracker_UnknownFixture(t *testing.T) {
	tracker := NewDriftTracker(time.Hour, testLogger())

	_, ok := tracker.DriftFactor("never-seen")
	assert.False(t, ok)
}

func TestDriftTracker_IgnoresUnusableQuotes(t *testing.T) {
	tracker := NewDriftTracker(time.Hour, testLogger())

	require.NoError(t, tracker.HandleTick(OddsTick{FixtureKey: "fx-1", Draw: "garbage"}))
	require.NoError(t, tracker.HandleTick(OddsTick{FixtureKey: "fx-1", Draw: "0.90"}))

	_, ok := tracker.DriftFactor("fx-1")
	assert.False(t, ok)
}
