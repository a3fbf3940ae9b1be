package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/jackpot-engine/internal/models"
)

func twoPointCurve(outcome models.Outcome, lowFreq, highFreq float64) *models.CalibrationCurve {
	return &models.CalibrationCurve{
		Outcome: outcome,
		Buckets: []models.CalibrationBucket{
			{PredictedBucket: 0.25, ObservedFrequency: lowFreq, SampleCount: 100},
			{PredictedBucket: 0.75, ObservedFrequency: highFreq, SampleCount: 100},
		},
	}
}

func TestCalibrationEngine_PassthroughWithoutCurves(t *testing.T) {
	p := models.OutcomeProbabilities{Home: 0.5, Draw: 0.3, Away: 0.2}

	for _, curves := range []map[models.Outcome]*models.CalibrationCurve{nil, {}} {
		eng := NewCalibrationEngine(curves, DefaultTuning())
		assert.False(t, eng.Enabled())
		assert.Equal(t, p, eng.Calibrate(p))
	}
}

func TestCalibrationEngine_Interpolation(t *testing.T) {
	curve := twoPointCurve(models.OutcomeHome, 0.2, 0.6)

	tests := []struct {
		name      string
		predicted float64
		want      float64
	}{
		{"below first bucket clamps", 0.10, 0.2},
		{"at first bucket", 0.25, 0.2},
		{"midpoint interpolates", 0.50, 0.4},
		{"at last bucket", 0.75, 0.6},
		{"above last bucket clamps", 0.90, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, interpolateCurve(curve, tt.predicted), 1e-9)
		})
	}
}

func TestCalibrationEngine_CalibrateRestoresSimplex(t *testing.T) {
	curves := map[models.Outcome]*models.CalibrationCurve{
		models.OutcomeHome: twoPointCurve(models.OutcomeHome, 0.2, 0.6),
		models.OutcomeDraw: twoPointCurve(models.OutcomeDraw, 0.15, 0.45),
		models.OutcomeAway: twoPointCurve(models.OutcomeAway, 0.18, 0.55),
	}
	eng := NewCalibrationEngine(curves, DefaultTuning())
	require.True(t, eng.Enabled())

	out := eng.Calibrate(models.OutcomeProbabilities{Home: 0.5, Draw: 0.3, Away: 0.2})
	assert.True(t, out.IsNormalized())
	assert.Equal(t, "H", out.Favourite())
}

func TestCalibrationEngine_PartialCurves(t *testing.T) {
	// Only the home leg has a curve; the other legs pass through before the
	// joint renormalization.
	curves := map[models.Outcome]*models.CalibrationCurve{
		models.OutcomeHome: twoPointCurve(models.OutcomeHome, 0.2, 0.6),
	}
	eng := NewCalibrationEngine(curves, DefaultTuning())
	assert.True(t, eng.Enabled())

	out := eng.Calibrate(models.OutcomeProbabilities{Home: 0.5, Draw: 0.3, Away: 0.2})
	assert.True(t, out.IsNormalized())
}

func TestFitCalibrationCurve_PoolAdjacentViolators(t *testing.T) {
	tuning := DefaultTuning()
	tuning.BucketWidth = 0.25
	tuning.MinBucketSamples = 2

	// Bucket [0, 0.25) observes 3/4; bucket [0.25, 0.5) observes 1/4. The
	// violation merges both into their weighted mean.
	var samples []CalibrationSample
	for i := 0; i < 4; i++ {
		samples = append(samples, CalibrationSample{Predicted: 0.10, Happened: i < 3})
	}
	for i := 0; i < 4; i++ {
		samples = append(samples, CalibrationSample{Predicted: 0.30, Happened: i < 1})
	}

	curve, err := FitCalibrationCurve(models.OutcomeDraw, samples, tuning)
	require.NoError(t, err)
	require.Len(t, curve.Buckets, 2)

	assert.True(t, curve.IsMonotonic())
	assert.InDelta(t, 0.5, curve.Buckets[0].ObservedFrequency, 1e-9)
	assert.InDelta(t, 0.5, curve.Buckets[1].ObservedFrequency, 1e-9)
	assert.InDelta(t, 0.125, curve.Buckets[0].PredictedBucket, 1e-9)
	assert.InDelta(t, 0.375, curve.Buckets[1].PredictedBucket, 1e-9)
	assert.Equal(t, 8, curve.TotalSamples())
}

func TestFitCalibrationCurve_MonotonicInputUntouched(t *testing.T) {
	tuning := DefaultTuning()
	tuning.BucketWidth = 0.25
	tuning.MinBucketSamples = 2

	var samples []CalibrationSample
	for i := 0; i < 4; i++ {
		samples = append(samples, CalibrationSample{Predicted: 0.10, Happened: i < 1})
	}
	for i := 0; i < 4; i++ {
		samples = append(samples, CalibrationSample{Predicted: 0.30, Happened: i < 3})
	}

	curve, err := FitCalibrationCurve(models.OutcomeHome, samples, tuning)
	require.NoError(t, err)
	require.Len(t, curve.Buckets, 2)
	assert.InDelta(t, 0.25, curve.Buckets[0].ObservedFrequency, 1e-9)
	assert.InDelta(t, 0.75, curve.Buckets[1].ObservedFrequency, 1e-9)
}

func TestFitCalibrationCurve_InsufficientSamples(t *testing.T) {
	samples := []CalibrationSample{{Predicted: 0.4, Happened: true}}
	_, err := FitCalibrationCurve(models.OutcomeHome, samples, DefaultTuning())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no bucket")
}

func TestFitCalibrationCurve_SkipsOutOfRangeSamples(t *testing.T) {
	tuning := DefaultTuning()
	tuning.BucketWidth = 0.25
	tuning.MinBucketSamples = 2

	samples := []CalibrationSample{
		{Predicted: -0.1, Happened: true},
		{Predicted: 1.5, Happened: true},
		{Predicted: 0.6, Happened: true},
		{Predicted: 0.6, Happened: false},
	}
	curve, err := FitCalibrationCurve(models.OutcomeAway, samples, tuning)
	require.NoError(t, err)
	require.Len(t, curve.Buckets, 1)
	assert.Equal(t, 2, curve.Buckets[0].SampleCount)
}
