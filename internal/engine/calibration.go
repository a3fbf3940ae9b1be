package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/yourusername/jackpot-engine/internal/models"
)

// CalibrationEngine maps predicted probabilities through per-outcome
// isotonic curves, then restores the simplex with a uniform-blend smoothing
// step. Missing curves make the engine a passthrough, never a failure.
type CalibrationEngine struct {
	curves map[models.Outcome]*models.CalibrationCurve
	lambda float64
}

// NewCalibrationEngine creates an engine over the snapshot's curves. curves
// may be nil or partial; uncovered outcomes pass through uncalibrated.
func NewCalibrationEngine(curves map[models.Outcome]*models.CalibrationCurve, tuning Tuning) *CalibrationEngine {
	return &CalibrationEngine{curves: curves, lambda: tuning.SmoothingLambda}
}

// Enabled reports whether at least one outcome has a curve.
func (c *CalibrationEngine) Enabled() bool {
	return len(c.curves) > 0
}

// Calibrate applies the per-outcome curves independently, renormalizes, and
// blends with the uniform distribution as a stability regularizer:
//
//	p_smooth = (1-lambda) * normalize(p_cal) + lambda * (1/3,1/3,1/3)
func (c *CalibrationEngine) Calibrate(p models.OutcomeProbabilities) models.OutcomeProbabilities {
	if !c.Enabled() {
		return p
	}

	cal := models.OutcomeProbabilities{
		Home: c.applyCurve(models.OutcomeHome, p.Home),
		Draw: c.applyCurve(models.OutcomeDraw, p.Draw),
		Away: c.applyCurve(models.OutcomeAway, p.Away),
	}
	cal = cal.Normalized()

	u := models.Uniform()
	smooth := models.OutcomeProbabilities{
		Home: (1-c.lambda)*cal.Home + c.lambda*u.Home,
		Draw: (1-c.lambda)*cal.Draw + c.lambda*u.Draw,
		Away: (1-c.lambda)*cal.Away + c.lambda*u.Away,
	}
	return smooth.Normalized()
}

// applyCurve interpolates one leg through its curve, passing through when
// the outcome has no curve.
func (c *CalibrationEngine) applyCurve(outcome models.Outcome, p float64) float64 {
	curve, ok := c.curves[outcome]
	if !ok || curve == nil || len(curve.Buckets) == 0 {
		return p
	}
	return interpolateCurve(curve, p)
}

// interpolateCurve does piecewise-linear interpolation over bucket centers,
// clamping outside the covered range. Monotonicity of the output follows
// from the isotonic invariant on the curve.
func interpolateCurve(curve *models.CalibrationCurve, p float64) float64 {
	buckets := curve.Buckets
	if p <= buckets[0].PredictedBucket {
		return buckets[0].ObservedFrequency
	}
	last := buckets[len(buckets)-1]
	if p >= last.PredictedBucket {
		return last.ObservedFrequency
	}
	idx := sort.Search(len(buckets), func(i int) bool {
		return buckets[i].PredictedBucket >= p
	})
	lo, hi := buckets[idx-1], buckets[idx]
	span := hi.PredictedBucket - lo.PredictedBucket
	if span <= 0 {
		return lo.ObservedFrequency
	}
	frac := (p - lo.PredictedBucket) / span
	return lo.ObservedFrequency + frac*(hi.ObservedFrequency-lo.ObservedFrequency)
}

// CalibrationSample is one historical (predicted, happened) pair for curve
// fitting.
type CalibrationSample struct {
	Predicted float64
	Happened  bool
}

// FitCalibrationCurve fits an isotonic curve for one outcome from settled
// prediction history: fixed-width bucketing followed by pool-adjacent-
// violators, so the returned curve always satisfies the monotonic invariant.
// Returns an error when no bucket reaches the minimum sample count.
func FitCalibrationCurve(outcome models.Outcome, samples []CalibrationSample, tuning Tuning) (*models.CalibrationCurve, error) {
	width := tuning.BucketWidth
	if width <= 0 || width > 0.5 {
		width = 0.05
	}
	nBuckets := int(math.Round(1.0 / width))

	counts := make([]int, nBuckets)
	hits := make([]int, nBuckets)
	for _, s := range samples {
		if s.Predicted < 0 || s.Predicted > 1 {
			continue
		}
		idx := int(s.Predicted / width)
		if idx >= nBuckets {
			idx = nBuckets - 1
		}
		counts[idx]++
		if s.Happened {
			hits[idx]++
		}
	}

	var buckets []models.CalibrationBucket
	for i := 0; i < nBuckets; i++ {
		if counts[i] < tuning.MinBucketSamples {
			continue
		}
		buckets = append(buckets, models.CalibrationBucket{
			PredictedBucket:   (float64(i) + 0.5) * width,
			ObservedFrequency: float64(hits[i]) / float64(counts[i]),
			SampleCount:       counts[i],
		})
	}
	if len(buckets) == 0 {
		return nil, fmt.Errorf("calibration fit for %s: no bucket reached %d samples", outcome, tuning.MinBucketSamples)
	}

	poolAdjacentViolators(buckets)
	return &models.CalibrationCurve{Outcome: outcome, Buckets: buckets}, nil
}

// poolAdjacentViolators enforces non-decreasing observed frequency by
// merging violating neighbours into their weighted mean.
func poolAdjacentViolators(buckets []models.CalibrationBucket) {
	type block struct {
		sum    float64
		weight float64
		span   int
	}
	var blocks []block
	for _, b := range buckets {
		blocks = append(blocks, block{
			sum:    b.ObservedFrequency * float64(b.SampleCount),
			weight: float64(b.SampleCount),
			span:   1,
		})
		for len(blocks) > 1 {
			n := len(blocks)
			cur, prev := blocks[n-1], blocks[n-2]
			if cur.sum/cur.weight >= prev.sum/prev.weight {
				break
			}
			blocks = blocks[:n-1]
			blocks[n-2] = block{
				sum:    prev.sum + cur.sum,
				weight: prev.weight + cur.weight,
				span:   prev.span + cur.span,
			}
		}
	}

	i := 0
	for _, bl := range blocks {
		mean := bl.sum / bl.weight
		for j := 0; j < bl.span; j++ {
			buckets[i].ObservedFrequency = mean
			i++
		}
	}
}
