package models

// Outcome identifies one leg of the 1X2 market.
type Outcome string

const (
	OutcomeHome Outcome = "H"
	OutcomeDraw Outcome = "D"
	OutcomeAway Outcome = "A"
)

// Outcomes lists all legs in display order.
var Outcomes = []Outcome{OutcomeHome, OutcomeDraw, OutcomeAway}

// CalibrationBucket is one point of an isotonic calibration curve: predicted
// probabilities falling into the bucket were observed to come true with
// ObservedFrequency over SampleCount historical predictions.
type CalibrationBucket struct {
	PredictedBucket   float64 `db:"predicted_bucket" json:"predicted_bucket"`
	ObservedFrequency float64 `db:"observed_frequency" json:"observed_frequency"`
	SampleCount       int     `db:"sample_count" json:"sample_count"`
}

// CalibrationCurve maps predicted probability to observed frequency for one
// outcome type. Buckets are ordered by PredictedBucket and the fitting
// procedure guarantees ObservedFrequency is non-decreasing, so downstream
// interpolation may assume monotonicity.
type CalibrationCurve struct {
	Outcome Outcome             `db:"outcome" json:"outcome"`
	Buckets []CalibrationBucket `json:"buckets"`
}

// IsMonotonic verifies the isotonic invariant. Curve fitting enforces it;
// this exists for load-time validation of externally supplied curves.
func (c *CalibrationCurve) IsMonotonic() bool {
	for i := 1; i < len(c.Buckets); i++ {
		if c.Buckets[i].ObservedFrequency < c.Buckets[i-1].ObservedFrequency {
			return false
		}
	}
	return true
}

// TotalSamples returns the number of observations behind the curve.
func (c *CalibrationCurve) TotalSamples() int {
	total := 0
	for _, b := range c.Buckets {
		total += b.SampleCount
	}
	return total
}
