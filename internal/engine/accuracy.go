package engine

import (
	"math"

	"github.com/yourusername/jackpot-engine/internal/models"
)

// SetAccuracy aggregates hit-rate statistics for one probability set over
// settled predictions. Feeds the calibration refit and the audit reports.
type SetAccuracy struct {
	SetName     string  `json:"set_name"`
	Settled     int     `json:"settled"`
	Hits        int     `json:"hits"`
	HitRate     float64 `json:"hit_rate"`
	BrierScore  float64 `json:"brier_score"`
	MeanLogLoss float64 `json:"mean_log_loss"`
}

// EvaluateSetAccuracy computes hit rate, Brier score and log loss for the
// settled subset of the given predictions.
func EvaluateSetAccuracy(setName string, predictions []*models.Prediction) SetAccuracy {
	acc := SetAccuracy{SetName: setName}
	var brier, logLoss float64

	for _, p := range predictions {
		if !p.Settled() || p.SetName != setName {
			continue
		}
		acc.Settled++
		if p.Hit() {
			acc.Hits++
		}
		brier += brierTerm(p)
		logLoss += logLossTerm(p)
	}

	if acc.Settled > 0 {
		acc.HitRate = float64(acc.Hits) / float64(acc.Settled)
		acc.BrierScore = brier / float64(acc.Settled)
		acc.MeanLogLoss = logLoss / float64(acc.Settled)
	}
	return acc
}

// CollectCalibrationSamples turns settled predictions for one set into
// per-outcome fitting samples.
func CollectCalibrationSamples(setName string, predictions []*models.Prediction) map[models.Outcome][]CalibrationSample {
	out := make(map[models.Outcome][]CalibrationSample, len(models.Outcomes))
	for _, p := range predictions {
		if !p.Settled() || p.SetName != setName {
			continue
		}
		for _, o := range models.Outcomes {
			out[o] = append(out[o], CalibrationSample{
				Predicted: p.ProbabilityFor(o),
				Happened:  *p.Outcome == o,
			})
		}
	}
	return out
}

func brierTerm(p *models.Prediction) float64 {
	sum := 0.0
	for _, o := range models.Outcomes {
		actual := 0.0
		if *p.Outcome == o {
			actual = 1.0
		}
		diff := p.ProbabilityFor(o) - actual
		sum += diff * diff
	}
	return sum
}

func logLossTerm(p *models.Prediction) float64 {
	prob := p.ProbabilityFor(*p.Outcome)
	if prob < 1e-12 {
		prob = 1e-12
	}
	return -math.Log(prob)
}
