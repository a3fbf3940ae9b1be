// Package metrics provides the centralized Prometheus registry for the
// jackpot engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsComputedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jackpot_engine",
		Name:      "predictions_computed_total",
		Help:      "Total number of fixture probability computations",
	})
	InvariantCorrectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jackpot_engine",
		Name:      "invariant_corrections_total",
		Help:      "Simplex invariant violations corrected by renormalization, by stage",
	}, []string{"stage"})
	CalibrationPassthroughsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jackpot_engine",
		Name:      "calibration_passthroughs_total",
		Help:      "Predictions served without calibration because no curve was loaded",
	})
	MissingSignalsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jackpot_engine",
		Name:      "missing_signals_total",
		Help:      "Structural signals that degraded to neutral, by signal name",
	}, []string{"signal"})
	TicketBatchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jackpot_engine",
		Name:      "ticket_batches_total",
		Help:      "Total number of ticket batches generated",
	})
	InfeasibleBatchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jackpot_engine",
		Name:      "infeasible_batches_total",
		Help:      "Batches whose draw-count constraint could not be satisfied",
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jackpot_engine",
		Name:      "cache_hits_total",
		Help:      "Prediction cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jackpot_engine",
		Name:      "cache_misses_total",
		Help:      "Prediction cache misses",
	})
)

// Gauge metrics
var (
	ActiveModelTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "jackpot_engine",
		Name:      "active_model_teams",
		Help:      "Number of rated teams in the active snapshot",
	})
	SnapshotAgeSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "jackpot_engine",
		Name:      "snapshot_age_seconds",
		Help:      "Age of the active model snapshot",
	})
)

// Histogram metrics
var (
	PredictionEntropy = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "jackpot_engine",
		Name:      "prediction_entropy",
		Help:      "Normalized entropy of market-blended predictions",
		Buckets:   []float64{0.2, 0.4, 0.6, 0.7, 0.8, 0.9, 0.95, 1.0},
	})
	PipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "jackpot_engine",
		Name:      "pipeline_duration_seconds",
		Help:      "Duration of one fixture's probability pipeline",
		Buckets:   prometheus.DefBuckets,
	})
	TicketSearchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "jackpot_engine",
		Name:      "ticket_search_duration_seconds",
		Help:      "Duration of ticket batch generation and repair",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsComputedTotal)
		registry.MustRegister(InvariantCorrectionsTotal)
		registry.MustRegister(CalibrationPassthroughsTotal)
		registry.MustRegister(MissingSignalsTotal)
		registry.MustRegister(TicketBatchesTotal)
		registry.MustRegister(InfeasibleBatchesTotal)
		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)

		registry.MustRegister(ActiveModelTeams)
		registry.MustRegister(SnapshotAgeSeconds)

		registry.MustRegister(PredictionEntropy)
		registry.MustRegister(PipelineDuration)
		registry.MustRegister(TicketSearchDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records one completed fixture pipeline.
func RecordPrediction(durationSeconds, entropy float64) {
	PredictionsComputedTotal.Inc()
	PipelineDuration.Observe(durationSeconds)
	PredictionEntropy.Observe(entropy)
}

// RecordInvariantCorrection records a corrected simplex violation.
func RecordInvariantCorrection(stage string) {
	InvariantCorrectionsTotal.WithLabelValues(stage).Inc()
}

// RecordMissingSignal records a structural signal that fell back to neutral.
func RecordMissingSignal(signal string) {
	MissingSignalsTotal.WithLabelValues(signal).Inc()
}

// RecordTicketBatch records a generated batch.
func RecordTicketBatch(durationSeconds float64, feasible bool) {
	TicketBatchesTotal.Inc()
	TicketSearchDuration.Observe(durationSeconds)
	if !feasible {
		InfeasibleBatchesTotal.Inc()
	}
}

// RecordCacheHit records a prediction cache hit.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a prediction cache miss.
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}
