package oddsfeed

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Drift factor bounds. Movement outside this band is almost always a
// palpable-error reprice, not genuine market sentiment.
const (
	driftFloor   = 0.80
	driftCeiling = 1.25
)

// DriftTracker derives the per-fixture odds-movement factor from the tick
// stream. The first usable draw quote seen for a fixture becomes the
// baseline; the factor is baseline/current, so shortening draw odds (market
// support for the draw) pushes the factor above 1.
type DriftTracker struct {
	mu        sync.RWMutex
	baselines *cache.Cache
	latest    map[string]decimal.Decimal
	logger    logrus.FieldLogger
}

// NewDriftTracker creates a tracker whose baselines expire after ttl, so a
// fixture re-quoted days later starts a fresh observation window.
func NewDriftTracker(ttl time.Duration, logger logrus.FieldLogger) *DriftTracker {
	return &DriftTracker{
		baselines: cache.New(ttl, ttl/2),
		latest:    make(map[string]decimal.Decimal),
		logger:    logger,
	}
}

// HandleTick records one odds tick. Satisfies TickHandler.
func (d *DriftTracker) HandleTick(tick OddsTick) error {
	draw, err := decimal.NewFromString(tick.Draw)
	if err != nil || !draw.GreaterThan(decimal.NewFromInt(1)) {
		d.logger.WithField("fixture_key", tick.FixtureKey).WithField("draw", tick.Draw).
			Debug("Ignoring unusable draw quote")
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.baselines.Get(tick.FixtureKey); !ok {
		d.baselines.Set(tick.FixtureKey, draw, cache.DefaultExpiration)
	}
	d.latest[tick.FixtureKey] = draw

	return nil
}

// DriftFactor returns the bounded odds-movement factor for a fixture. The
// second return is false when the fixture has no usable observation window,
// which callers treat as an absent signal.
func (d *DriftTracker) DriftFactor(fixtureKey string) (float64, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	baselineRaw, ok := d.baselines.Get(fixtureKey)
	if !ok {
		return 0, false
	}
	current, ok := d.latest[fixtureKey]
	if !ok {
		return 0, false
	}

	baseline := baselineRaw.(decimal.Decimal)
	factor, _ := baseline.Div(current).Float64()

	if factor < driftFloor {
		factor = driftFloor
	}
	if factor > driftCeiling {
		factor = driftCeiling
	}

	return factor, true
}
