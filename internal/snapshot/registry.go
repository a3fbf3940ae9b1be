package snapshot

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/jackpot-engine/internal/models"
)

// Registry holds the active model snapshot. Activation is a single atomic
// pointer swap: an in-flight computation sees entirely the old snapshot or
// entirely the new one, never a mix. Snapshots are never mutated in place.
type Registry struct {
	active atomic.Pointer[ModelSnapshot]
	logger *logrus.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *logrus.Logger) *Registry {
	return &Registry{logger: logger}
}

// Activate swaps the given snapshot in as the active version.
func (r *Registry) Activate(s *ModelSnapshot) {
	old := r.active.Swap(s)
	fields := logrus.Fields{"version": s.Version(), "teams": s.TeamCount()}
	if old != nil {
		fields["previous_version"] = old.Version()
	}
	r.logger.WithFields(fields).Info("Model snapshot activated")
}

// Active returns the current snapshot, or ErrSnapshotNotLoaded before the
// first activation.
func (r *Registry) Active() (*ModelSnapshot, error) {
	s := r.active.Load()
	if s == nil {
		return nil, models.ErrSnapshotNotLoaded
	}
	return s, nil
}
