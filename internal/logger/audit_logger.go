// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/jackpot-engine/internal/models"
)

// AuditLogger writes the per-prediction audit trail: which structural draw
// multipliers fired, the uncertainty metadata of market blends, and ticket
// batch outcomes. Audit entries are persisted downstream and never mutated.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPrediction logs one computed probability set for one fixture.
func (al *AuditLogger) LogPrediction(fixtureID, modelVersion, setName string, probs models.OutcomeProbabilities, comps *models.DrawComponents, meta *models.UncertaintyMetadata) {
	fields := logrus.Fields{
		"fixture_id":    fixtureID,
		"model_version": modelVersion,
		"set_name":      setName,
		"p_home":        probs.Home,
		"p_draw":        probs.Draw,
		"p_away":        probs.Away,
	}
	if comps != nil {
		fields["draw_multiplier"] = comps.TotalMultiplier
	}
	if meta != nil {
		fields["entropy"] = meta.Entropy
		fields["alpha_effective"] = meta.AlphaEffective
		fields["overround"] = meta.Overround
	}
	al.WithFields(fields).Info("Prediction recorded")
}

// LogInvariantCorrection logs a simplex-invariant violation that was
// corrected by renormalization.
func (al *AuditLogger) LogInvariantCorrection(fixtureID, stage string, sumBefore float64) {
	al.WithFields(logrus.Fields{
		"fixture_id": fixtureID,
		"stage":      stage,
		"sum_before": sumBefore,
	}).Warn("Simplex invariant corrected")
}

// LogTicketBatch logs a generated batch with its coverage diagnostics.
func (al *AuditLogger) LogTicketBatch(batch *models.TicketBatch, diags *models.CoverageDiagnostics) {
	al.WithFields(logrus.Fields{
		"jackpot_id":  batch.JackpotID,
		"league_code": batch.LeagueCode,
		"set_name":    batch.SetName,
		"tickets":     len(batch.Tickets),
		"total_draws": batch.TotalDraws(),
		"bounds_met":  diags.DrawBoundsMet,
		"warnings":    diags.Warnings,
	}).Info("Ticket batch recorded")
}

// LogSnapshotActivation logs a model version swap.
func (al *AuditLogger) LogSnapshotActivation(oldVersion, newVersion string, teamCount int) {
	al.WithFields(logrus.Fields{
		"old_version": oldVersion,
		"new_version": newVersion,
		"team_count":  teamCount,
	}).Info("Model snapshot activated")
}
