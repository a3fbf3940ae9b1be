package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/jackpot-engine/internal/engine"
	"github.com/yourusername/jackpot-engine/internal/logger"
	"github.com/yourusername/jackpot-engine/internal/metrics"
	"github.com/yourusername/jackpot-engine/internal/models"
	"github.com/yourusername/jackpot-engine/internal/repository"
	"github.com/yourusername/jackpot-engine/internal/snapshot"
	"github.com/yourusername/jackpot-engine/internal/tickets"
)

// TicketService generates constrained ticket batches from computed
// probability sets.
type TicketService struct {
	predictions *PredictionService
	registry    *snapshot.Registry
	policy      *tickets.DrawEligibilityPolicy
	generator   *tickets.Generator
	ticketRepo  repository.TicketRepository
	audit       *logger.AuditLogger
	logger      *logrus.Logger
}

// NewTicketService creates a new ticket service
func NewTicketService(
	predictions *PredictionService,
	registry *snapshot.Registry,
	policyCfg tickets.PolicyConfig,
	ticketRepo repository.TicketRepository,
	log *logrus.Logger,
) *TicketService {
	return &TicketService{
		predictions: predictions,
		registry:    registry,
		policy:      tickets.NewDrawEligibilityPolicy(policyCfg),
		generator:   tickets.NewGenerator(log),
		ticketRepo:  ticketRepo,
		audit:       logger.NewAuditLogger(log),
		logger:      log,
	}
}

// GenerateBatch predicts every fixture of a jackpot, gates draw eligibility,
// and generates a ticket batch from the chosen probability set. The batch is
// persisted and returned with its coverage diagnostics.
func (s *TicketService) GenerateBatch(ctx context.Context, jackpotID uuid.UUID, setName string, ticketCount int) (*models.TicketBatch, *models.CoverageDiagnostics, error) {
	if !validSetName(setName) {
		return nil, nil, fmt.Errorf("%w: %s", models.ErrUnknownProbabilitySet, setName)
	}

	predictions, err := s.predictions.PredictJackpot(ctx, jackpotID)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()

	inputs := make([]tickets.FixtureInput, 0, len(predictions))
	leagueCode := predictions[0].Fixture.LeagueCode
	for _, p := range predictions {
		probs, ok := p.Result.Sets[engine.SetName(setName)]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", models.ErrUnknownProbabilitySet, setName)
		}
		inputs = append(inputs, tickets.FixtureInput{
			FixtureID: p.Fixture.ID,
			Probs:     probs,
			Eligible:  s.policy.EligibleOutcomes(probs, p.Features.H2H),
		})
	}

	snap, err := s.registry.Active()
	if err != nil {
		return nil, nil, err
	}
	league := snap.LeagueConfig(leagueCode)

	batch, diags, err := s.generator.Generate(jackpotID, inputs, ticketCount, league)
	if err != nil {
		return nil, nil, err
	}
	batch.SetName = setName

	metrics.RecordTicketBatch(time.Since(start).Seconds(), diags.DrawBoundsMet)
	s.audit.LogTicketBatch(batch, diags)

	if s.ticketRepo != nil {
		if err := s.ticketRepo.SaveBatch(ctx, batch); err != nil {
			s.logger.WithError(err).WithField("jackpot_id", jackpotID).
				Error("Failed to persist ticket batch")
		}
	}

	return batch, diags, nil
}

func validSetName(name string) bool {
	for _, n := range engine.AllSetNames {
		if string(n) == name {
			return true
		}
	}
	return false
}
