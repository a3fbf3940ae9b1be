package tickets

import (
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/jackpot-engine/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var allOutcomes = []models.Outcome{models.OutcomeHome, models.OutcomeAway, models.OutcomeDraw}

func outcomeKey(t models.Ticket) string {
	k := ""
	for _, s := range t.Selections {
		k += string(s.Outcome)
	}
	return k
}

func TestGenerator_BestTicketFirst(t *testing.T) {
	g := NewGenerator(testLogger())
	fixtures := []FixtureInput{
		{FixtureID: uuid.New(), Probs: models.OutcomeProbabilities{Home: 0.6, Draw: 0.25, Away: 0.15}, Eligible: allOutcomes},
		{FixtureID: uuid.New(), Probs: models.OutcomeProbabilities{Home: 0.5, Draw: 0.30, Away: 0.20}, Eligible: allOutcomes},
		{FixtureID: uuid.New(), Probs: models.OutcomeProbabilities{Home: 0.45, Draw: 0.30, Away: 0.25}, Eligible: []models.Outcome{models.OutcomeHome, models.OutcomeAway}},
	}
	league := models.LeagueConfig{Code: "EPL", MinDraws: 1, MaxDraws: 3, DrawFloor: 0.12, DrawCeiling: 0.38}

	batch, diags, err := g.Generate(uuid.New(), fixtures, 4, league)
	require.NoError(t, err)
	require.Len(t, batch.Tickets, 4)

	// The top ticket is the all-favourites line.
	first := batch.Tickets[0]
	require.Len(t, first.Selections, 3)
	for _, s := range first.Selections {
		assert.Equal(t, models.OutcomeHome, s.Outcome)
	}
	assert.InDelta(t, 0.6*0.5*0.45, first.Probability(), 1e-9)

	// Tickets are distinct and ordered by descending joint probability.
	seen := map[string]bool{}
	for i, ticket := range batch.Tickets {
		k := outcomeKey(ticket)
		assert.False(t, seen[k], "duplicate ticket %s", k)
		seen[k] = true
		if i > 0 {
			assert.LessOrEqual(t, ticket.Probability(), batch.Tickets[i-1].Probability()+1e-12)
		}
	}

	assert.True(t, diags.DrawBoundsMet)
	assert.True(t, batch.WithinDrawBounds())
}

func TestGenerator_RespectsEligibility(t *testing.T) {
	g := NewGenerator(testLogger())
	drawless := uuid.New()
	fixtures := []FixtureInput{
		{FixtureID: drawless, Probs: models.OutcomeProbabilities{Home: 0.5, Draw: 0.3, Away: 0.2}, Eligible: []models.Outcome{models.OutcomeHome, models.OutcomeAway}},
		{FixtureID: uuid.New(), Probs: models.OutcomeProbabilities{Home: 0.4, Draw: 0.3, Away: 0.3}, Eligible: allOutcomes},
	}
	league := models.LeagueConfig{Code: "EPL", MinDraws: 0, MaxDraws: 4}

	batch, _, err := g.Generate(uuid.New(), fixtures, 6, league)
	require.NoError(t, err)

	// An ineligible draw never appears, no matter how the batch is repaired.
	for _, ticket := range batch.Tickets {
		for _, s := range ticket.Selections {
			if s.FixtureID == drawless {
				assert.NotEqual(t, models.OutcomeDraw, s.Outcome)
			}
		}
	}
}

func TestGenerator_RepairsUpToMinDraws(t *testing.T) {
	g := NewGenerator(testLogger())
	fixtures := []FixtureInput{
		{FixtureID: uuid.New(), Probs: models.OutcomeProbabilities{Home: 0.7, Draw: 0.2, Away: 0.1}, Eligible: allOutcomes},
		{FixtureID: uuid.New(), Probs: models.OutcomeProbabilities{Home: 0.6, Draw: 0.25, Away: 0.15}, Eligible: allOutcomes},
	}
	league := models.LeagueConfig{Code: "EPL", MinDraws: 2, MaxDraws: 4}

	batch, diags, err := g.Generate(uuid.New(), fixtures, 2, league)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, batch.TotalDraws(), 2)
	assert.LessOrEqual(t, batch.TotalDraws(), 4)
	assert.True(t, diags.DrawBoundsMet)

	// Repair must not introduce duplicates.
	seen := map[string]bool{}
	for _, ticket := range batch.Tickets {
		k := outcomeKey(ticket)
		assert.False(t, seen[k])
		seen[k] = true
	}
}

func TestGenerator_RepairsDownToMaxDraws(t *testing.T) {
	g := NewGenerator(testLogger())
	// Draw-heavy probabilities so the naive best tickets overshoot the cap.
	var fixtures []FixtureInput
	for i := 0; i < 4; i++ {
		fixtures = append(fixtures, FixtureInput{
			FixtureID: uuid.New(),
			Probs:     models.OutcomeProbabilities{Home: 0.30, Draw: 0.40, Away: 0.30},
			Eligible:  allOutcomes,
		})
	}
	league := models.LeagueConfig{Code: "EPL", MinDraws: 0, MaxDraws: 2}

	batch, diags, err := g.Generate(uuid.New(), fixtures, 1, league)
	require.NoError(t, err)

	assert.LessOrEqual(t, batch.TotalDraws(), 2)
	assert.True(t, diags.DrawBoundsMet)
}

func TestGenerator_InfeasibleBoundsBestEffort(t *testing.T) {
	g := NewGenerator(testLogger())
	// No fixture admits a draw, yet the league demands one.
	fixtures := []FixtureInput{
		{FixtureID: uuid.New(), Probs: models.OutcomeProbabilities{Home: 0.6, Draw: 0.25, Away: 0.15}, Eligible: []models.Outcome{models.OutcomeHome, models.OutcomeAway}},
		{FixtureID: uuid.New(), Probs: models.OutcomeProbabilities{Home: 0.5, Draw: 0.3, Away: 0.2}, Eligible: []models.Outcome{models.OutcomeHome, models.OutcomeAway}},
	}
	league := models.LeagueConfig{Code: "EPL", MinDraws: 1, MaxDraws: 3}

	batch, diags, err := g.Generate(uuid.New(), fixtures, 2, league)
	require.NoError(t, err)
	require.NotNil(t, batch)

	assert.False(t, diags.DrawBoundsMet)
	assert.Contains(t, diags.Warnings, models.WarnDrawBoundsInfeasible)
	assert.Contains(t, diags.Warnings, models.WarnNoDrawCoverage)
}

func TestGenerator_EmptyJackpot(t *testing.T) {
	g := NewGenerator(testLogger())
	_, _, err := g.Generate(uuid.New(), nil, 5, models.DefaultLeagueConfig("EPL"))
	assert.ErrorIs(t, err, models.ErrEmptyJackpot)
}

func TestGenerator_RejectsFixtureWithoutEligibleOutcomes(t *testing.T) {
	g := NewGenerator(testLogger())
	blocked := uuid.New()
	fixtures := []FixtureInput{
		{FixtureID: uuid.New(), Probs: models.OutcomeProbabilities{Home: 0.5, Draw: 0.3, Away: 0.2}, Eligible: allOutcomes},
		{FixtureID: blocked, Probs: models.OutcomeProbabilities{Home: 0.5, Draw: 0.3, Away: 0.2}},
	}

	_, _, err := g.Generate(uuid.New(), fixtures, 5, models.DefaultLeagueConfig("EPL"))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNoEligibleOutcomes)
	assert.Contains(t, err.Error(), blocked.String())
}

func TestGenerator_MoreTicketsThanCombinations(t *testing.T) {
	g := NewGenerator(testLogger())
	fixtures := []FixtureInput{
		{FixtureID: uuid.New(), Probs: models.OutcomeProbabilities{Home: 0.5, Draw: 0.3, Away: 0.2}, Eligible: []models.Outcome{models.OutcomeHome, models.OutcomeAway}},
	}
	league := models.LeagueConfig{Code: "EPL", MinDraws: 0, MaxDraws: 2}

	// Only two combinations exist; asking for ten returns both.
	batch, _, err := g.Generate(uuid.New(), fixtures, 10, league)
	require.NoError(t, err)
	assert.Len(t, batch.Tickets, 2)
}

func TestGenerator_CoveragePercentages(t *testing.T) {
	g := NewGenerator(testLogger())
	var fixtures []FixtureInput
	for i := 0; i < 3; i++ {
		fixtures = append(fixtures, FixtureInput{
			FixtureID: uuid.New(),
			Probs:     models.OutcomeProbabilities{Home: 0.45, Draw: 0.30, Away: 0.25},
			Eligible:  allOutcomes,
		})
	}
	league := models.LeagueConfig{Code: "EPL", MinDraws: 0, MaxDraws: 9}

	batch, diags, err := g.Generate(uuid.New(), fixtures, 5, league)
	require.NoError(t, err)

	total := diags.HomePct + diags.DrawPct + diags.AwayPct
	assert.InDelta(t, 1.0, total, 1e-9, fmt.Sprintf("coverage percentages must partition: %v", diags))
	assert.Len(t, batch.Tickets, 5)
}
