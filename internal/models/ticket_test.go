package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func makeTicket(outcomes ...Outcome) Ticket {
	t := Ticket{ID: uuid.New()}
	for _, o := range outcomes {
		t.Selections = append(t.Selections, Selection{
			FixtureID:   uuid.New(),
			Outcome:     o,
			Probability: 0.5,
		})
	}
	return t
}

func TestTicket_DrawCount(t *testing.T) {
	ticket := makeTicket(OutcomeHome, OutcomeDraw, OutcomeAway, OutcomeDraw)
	assert.Equal(t, 2, ticket.DrawCount())
}

func TestTicket_Probability(t *testing.T) {
	ticket := Ticket{Selections: []Selection{
		{Outcome: OutcomeHome, Probability: 0.5},
		{Outcome: OutcomeDraw, Probability: 0.3},
	}}
	assert.InDelta(t, 0.15, ticket.Probability(), 1e-12)

	empty := Ticket{}
	assert.Equal(t, 1.0, empty.Probability())
}

func TestTicketBatch_WithinDrawBounds(t *testing.T) {
	batch := TicketBatch{
		MinDraws: 2,
		MaxDraws: 4,
		Tickets: []Ticket{
			makeTicket(OutcomeHome, OutcomeDraw),
			makeTicket(OutcomeDraw, OutcomeAway),
		},
	}
	assert.Equal(t, 2, batch.TotalDraws())
	assert.True(t, batch.WithinDrawBounds())

	batch.MinDraws = 3
	assert.False(t, batch.WithinDrawBounds())
}

func TestPrediction_Hit(t *testing.T) {
	home := OutcomeHome
	draw := OutcomeDraw
	p := Prediction{Probs: OutcomeProbabilities{Home: 0.5, Draw: 0.3, Away: 0.2}}

	assert.False(t, p.Settled())
	assert.False(t, p.Hit())

	p.Outcome = &home
	assert.True(t, p.Settled())
	assert.True(t, p.Hit())

	p.Outcome = &draw
	assert.False(t, p.Hit())
}
