package models

import (
	"github.com/google/uuid"
)

// Selection is one picked outcome on a ticket.
type Selection struct {
	FixtureID   uuid.UUID `json:"fixture_id"`
	Outcome     Outcome   `json:"outcome"`
	Probability float64   `json:"probability"`
}

// Ticket is an ordered selection of one outcome per fixture across a
// jackpot.
type Ticket struct {
	ID         uuid.UUID   `json:"id"`
	Selections []Selection `json:"selections"`
}

// DrawCount returns the number of draw selections on the ticket.
func (t *Ticket) DrawCount() int {
	n := 0
	for _, s := range t.Selections {
		if s.Outcome == OutcomeDraw {
			n++
		}
	}
	return n
}

// Probability returns the joint probability of the ticket under
// independence across fixtures.
func (t *Ticket) Probability() float64 {
	p := 1.0
	for _, s := range t.Selections {
		p *= s.Probability
	}
	return p
}

// TicketBatch is the generated set of tickets for one jackpot.
type TicketBatch struct {
	JackpotID  uuid.UUID `json:"jackpot_id"`
	LeagueCode string    `json:"league_code"`
	SetName    string    `json:"set_name"`
	Tickets    []Ticket  `json:"tickets"`
	MinDraws   int       `json:"min_draws"`
	MaxDraws   int       `json:"max_draws"`
}

// TotalDraws returns the realized draw count across the whole batch.
func (b *TicketBatch) TotalDraws() int {
	n := 0
	for i := range b.Tickets {
		n += b.Tickets[i].DrawCount()
	}
	return n
}

// WithinDrawBounds reports whether the realized draw count satisfies the
// league constraint.
func (b *TicketBatch) WithinDrawBounds() bool {
	n := b.TotalDraws()
	return n >= b.MinDraws && n <= b.MaxDraws
}

// CoverageDiagnostics summarizes outcome coverage across a batch, with
// warning flags for degenerate distributions.
type CoverageDiagnostics struct {
	HomePct       float64  `json:"home_pct"`
	DrawPct       float64  `json:"draw_pct"`
	AwayPct       float64  `json:"away_pct"`
	DrawBoundsMet bool     `json:"draw_bounds_met"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Coverage warning labels.
const (
	WarnNoDrawCoverage       = "no_draw_coverage"
	WarnExcessDrawCoverage   = "excess_draw_coverage"
	WarnHomeAwayImbalance    = "home_away_imbalance"
	WarnDrawBoundsInfeasible = "draw_bounds_infeasible"
)
