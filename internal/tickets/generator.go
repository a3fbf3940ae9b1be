package tickets

import (
	"container/heap"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/jackpot-engine/internal/models"
)

// FixtureInput is one fixture's contribution to ticket generation: its
// probability triple (from the chosen set) and the eligible outcome list
// from the draw gate.
type FixtureInput struct {
	FixtureID uuid.UUID
	Probs     models.OutcomeProbabilities
	Eligible  []models.Outcome
}

// Generator builds ticket batches honoring league draw-count constraints.
// The search works over an arena of index vectors into the per-fixture
// ranked-option lists rather than deep ticket object graphs.
type Generator struct {
	logger *logrus.Logger
}

// NewGenerator creates a generator.
func NewGenerator(logger *logrus.Logger) *Generator {
	return &Generator{logger: logger}
}

// option is one admissible outcome at one fixture, ranked by probability.
type option struct {
	outcome models.Outcome
	prob    float64
	logProb float64
}

// arena is the indexed search space: options[i] lists fixture i's
// admissible outcomes in descending probability order.
type arena struct {
	fixtureIDs []uuid.UUID
	options    [][]option
}

// candidate is an index vector into the arena plus its score (sum of log
// probabilities; maximizing it maximizes joint ticket probability).
type candidate struct {
	indices []int
	score   float64
}

// Generate produces targetCount tickets for one jackpot, then repairs the
// batch so its realized draw count lands inside the league bounds. When the
// eligible-outcome sets make the bounds unsatisfiable, the best-effort batch
// is returned with an infeasibility warning in the diagnostics rather than
// an error.
func (g *Generator) Generate(jackpotID uuid.UUID, fixtures []FixtureInput, targetCount int, league models.LeagueConfig) (*models.TicketBatch, *models.CoverageDiagnostics, error) {
	if len(fixtures) == 0 {
		return nil, nil, models.ErrEmptyJackpot
	}
	for _, f := range fixtures {
		if len(f.Eligible) == 0 {
			return nil, nil, fmt.Errorf("%w: fixture %s", models.ErrNoEligibleOutcomes, f.FixtureID)
		}
	}
	if targetCount < 1 {
		targetCount = 1
	}

	ar := buildArena(fixtures)
	candidates := kBestCandidates(ar, targetCount)

	batch := &models.TicketBatch{
		JackpotID:  jackpotID,
		LeagueCode: league.Code,
		MinDraws:   league.MinDraws,
		MaxDraws:   league.MaxDraws,
	}
	for _, c := range candidates {
		batch.Tickets = append(batch.Tickets, ar.materialize(c))
	}

	g.repairDrawCount(batch, ar)

	diags := g.diagnose(batch)
	return batch, diags, nil
}

// buildArena ranks each fixture's eligible outcomes by probability.
func buildArena(fixtures []FixtureInput) *arena {
	ar := &arena{}
	for _, f := range fixtures {
		var opts []option
		for _, o := range f.Eligible {
			p := probFor(f.Probs, o)
			if p <= 0 {
				p = 1e-9
			}
			opts = append(opts, option{outcome: o, prob: p, logProb: math.Log(p)})
		}
		sort.Slice(opts, func(i, j int) bool { return opts[i].prob > opts[j].prob })
		ar.fixtureIDs = append(ar.fixtureIDs, f.FixtureID)
		ar.options = append(ar.options, opts)
	}
	return ar
}

func probFor(p models.OutcomeProbabilities, o models.Outcome) float64 {
	switch o {
	case models.OutcomeHome:
		return p.Home
	case models.OutcomeDraw:
		return p.Draw
	case models.OutcomeAway:
		return p.Away
	}
	return 0
}

// candidateHeap is a max-heap on candidate score.
type candidateHeap []candidate

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].score > h[j].score }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// kBestCandidates enumerates the k highest-probability index vectors via
// best-first search: pop the best candidate, expand it by bumping one
// fixture to its next-ranked option.
func kBestCandidates(ar *arena, k int) []candidate {
	n := len(ar.options)
	first := candidate{indices: make([]int, n)}
	for _, opts := range ar.options {
		first.score += opts[0].logProb
	}

	h := &candidateHeap{first}
	heap.Init(h)
	seen := map[string]bool{key(first.indices): true}

	var result []candidate
	for h.Len() > 0 && len(result) < k {
		best := heap.Pop(h).(candidate)
		result = append(result, best)

		for i := 0; i < n; i++ {
			next := best.indices[i] + 1
			if next >= len(ar.options[i]) {
				continue
			}
			indices := append([]int(nil), best.indices...)
			indices[i] = next
			ck := key(indices)
			if seen[ck] {
				continue
			}
			seen[ck] = true
			score := best.score - ar.options[i][best.indices[i]].logProb + ar.options[i][next].logProb
			heap.Push(h, candidate{indices: indices, score: score})
		}
	}
	return result
}

func key(indices []int) string {
	b := make([]byte, len(indices))
	for i, v := range indices {
		b[i] = byte(v)
	}
	return string(b)
}

// materialize turns an index vector into a Ticket.
func (ar *arena) materialize(c candidate) models.Ticket {
	t := models.Ticket{ID: uuid.New()}
	for i, idx := range c.indices {
		opt := ar.options[i][idx]
		t.Selections = append(t.Selections, models.Selection{
			FixtureID:   ar.fixtureIDs[i],
			Outcome:     opt.outcome,
			Probability: opt.prob,
		})
	}
	return t
}

// repairDrawCount swaps selections until the batch draw count falls inside
// [MinDraws, MaxDraws], always choosing the swap with the least probability
// cost. Runs to best effort; feasibility is reported via diagnostics.
func (g *Generator) repairDrawCount(batch *models.TicketBatch, ar *arena) {
	for batch.TotalDraws() < batch.MinDraws {
		if !g.applyBestSwap(batch, ar, true) {
			break
		}
	}
	for batch.TotalDraws() > batch.MaxDraws {
		if !g.applyBestSwap(batch, ar, false) {
			break
		}
	}
}

// applyBestSwap finds the (ticket, fixture) position where switching to a
// draw (toDraw) or away from a draw (!toDraw) costs the least log
// probability, and applies it. Returns false when no admissible swap exists.
func (g *Generator) applyBestSwap(batch *models.TicketBatch, ar *arena, toDraw bool) bool {
	bestTicket, bestFixture := -1, -1
	var bestOpt option
	bestCost := math.Inf(1)

	for ti := range batch.Tickets {
		for fi := range batch.Tickets[ti].Selections {
			sel := &batch.Tickets[ti].Selections[fi]
			isDraw := sel.Outcome == models.OutcomeDraw
			if toDraw == isDraw {
				continue
			}
			opt, ok := bestAlternative(ar.options[fi], toDraw)
			if !ok {
				continue
			}
			if dup := hasSelection(batch, ti, fi, opt.outcome); dup {
				continue
			}
			cost := math.Log(sel.Probability) - opt.logProb
			if cost < bestCost {
				bestCost = cost
				bestTicket, bestFixture = ti, fi
				bestOpt = opt
			}
		}
	}

	if bestTicket < 0 {
		return false
	}
	sel := &batch.Tickets[bestTicket].Selections[bestFixture]
	sel.Outcome = bestOpt.outcome
	sel.Probability = bestOpt.prob
	return true
}

// bestAlternative picks the highest-probability draw (toDraw) or non-draw
// (!toDraw) option at a fixture.
func bestAlternative(opts []option, toDraw bool) (option, bool) {
	for _, o := range opts {
		if (o.outcome == models.OutcomeDraw) == toDraw {
			return o, true
		}
	}
	return option{}, false
}

// hasSelection guards against the swap turning a ticket into a duplicate of
// another ticket in the batch.
func hasSelection(batch *models.TicketBatch, ticketIdx, fixtureIdx int, outcome models.Outcome) bool {
	trial := make([]models.Outcome, len(batch.Tickets[ticketIdx].Selections))
	for i, s := range batch.Tickets[ticketIdx].Selections {
		trial[i] = s.Outcome
	}
	trial[fixtureIdx] = outcome

	for ti := range batch.Tickets {
		if ti == ticketIdx {
			continue
		}
		same := true
		for i, s := range batch.Tickets[ti].Selections {
			if s.Outcome != trial[i] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

// diagnose computes coverage percentages and warning flags for the batch.
func (g *Generator) diagnose(batch *models.TicketBatch) *models.CoverageDiagnostics {
	var home, draw, away, total float64
	for _, t := range batch.Tickets {
		for _, s := range t.Selections {
			total++
			switch s.Outcome {
			case models.OutcomeHome:
				home++
			case models.OutcomeDraw:
				draw++
			case models.OutcomeAway:
				away++
			}
		}
	}

	d := &models.CoverageDiagnostics{DrawBoundsMet: batch.WithinDrawBounds()}
	if total > 0 {
		d.HomePct = home / total
		d.DrawPct = draw / total
		d.AwayPct = away / total
	}

	if !d.DrawBoundsMet {
		d.Warnings = append(d.Warnings, models.WarnDrawBoundsInfeasible)
		g.logger.WithFields(logrus.Fields{
			"jackpot_id":  batch.JackpotID,
			"total_draws": batch.TotalDraws(),
			"min_draws":   batch.MinDraws,
			"max_draws":   batch.MaxDraws,
		}).Warn("Draw-count constraint infeasible; returning best-effort batch")
	}
	if draw == 0 && batch.MinDraws > 0 {
		d.Warnings = append(d.Warnings, models.WarnNoDrawCoverage)
	}
	if total > 0 && d.DrawPct > 0.5 {
		d.Warnings = append(d.Warnings, models.WarnExcessDrawCoverage)
	}
	if total > 0 && math.Abs(d.HomePct-d.AwayPct) > 0.6 {
		d.Warnings = append(d.Warnings, models.WarnHomeAwayImbalance)
	}
	return d
}
