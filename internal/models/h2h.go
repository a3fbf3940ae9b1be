package models

// H2HStats summarizes the head-to-head history between two teams.
type H2HStats struct {
	Meetings        int     `db:"meetings" json:"meetings"`
	Draws           int     `db:"draws" json:"draws"`
	LastMeetingYear int     `db:"last_meeting_year" json:"last_meeting_year"`
	DrawIndex       float64 `db:"draw_index" json:"draw_index"`
}

// Trust thresholds for head-to-head history. Pairs that meet rarely or whose
// last meeting is stale carry no usable signal.
const (
	H2HMinMeetings   = 8
	H2HMaxStaleYears = 5
)

// IsTrusted reports whether the sample is large and recent enough to use.
func (h *H2HStats) IsTrusted(currentYear int) bool {
	if h == nil {
		return false
	}
	if h.Meetings < H2HMinMeetings {
		return false
	}
	return currentYear-h.LastMeetingYear <= H2HMaxStaleYears
}

// DrawRate returns draws/meetings, or 0 for an empty sample.
func (h *H2HStats) DrawRate() float64 {
	if h == nil || h.Meetings == 0 {
		return 0
	}
	return float64(h.Draws) / float64(h.Meetings)
}
