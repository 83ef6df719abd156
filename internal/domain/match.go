package domain

// BracketSection identifies which part of a tournament graph a match
// belongs to.
type BracketSection string

const (
	BracketWinners BracketSection = "winners"
	BracketLosers  BracketSection = "losers"
	BracketFinals  BracketSection = "finals"
)

// SourceType tells a dependency edge whether it feeds the winner or the
// loser of the source match into the destination slot.
type SourceType string

const (
	SourceWinner SourceType = "winner"
	SourceLoser  SourceType = "loser"
)

// MatchStatus is a match's position in its Pending/Scheduled/Finished
// lifecycle.
type MatchStatus string

const (
	StatusPending   MatchStatus = "Pending"
	StatusScheduled MatchStatus = "Scheduled"
	StatusFinished  MatchStatus = "Finished"
)

// BYE is the placeholder opponent used to mark an empty bracket slot.
const BYE = "BYE"

// SetScore is one set's point totals for both slots.
type SetScore struct {
	P1Points int `json:"p1_points"`
	P2Points int `json:"p2_points"`
}

// Match is one node in the bracket dependency graph. Slot and result fields
// are filled in and kept consistent by the Resolver; scheduling fields are
// owned by the Scheduler. See the Generator for how the dependency edges
// are established.
type Match struct {
	ID     string         `json:"id"`
	Bracket BracketSection `json:"bracket"`
	Round  int            `json:"round"`

	// Slots, resolved from the source chain by the Resolver. Empty string
	// means unresolved.
	P1 string `json:"p1"`
	P2 string `json:"p2"`

	// Result.
	Winner  string     `json:"winner"`
	Sets    []SetScore `json:"sets"`
	P1Sets  int        `json:"p1_sets"`
	P2Sets  int        `json:"p2_sets"`

	// Dependency edges. SourceP1/SourceP2 are match ids; NextWin/NextLoss
	// are match ids for reverse traversal. Established once by the
	// Generator and never mutated afterward.
	SourceP1     string     `json:"source_p1,omitempty"`
	SourceP2     string     `json:"source_p2,omitempty"`
	SourceP1Type SourceType `json:"source_p1_type,omitempty"`
	SourceP2Type SourceType `json:"source_p2_type,omitempty"`
	NextWin      string     `json:"next_win,omitempty"`
	NextLoss     string     `json:"next_loss,omitempty"`

	// Scheduling outputs, owned by the Scheduler.
	Court       string      `json:"court,omitempty"`
	Time        string      `json:"time,omitempty"`
	Timestamp   string      `json:"timestamp,omitempty"`
	Status      MatchStatus `json:"status"`
	Criticality int         `json:"criticality"`

	// Display, derived by the Resolver.
	Number   *int   `json:"number"`
	P1Label  string `json:"p1_label"`
	P2Label  string `json:"p2_label"`
}

// IsGhost reports whether m is a generated node that is never actually
// played: either slot is a bye, or the winner collapsed to a bye.
func (m *Match) IsGhost() bool {
	return m.Winner == BYE || m.P1 == BYE || m.P2 == BYE
}

// HasSource reports whether slot 1 (if p1) or slot 2 is fed by a
// dependency edge.
func (m *Match) HasSource(p1 bool) bool {
	if p1 {
		return m.SourceP1 != ""
	}
	return m.SourceP2 != ""
}
