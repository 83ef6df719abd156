// Package engine implements the bracket-schedule core: topology generation,
// slot propagation, and court scheduling. It is a pure, synchronous
// transformation over a domain.Tournament — no I/O, no clock reads except
// the one Schedule takes as a parameter.
package engine

import (
	"errors"
	"strconv"

	"github.com/fieldhouse/bracket/internal/domain"
)

// ErrTooFewTeams is returned by Generate when fewer than two teams are
// supplied; a bracket needs at least one match.
var ErrTooFewTeams = errors.New("engine: at least 2 teams are required")

// Generate builds the immutable match-graph topology for the given teams
// and format: ids, bracket placement, dependency edges, and seeded round-1
// assignments. It never sets status beyond the default Pending, and never
// touches winner or scheduling fields — those are the Resolver's and
// Scheduler's job.
func Generate(teams []string, format domain.Format) ([]*domain.Match, error) {
	n := len(teams)
	if n < 2 {
		return nil, ErrTooFewTeams
	}

	size := bracketSize(n)
	seeded := seededTeams(size, teams)

	var matches []*domain.Match
	counter := 1
	newMatch := func(bracket domain.BracketSection, round int) *domain.Match {
		m := &domain.Match{
			ID:      strconv.Itoa(counter),
			Bracket: bracket,
			Round:   round,
			Status:  domain.StatusPending,
		}
		counter++
		matches = append(matches, m)
		return m
	}

	wbRounds := log2(size)
	wb := make([][]*domain.Match, wbRounds+1)
	for r := 1; r <= wbRounds; r++ {
		count := size >> uint(r)
		wb[r] = make([]*domain.Match, count)
		for i := range wb[r] {
			wb[r][i] = newMatch(domain.BracketWinners, r)
		}
	}

	for r := 1; r < wbRounds; r++ {
		for i, m := range wb[r] {
			target := wb[r+1][i/2]
			m.NextWin = target.ID
			if i%2 == 0 {
				target.SourceP1 = m.ID
				target.SourceP1Type = domain.SourceWinner
			} else {
				target.SourceP2 = m.ID
				target.SourceP2Type = domain.SourceWinner
			}
		}
	}

	for i, m := range wb[1] {
		m.P1 = seeded[i*2]
		m.P2 = seeded[i*2+1]
	}

	if format == domain.FormatDouble && size >= 4 {
		generateLosersAndFinal(newMatch, wb, wbRounds, size)
	}

	return matches, nil
}

// generateLosersAndFinal builds the losers bracket, the WB->LB drop-down
// edges, and the grand final. Only called when size >= 4.
func generateLosersAndFinal(newMatch func(domain.BracketSection, int) *domain.Match, wb [][]*domain.Match, wbRounds, size int) {
	lbRounds := (wbRounds - 1) * 2
	lb := make([][]*domain.Match, lbRounds+1)
	count := size / 4
	for r := 1; r <= lbRounds; r++ {
		lb[r] = make([]*domain.Match, count)
		for i := range lb[r] {
			lb[r][i] = newMatch(domain.BracketLosers, r)
		}
		if r%2 == 0 {
			count /= 2
		}
	}

	for r := 1; r < lbRounds; r++ {
		for i, m := range lb[r] {
			var target *domain.Match
			if r%2 != 0 {
				target = lb[r+1][i]
				m.NextWin = target.ID
				target.SourceP1 = m.ID
				target.SourceP1Type = domain.SourceWinner
			} else {
				target = lb[r+1][i/2]
				m.NextWin = target.ID
				if i%2 == 0 {
					target.SourceP1 = m.ID
					target.SourceP1Type = domain.SourceWinner
				} else {
					target.SourceP2 = m.ID
					target.SourceP2Type = domain.SourceWinner
				}
			}
		}
	}

	for r := 1; r < wbRounds; r++ {
		dropRound := 1
		if r > 1 {
			dropRound = (r - 1) * 2
		}
		lbLayer := lb[dropRound]
		for i, wbm := range wb[r] {
			var target *domain.Match
			if r == 1 {
				target = lbLayer[i/2]
			} else if i < len(lbLayer) {
				target = lbLayer[i]
			} else {
				target = lbLayer[len(lbLayer)-1]
			}
			wbm.NextLoss = target.ID
			if r == 1 && i%2 == 0 {
				target.SourceP1 = wbm.ID
				target.SourceP1Type = domain.SourceLoser
			} else {
				target.SourceP2 = wbm.ID
				target.SourceP2Type = domain.SourceLoser
			}
		}
	}

	wbFinal := wb[wbRounds][0]
	lbFinal := lb[lbRounds][0]
	wbFinal.NextLoss = lbFinal.ID
	lbFinal.SourceP2 = wbFinal.ID
	lbFinal.SourceP2Type = domain.SourceLoser

	final := newMatch(domain.BracketFinals, 1)
	wbFinal.NextWin = final.ID
	lbFinal.NextWin = final.ID
	final.SourceP1 = wbFinal.ID
	final.SourceP1Type = domain.SourceWinner
	final.SourceP2 = lbFinal.ID
	final.SourceP2Type = domain.SourceWinner
}

// bracketSize returns the smallest power of two >= n.
func bracketSize(n int) int {
	size := 1
	for size < n {
		size *= 2
	}
	return size
}

// log2 returns log base 2 of a power-of-two size.
func log2(size int) int {
	r := 0
	for size > 1 {
		size /= 2
		r++
	}
	return r
}

// seededTeams expands the canonical top-heavy seeding ([1,2] doubled
// repeatedly) into team names for a bracket of the given size, filling
// unused seed positions with BYE.
func seededTeams(size int, teams []string) []string {
	seeds := []int{1, 2}
	for len(seeds) < size {
		next := make([]int, 0, len(seeds)*2)
		for _, s := range seeds {
			next = append(next, s, 2*len(seeds)+1-s)
		}
		seeds = next
	}
	out := make([]string, len(seeds))
	for i, s := range seeds {
		if s <= len(teams) {
			out[i] = teams[s-1]
		} else {
			out[i] = domain.BYE
		}
	}
	return out
}
