package engine

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/fieldhouse/bracket/internal/domain"
)

// maxLabelDepth bounds the recursive bye-skipping walk in label(); a
// well-formed bracket never nests this deep, it only guards against a
// malformed graph looping forever.
const maxLabelDepth = 10

// maxSweeps bounds the fixed-point iteration in Resolve. Slot propagation
// advances at least one round per sweep, so 20 sweeps comfortably covers
// any bracket depth this engine will ever generate.
const maxSweeps = 20

// Resolve propagates winners and losers down the dependency graph until it
// reaches a fixed point: slots are filled from their sources, byes are
// auto-advanced, stale results are invalidated, every non-ghost match gets
// a display number, and every match gets human-readable opponent labels. It mutates matches
// in place and is idempotent — calling it twice without any intervening
// change leaves the graph unchanged.
func Resolve(matches []*domain.Match) {
	byID := make(map[string]*domain.Match, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
	}

	for sweep := 0; sweep < maxSweeps; sweep++ {
		changed := false

		for _, m := range matches {
			if m.SourceP1 != "" {
				if v := resolveSlot(byID, m.SourceP1, m.SourceP1Type); v != m.P1 {
					m.P1 = v
					changed = true
				}
			}
			if m.SourceP2 != "" {
				if v := resolveSlot(byID, m.SourceP2, m.SourceP2Type); v != m.P2 {
					m.P2 = v
					changed = true
				}
			}

			if m.Status == domain.StatusFinished && m.Winner != domain.BYE {
				if m.P1 == "" || m.P2 == "" || (m.Winner != m.P1 && m.Winner != m.P2) {
					m.Winner = ""
					m.Status = domain.StatusPending
					m.Sets = nil
					m.P1Sets = 0
					m.P2Sets = 0
					changed = true
				}
			}

			if m.Winner == "" && (m.P1 == domain.BYE || m.P2 == domain.BYE) {
				switch {
				case m.P1 == domain.BYE && m.P2 == domain.BYE:
					m.Winner = domain.BYE
				case m.P1 == domain.BYE:
					m.Winner = m.P2
				default:
					m.Winner = m.P1
				}
				m.Status = domain.StatusFinished
				changed = true
			}
		}

		if !changed {
			break
		}
	}

	assignNumbers(matches)
	assignLabels(byID, matches)
}

// resolveSlot reads the value a dependency edge currently contributes: the
// winner of srcID for a SourceWinner edge, or the loser of srcID (the
// opponent of its winner) for a SourceLoser edge. A bye winner propagates
// as a bye loser too, so a losers-bracket slot fed by a bye'd winners match
// collapses immediately instead of waiting on a real result.
func resolveSlot(byID map[string]*domain.Match, srcID string, st domain.SourceType) string {
	src, ok := byID[srcID]
	if !ok {
		return ""
	}
	switch st {
	case domain.SourceWinner:
		return src.Winner
	case domain.SourceLoser:
		if src.Winner == "" {
			return ""
		}
		if src.Winner == domain.BYE {
			return domain.BYE
		}
		if src.Winner == src.P2 {
			return src.P1
		}
		return src.P2
	default:
		return ""
	}
}

// assignNumbers gives every non-ghost match an ascending display number in
// id order, and clears the number on ghost matches (byes are never shown
// to users as a playable match).
func assignNumbers(matches []*domain.Match) {
	ordered := make([]*domain.Match, len(matches))
	copy(ordered, matches)
	sort.Slice(ordered, func(i, j int) bool {
		a, _ := strconv.Atoi(ordered[i].ID)
		b, _ := strconv.Atoi(ordered[j].ID)
		return a < b
	})

	n := 1
	for _, m := range ordered {
		if m.IsGhost() {
			m.Number = nil
			continue
		}
		v := n
		m.Number = &v
		n++
	}
}

// assignLabels derives P1Label/P2Label for every match by walking each
// source edge to the nearest numbered (non-ghost) ancestor.
func assignLabels(byID map[string]*domain.Match, matches []*domain.Match) {
	for _, m := range matches {
		m.P1Label = label(byID, m.SourceP1, m.SourceP1Type, 0)
		m.P2Label = label(byID, m.SourceP2, m.SourceP2Type, 0)
	}
}

// label resolves the "Winner of #N" / "Loser of #N" / "TBD" / "BYE" text
// for one dependency edge. When the immediate source is a ghost match (a
// bye that was never given a number), it skips through to whichever of the
// ghost's own sources is the real opponent, since that's the match a human
// reader actually cares about.
func label(byID map[string]*domain.Match, srcID string, st domain.SourceType, depth int) string {
	if srcID == "" || depth > maxLabelDepth {
		return "TBD"
	}
	src, ok := byID[srcID]
	if !ok {
		return "TBD"
	}
	if src.Number != nil {
		if st == domain.SourceWinner {
			return fmt.Sprintf("Winner of #%d", *src.Number)
		}
		return fmt.Sprintf("Loser of #%d", *src.Number)
	}

	if st == domain.SourceLoser {
		return domain.BYE
	}
	if src.P2 == domain.BYE {
		return label(byID, src.SourceP1, src.SourceP1Type, depth+1)
	}
	return label(byID, src.SourceP2, src.SourceP2Type, depth+1)
}
