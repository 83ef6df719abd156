package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/fieldhouse/bracket/internal/domain"
)

const (
	timeOfDayLayout = "15:04"
	timestampLayout = "2006-01-02T15:04:05"
)

// Schedule assigns courts and start times to every unfinished, non-ghost
// match via greedy list scheduling: repeatedly pick the court that frees up
// soonest, fill it with the highest-criticality match that is ready at that
// moment, and advance the court's timer past slots with no ready work.
// Already-finished matches are left untouched and ghost matches are only
// marked Finished; for both, the scheduler records the finish times later
// stages read readiness from. now
// supplies the wall-clock the first round starts relative to; callers pass
// the real current time in production and a fixed time in tests.
func Schedule(t *domain.Tournament, now time.Time) error {
	byID := make(map[string]*domain.Match, len(t.Matches))
	for _, m := range t.Matches {
		byID[m.ID] = m
	}

	assignCriticality(byID, t.Matches)

	start, err := startOfDay(now, t.StartTime)
	if err != nil {
		return fmt.Errorf("engine: schedule: %w", err)
	}
	duration := time.Duration(t.MatchDuration) * time.Minute

	courtTimers := make(map[string]time.Time, len(t.Courts))
	for _, c := range t.Courts {
		courtTimers[c] = start
	}

	finishTimes := make(map[string]time.Time, len(t.Matches))
	var unscheduled []*domain.Match

	for _, m := range t.Matches {
		switch {
		case m.IsGhost():
			finishTimes[m.ID] = start
			m.Status = domain.StatusFinished
		case m.Status == domain.StatusFinished:
			fin := start.Add(duration)
			if m.Timestamp != "" {
				if ts, err := time.ParseInLocation(timestampLayout, m.Timestamp, now.Location()); err == nil {
					fin = ts.Add(duration)
				}
			}
			finishTimes[m.ID] = fin
			if ct, ok := courtTimers[m.Court]; ok && fin.After(ct) {
				courtTimers[m.Court] = fin
			}
		default:
			m.Court = ""
			m.Time = ""
			m.Timestamp = ""
			m.Status = domain.StatusPending
			unscheduled = append(unscheduled, m)
		}
	}

	// sourceDone reports whether a dependency edge's source (or its absence)
	// no longer blocks scheduling.
	sourceDone := func(srcID string) bool {
		if srcID == "" {
			return true
		}
		_, ok := finishTimes[srcID]
		return ok
	}
	sourcesDone := func(m *domain.Match) bool {
		return sourceDone(m.SourceP1) && sourceDone(m.SourceP2)
	}
	// readiness is only meaningful once sourcesDone(m) holds.
	readiness := func(m *domain.Match) time.Time {
		p1, p2 := start, start
		if m.SourceP1 != "" {
			p1 = finishTimes[m.SourceP1]
		}
		if m.SourceP2 != "" {
			p2 = finishTimes[m.SourceP2]
		}
		if p1.After(p2) {
			return p1
		}
		return p2
	}

	budget := len(t.Matches)*2 + len(t.Courts) + 1
	for len(unscheduled) > 0 && budget > 0 {
		budget--

		court, current := nextFreeCourt(t.Courts, courtTimers)
		if court == "" {
			break
		}

		var ready []*domain.Match
		for _, m := range unscheduled {
			if sourcesDone(m) && !readiness(m).After(current) {
				ready = append(ready, m)
			}
		}

		if len(ready) == 0 {
			next, ok := nextReadiness(unscheduled, sourcesDone, readiness, current)
			if !ok {
				break
			}
			courtTimers[court] = next
			continue
		}

		sort.SliceStable(ready, func(i, j int) bool {
			if ready[i].Criticality != ready[j].Criticality {
				return ready[i].Criticality > ready[j].Criticality
			}
			return ready[i].Round < ready[j].Round
		})
		chosen := ready[0]

		chosen.Court = court
		chosen.Time = current.Format(timeOfDayLayout)
		chosen.Timestamp = current.Format(timestampLayout)
		chosen.Status = domain.StatusScheduled

		fin := current.Add(duration)
		finishTimes[chosen.ID] = fin
		courtTimers[court] = fin

		unscheduled = removeMatch(unscheduled, chosen)
	}

	return nil
}

// assignCriticality computes each match's distance to the tournament's
// furthest-reaching descendant (the eventual champion's last match) via a
// memoized depth-first walk, and stores it on the match as the scheduler's
// tiebreak priority.
func assignCriticality(byID map[string]*domain.Match, matches []*domain.Match) {
	depthCache := make(map[string]int, len(matches))
	var depth func(id string) int
	depth = func(id string) int {
		if id == "" {
			return 0
		}
		m, ok := byID[id]
		if !ok {
			return 0
		}
		if d, ok := depthCache[id]; ok {
			return d
		}
		depthCache[id] = 0 // break cycles defensively; the generator never creates one
		winDepth := depth(m.NextWin)
		lossDepth := depth(m.NextLoss)
		d := winDepth
		if lossDepth > d {
			d = lossDepth
		}
		d++
		depthCache[id] = d
		return d
	}
	for _, m := range matches {
		m.Criticality = depth(m.ID)
	}
}

// nextFreeCourt returns the court whose timer reads earliest, breaking ties
// by the order courts were declared in, so scheduling is deterministic
// across runs over the same tournament.
func nextFreeCourt(courts []string, courtTimers map[string]time.Time) (string, time.Time) {
	var best string
	var bestTime time.Time
	for i, c := range courts {
		t := courtTimers[c]
		if i == 0 || t.Before(bestTime) {
			best = c
			bestTime = t
		}
	}
	return best, bestTime
}

// nextReadiness returns the soonest time after current that some currently
// unready match becomes ready, so an idle court can fast-forward instead of
// spinning sweep after sweep.
func nextReadiness(unscheduled []*domain.Match, sourcesDone func(*domain.Match) bool, readiness func(*domain.Match) time.Time, current time.Time) (time.Time, bool) {
	var next time.Time
	found := false
	for _, m := range unscheduled {
		if !sourcesDone(m) {
			continue
		}
		r := readiness(m)
		if !r.After(current) {
			continue
		}
		if !found || r.Before(next) {
			next = r
			found = true
		}
	}
	return next, found
}

// removeMatch returns unscheduled with target removed, preserving the
// relative order of the rest.
func removeMatch(unscheduled []*domain.Match, target *domain.Match) []*domain.Match {
	out := unscheduled[:0]
	for _, m := range unscheduled {
		if m != target {
			out = append(out, m)
		}
	}
	return out
}

// startOfDay anchors a tournament's "HH:MM" start time onto now's calendar
// date, so a fixed now in tests and the real wall clock in production both
// produce the first round's start instant.
func startOfDay(now time.Time, hhmm string) (time.Time, error) {
	tod, err := time.Parse(timeOfDayLayout, hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start_time %q: %w", hhmm, err)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), tod.Hour(), tod.Minute(), 0, 0, now.Location()), nil
}
