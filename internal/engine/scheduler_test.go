package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldhouse/bracket/internal/domain"
)

func mustSchedule(t *testing.T, tour *domain.Tournament, now time.Time) {
	t.Helper()
	Resolve(tour.Matches)
	require.NoError(t, Schedule(tour, now))
}

func TestSchedule_TwoTeamsOneCourt(t *testing.T) {
	matches, err := Generate([]string{"A", "B"}, domain.FormatSingle)
	require.NoError(t, err)

	tour := &domain.Tournament{
		StartTime:     "09:00",
		MatchDuration: 30,
		Courts:        []string{"C1"},
		Matches:       matches,
	}
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mustSchedule(t, tour, now)

	m := tour.Matches[0]
	assert.Equal(t, "C1", m.Court)
	assert.Equal(t, "09:00", m.Time)
	assert.Equal(t, domain.StatusScheduled, m.Status)
}

func TestSchedule_FourTeamsSingleCourt_NoOverlap(t *testing.T) {
	matches, err := Generate([]string{"A", "B", "C", "D"}, domain.FormatSingle)
	require.NoError(t, err)
	tour := &domain.Tournament{
		StartTime:     "09:00",
		MatchDuration: 20,
		Courts:        []string{"C1"},
		Matches:       matches,
	}
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mustSchedule(t, tour, now)

	// A single court must sequence all 3 matches back to back: R1 pair,
	// R1 pair, then the final — the final cannot start before both its
	// sources have a timestamp that is itself already in the past.
	times := map[string]string{}
	for _, m := range tour.Matches {
		times[m.ID] = m.Time
	}
	assert.Equal(t, "09:00", times["1"])
	assert.Equal(t, "09:20", times["2"])
	assert.Equal(t, "09:40", times["3"])
}

func TestSchedule_PrioritizesHigherCriticality(t *testing.T) {
	// Double elim with 4 teams: WB-R1 matches feed both the WB final and
	// the losers bracket, so they're strictly more critical than nothing
	// else exists at round 1 — verify they get scheduled before LB-R1,
	// which only becomes ready once they finish anyway.
	matches, err := Generate([]string{"A", "B", "C", "D"}, domain.FormatDouble)
	require.NoError(t, err)
	tour := &domain.Tournament{
		StartTime:     "09:00",
		MatchDuration: 15,
		Courts:        []string{"C1", "C2"},
		Matches:       matches,
	}
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mustSchedule(t, tour, now)

	for _, m := range tour.Matches {
		if m.Bracket == domain.BracketWinners && m.Round == 1 {
			assert.Equal(t, "09:00", m.Time)
		}
	}
}

func TestSchedule_FinishedMatchKeepsRecordedCourt(t *testing.T) {
	matches, err := Generate([]string{"A", "B"}, domain.FormatSingle)
	require.NoError(t, err)
	matches[0].Winner = "A"
	matches[0].Status = domain.StatusFinished
	matches[0].Court = "C1"
	matches[0].Timestamp = "2026-08-01T09:00:00"

	tour := &domain.Tournament{
		StartTime:     "09:00",
		MatchDuration: 30,
		Courts:        []string{"C1"},
		Matches:       matches,
	}
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, Schedule(tour, now))

	assert.Equal(t, domain.StatusFinished, matches[0].Status)
	assert.Equal(t, "C1", matches[0].Court)
}

func TestSchedule_GhostMatchesForceFinished(t *testing.T) {
	matches, err := Generate([]string{"A", "B", "C"}, domain.FormatSingle)
	require.NoError(t, err)
	Resolve(matches)

	tour := &domain.Tournament{
		StartTime:     "09:00",
		MatchDuration: 30,
		Courts:        []string{"C1"},
		Matches:       matches,
	}
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, Schedule(tour, now))

	for _, m := range matches {
		if m.IsGhost() {
			assert.Equal(t, domain.StatusFinished, m.Status)
			assert.Empty(t, m.Court)
		}
	}
}
