package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldhouse/bracket/internal/domain"
)

func TestResolve_PropagatesWinnerDownTheBracket(t *testing.T) {
	matches, err := Generate([]string{"A", "B", "C", "D"}, domain.FormatSingle)
	require.NoError(t, err)
	Resolve(matches)

	byID := map[string]*domain.Match{}
	for _, m := range matches {
		byID[m.ID] = m
	}

	var r1a *domain.Match
	for _, m := range matches {
		if m.Round == 1 && m.P1 == "A" {
			r1a = m
		}
	}
	require.NotNil(t, r1a)
	r1a.Winner = "A"
	r1a.Status = domain.StatusFinished

	Resolve(matches)

	final := byID[r1a.NextWin]
	require.NotNil(t, final)
	assert.Equal(t, "A", final.P1)
}

func TestResolve_ByeAutoAdvances(t *testing.T) {
	matches, err := Generate([]string{"A", "B", "C"}, domain.FormatSingle)
	require.NoError(t, err)
	Resolve(matches)

	var byeMatch *domain.Match
	for _, m := range matches {
		if m.Round == 1 && m.IsGhost() {
			byeMatch = m
		}
	}
	require.NotNil(t, byeMatch)
	assert.True(t, byeMatch.Winner == byeMatch.P1 || byeMatch.Winner == byeMatch.P2)
	assert.Equal(t, domain.StatusFinished, byeMatch.Status)
	assert.Nil(t, byeMatch.Number)
}

func TestResolve_InvalidatesStaleWinnerOnReopen(t *testing.T) {
	matches, err := Generate([]string{"A", "B", "C", "D"}, domain.FormatSingle)
	require.NoError(t, err)
	Resolve(matches)

	byID := map[string]*domain.Match{}
	for _, m := range matches {
		byID[m.ID] = m
	}

	var r1a, r1b *domain.Match
	for _, m := range matches {
		if m.Round != 1 {
			continue
		}
		if m.P1 == "A" {
			r1a = m
		}
		if m.P1 == "B" {
			r1b = m
		}
	}
	r1a.Winner, r1a.Status = "A", domain.StatusFinished
	r1b.Winner, r1b.Status = "C", domain.StatusFinished
	Resolve(matches)

	final := byID[r1a.NextWin]
	final.Winner, final.Status = "A", domain.StatusFinished
	Resolve(matches)
	assert.Equal(t, domain.StatusFinished, final.Status)

	// Editing round 1's result to a different winner invalidates the final.
	r1a.Winner = "D"
	Resolve(matches)

	assert.Equal(t, "", final.Winner)
	assert.Equal(t, domain.StatusPending, final.Status)
	assert.Equal(t, "D", final.P1)
}

func TestResolve_LabelsSkipGhostMatches(t *testing.T) {
	matches, err := Generate([]string{"A", "B", "C"}, domain.FormatSingle)
	require.NoError(t, err)
	Resolve(matches)

	byID := map[string]*domain.Match{}
	for _, m := range matches {
		byID[m.ID] = m
	}

	var final *domain.Match
	for _, m := range matches {
		if m.Round == 2 {
			final = m
		}
	}
	require.NotNil(t, final)

	// One of the final's slots is fed by a bye round-1 match, which never
	// gets a display number; the label walk skips past it to that match's
	// own feeding match, and since a round-1 match has none, it ends at
	// "TBD".
	assert.Contains(t, []string{final.P1Label, final.P2Label}, "TBD")
}

func TestResolve_DisplayNumbersSkipByesAndAreUnique(t *testing.T) {
	matches, err := Generate([]string{"A", "B", "C"}, domain.FormatSingle)
	require.NoError(t, err)
	Resolve(matches)

	seen := map[int]bool{}
	for _, m := range matches {
		if m.IsGhost() {
			assert.Nil(t, m.Number)
			continue
		}
		require.NotNil(t, m.Number)
		assert.False(t, seen[*m.Number], "duplicate display number %d", *m.Number)
		seen[*m.Number] = true
	}
}
