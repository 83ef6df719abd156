package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldhouse/bracket/internal/domain"
)

func TestGenerate_TooFewTeams(t *testing.T) {
	_, err := Generate([]string{"only-one"}, domain.FormatSingle)
	assert.ErrorIs(t, err, ErrTooFewTeams)
}

func TestGenerate_SingleElim_TwoTeams(t *testing.T) {
	matches, err := Generate([]string{"A", "B"}, domain.FormatSingle)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, domain.BracketWinners, m.Bracket)
	assert.Equal(t, 1, m.Round)
	assert.Equal(t, "A", m.P1)
	assert.Equal(t, "B", m.P2)
}

func TestGenerate_SingleElim_ThreeTeams_HasBye(t *testing.T) {
	// 3 teams rounds up to a 4-bracket: one round-1 match is a bye.
	matches, err := Generate([]string{"A", "B", "C"}, domain.FormatSingle)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	var byes int
	for _, m := range matches {
		if m.Round == 1 && (m.P1 == domain.BYE || m.P2 == domain.BYE) {
			byes++
		}
	}
	assert.Equal(t, 1, byes)
}

func TestGenerate_SingleElim_EightTeams_Rounds(t *testing.T) {
	teams := []string{"1", "2", "3", "4", "5", "6", "7", "8"}
	matches, err := Generate(teams, domain.FormatSingle)
	require.NoError(t, err)
	require.Len(t, matches, 7) // 4 + 2 + 1

	byRound := map[int]int{}
	for _, m := range matches {
		assert.Equal(t, domain.BracketWinners, m.Bracket)
		byRound[m.Round]++
	}
	assert.Equal(t, 4, byRound[1])
	assert.Equal(t, 2, byRound[2])
	assert.Equal(t, 1, byRound[3])

	// The first round-1 match pairs the top seed with the bottom seed.
	r1 := make([]*domain.Match, 0, 4)
	for _, m := range matches {
		if m.Round == 1 {
			r1 = append(r1, m)
		}
	}
	seedOf := func(m *domain.Match) (string, string) { return m.P1, m.P2 }
	p1, p2 := seedOf(r1[0])
	assert.Equal(t, "1", p1)
	assert.Equal(t, "8", p2)
}

func TestGenerate_DoubleElim_FourTeams_HasLosersAndFinal(t *testing.T) {
	matches, err := Generate([]string{"A", "B", "C", "D"}, domain.FormatDouble)
	require.NoError(t, err)

	var wb, lb, finals int
	for _, m := range matches {
		switch m.Bracket {
		case domain.BracketWinners:
			wb++
		case domain.BracketLosers:
			lb++
		case domain.BracketFinals:
			finals++
		}
	}
	// WB: 2 round-1 + 1 round-2 = 3. LB: 2 rounds of 1 match = 2. Final: 1.
	assert.Equal(t, 3, wb)
	assert.Equal(t, 2, lb)
	assert.Equal(t, 1, finals)
}

func TestGenerate_DoubleElim_TwoTeams_NoLosersBracket(t *testing.T) {
	// Below size 4 there's no losers bracket or grand final to build.
	matches, err := Generate([]string{"A", "B"}, domain.FormatDouble)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, domain.BracketWinners, matches[0].Bracket)
}

func TestGenerate_DoubleElim_EightTeams_EveryWBLossHasATarget(t *testing.T) {
	teams := []string{"1", "2", "3", "4", "5", "6", "7", "8"}
	matches, err := Generate(teams, domain.FormatDouble)
	require.NoError(t, err)

	byID := map[string]*domain.Match{}
	for _, m := range matches {
		byID[m.ID] = m
	}
	for _, m := range matches {
		if m.Bracket != domain.BracketWinners {
			continue
		}
		require.NotEmpty(t, m.NextLoss, "winners match %s has no drop-down target", m.ID)
		_, ok := byID[m.NextLoss]
		assert.True(t, ok)
	}
}
