package service

import (
	"context"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldhouse/bracket/internal/cache"
	"github.com/fieldhouse/bracket/internal/domain"
	"github.com/fieldhouse/bracket/internal/store"
	"github.com/fieldhouse/bracket/internal/ws"
)

func newTestService() *TournamentService {
	return NewTournamentService(store.NewMemoryStore(), &cache.Store{}, ws.NewHub(log.Default()), log.Default())
}

func validSettings() domain.Settings {
	return domain.Settings{
		Name:      "Summer Open",
		Date:      "2026-08-15",
		Code:      "secret",
		Format:    domain.FormatSingle,
		Courts:    []string{"C1", "C2"},
		Duration:  30,
		StartTime: "09:00",
		Teams:     []string{"A", "B", "C", "D"},
	}
}

func TestCreate_GeneratesAndSchedules(t *testing.T) {
	svc := newTestService()
	tour, err := svc.Create(context.Background(), validSettings())
	require.NoError(t, err)
	assert.NotEmpty(t, tour.ID)
	assert.Len(t, tour.Matches, 3)
	for _, m := range tour.Matches {
		if m.Round == 1 {
			assert.Equal(t, domain.StatusScheduled, m.Status)
		}
	}
}

func TestCreate_RejectsTooFewTeams(t *testing.T) {
	svc := newTestService()
	settings := validSettings()
	settings.Teams = []string{"A"}
	_, err := svc.Create(context.Background(), settings)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGet_UnknownID(t *testing.T) {
	svc := newTestService()
	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportScore_AdminReportsAndAdvances(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tour, err := svc.Create(ctx, validSettings())
	require.NoError(t, err)

	var r1a *domain.Match
	for _, m := range tour.Matches {
		if m.Round == 1 && m.P1 == "A" {
			r1a = m
		}
	}
	require.NotNil(t, r1a)

	updated, err := svc.ReportScore(ctx, tour.ID, r1a.ID, true, "", []domain.SetScore{
		{P1Points: 25, P2Points: 10},
		{P1Points: 25, P2Points: 20},
	}, false)
	require.NoError(t, err)

	var reported *domain.Match
	for _, m := range updated.Matches {
		if m.ID == r1a.ID {
			reported = m
		}
	}
	require.NotNil(t, reported)
	assert.Equal(t, "A", reported.Winner)
	assert.Equal(t, domain.StatusFinished, reported.Status)
}

func TestReportScore_NonAdminNeedsCode(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tour, err := svc.Create(ctx, validSettings())
	require.NoError(t, err)

	_, err = svc.ReportScore(ctx, tour.ID, tour.Matches[0].ID, false, "wrong-code", nil, false)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestReportScore_TieIsRejected(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tour, err := svc.Create(ctx, validSettings())
	require.NoError(t, err)

	var target *domain.Match
	for _, m := range tour.Matches {
		if m.Round == 1 {
			target = m
			break
		}
	}

	_, err = svc.ReportScore(ctx, tour.ID, target.ID, true, "", []domain.SetScore{
		{P1Points: 25, P2Points: 20},
		{P1Points: 20, P2Points: 25},
		{P1Points: 15, P2Points: 15},
	}, false)
	assert.ErrorIs(t, err, ErrTied)
}

func TestReportScore_ClearResetsMatch(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tour, err := svc.Create(ctx, validSettings())
	require.NoError(t, err)

	var target *domain.Match
	for _, m := range tour.Matches {
		if m.Round == 1 {
			target = m
			break
		}
	}

	_, err = svc.ReportScore(ctx, tour.ID, target.ID, true, "", []domain.SetScore{
		{P1Points: 25, P2Points: 10},
	}, false)
	require.NoError(t, err)

	updated, err := svc.ReportScore(ctx, tour.ID, target.ID, true, "", nil, true)
	require.NoError(t, err)

	for _, m := range updated.Matches {
		if m.ID == target.ID {
			assert.Equal(t, "", m.Winner)
			assert.Equal(t, domain.StatusPending, m.Status)
		}
	}
}

func TestDelete_RequiresAdmin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tour, err := svc.Create(ctx, validSettings())
	require.NoError(t, err)

	err = svc.Delete(ctx, tour.ID, false)
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = svc.Delete(ctx, tour.ID, true)
	require.NoError(t, err)

	_, err = svc.Get(ctx, tour.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateSettings_StructuralChangeRegeneratesMatches(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tour, err := svc.Create(ctx, validSettings())
	require.NoError(t, err)
	originalCount := len(tour.Matches)

	settings := validSettings()
	settings.Teams = []string{"A", "B", "C", "D", "E"}
	updated, err := svc.UpdateSettings(ctx, tour.ID, true, settings)
	require.NoError(t, err)
	assert.NotEqual(t, originalCount, len(updated.Matches))
}
