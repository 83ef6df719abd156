package service

import (
	"context"
	"time"

	"github.com/fieldhouse/bracket/internal/cache"
	"github.com/fieldhouse/bracket/internal/domain"
)

// DashboardSummary is the lightweight projection of a tournament the
// listing endpoint returns — full match lists are only fetched via Get.
type DashboardSummary struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Date   string        `json:"date"`
	Format domain.Format `json:"format"`
}

// DashboardView buckets every stored tournament by whether its date is
// today, in the future, or in the past, relative to the caller's today.
// Grounded on the original application's dashboard listing.
type DashboardView struct {
	Live   []DashboardSummary `json:"live"`
	Future []DashboardSummary `json:"future"`
	Past   []DashboardSummary `json:"past"`
}

// Dashboard returns the bucketed listing, served from the cache when
// possible and falling back to the blob store on a miss.
func (s *TournamentService) Dashboard(ctx context.Context, today time.Time) (*DashboardView, error) {
	var view DashboardView
	if err := s.cache.Get(ctx, cache.DashboardKey, &view); err == nil {
		return &view, nil
	}

	tournaments, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	view = DashboardView{}
	todayStr := today.Format("2006-01-02")
	for _, t := range tournaments {
		summary := DashboardSummary{ID: t.ID, Name: t.Name, Date: t.Date, Format: t.Format}
		switch {
		case t.Date == todayStr:
			view.Live = append(view.Live, summary)
		case t.Date > todayStr:
			view.Future = append(view.Future, summary)
		default:
			view.Past = append(view.Past, summary)
		}
	}

	_ = s.cache.Set(ctx, cache.DashboardKey, view, cache.DashboardTTL)
	return &view, nil
}
