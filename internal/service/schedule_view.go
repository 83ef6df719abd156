package service

import (
	"sort"

	"github.com/fieldhouse/bracket/internal/domain"
)

// sortSchedule orders a tournament's matches by (timestamp, court) and
// drops ghosts, matching the view spec.md §6's `get` operation returns.
func sortSchedule(t *domain.Tournament) {
	visible := make([]*domain.Match, 0, len(t.Matches))
	for _, m := range t.Matches {
		if !m.IsGhost() {
			visible = append(visible, m)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].Timestamp != visible[j].Timestamp {
			return visible[i].Timestamp < visible[j].Timestamp
		}
		return visible[i].Court < visible[j].Court
	})
	t.Matches = visible
}
