package service

import "github.com/fieldhouse/bracket/internal/domain"

// evaluateScore implements spec.md §6's report evaluation: count sets won
// by each side, then break ties by total points, then reject an exact tie.
func evaluateScore(p1, p2 string, sets []domain.SetScore) (winner string, p1Sets, p2Sets int, err error) {
	var p1Points, p2Points int
	for _, set := range sets {
		if set.P1Points > set.P2Points {
			p1Sets++
		} else if set.P2Points > set.P1Points {
			p2Sets++
		}
		p1Points += set.P1Points
		p2Points += set.P2Points
	}

	switch {
	case p1Sets > p2Sets:
		return p1, p1Sets, p2Sets, nil
	case p2Sets > p1Sets:
		return p2, p1Sets, p2Sets, nil
	case p1Points > p2Points:
		return p1, p1Sets, p2Sets, nil
	case p2Points > p1Points:
		return p2, p1Sets, p2Sets, nil
	default:
		return "", p1Sets, p2Sets, ErrTied
	}
}
