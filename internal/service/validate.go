package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/fieldhouse/bracket/internal/domain"
)

// validateSettings checks the fields shared by create and update_settings:
// non-empty trimmed team and court lists, a positive duration, and a
// well-formed HH:MM start time.
func validateSettings(s domain.Settings) error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(cleanList(s.Teams)) < 2 {
		return fmt.Errorf("%w: at least 2 teams are required", ErrInvalidInput)
	}
	if len(cleanList(s.Courts)) < 1 {
		return fmt.Errorf("%w: at least 1 court is required", ErrInvalidInput)
	}
	if s.Duration < 1 {
		return fmt.Errorf("%w: duration must be >= 1 minute", ErrInvalidInput)
	}
	if s.Format != domain.FormatSingle && s.Format != domain.FormatDouble {
		return fmt.Errorf("%w: format must be single or double", ErrInvalidInput)
	}
	if _, err := time.Parse("15:04", s.StartTime); err != nil {
		return fmt.Errorf("%w: start_time must be HH:MM", ErrInvalidInput)
	}
	return nil
}

// cleanList trims whitespace from every entry, drops empties, and collapses
// an input list that used a single newline- or comma-joined string instead
// of a proper array (the original form accepted either, per spec.md §9).
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, raw := range items {
		for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
			return r == '\n' || r == ','
		}) {
			p := strings.TrimSpace(part)
			if p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
