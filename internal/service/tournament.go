// Package service hosts the bracket-schedule core behind the five
// operations spec.md's external interface names: create, get,
// update_settings, report_score, delete. It owns the collaborators the
// core treats as provided: the blob store, the admin predicate, and the
// change sink, and is the only place that invokes internal/engine.
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fieldhouse/bracket/internal/cache"
	"github.com/fieldhouse/bracket/internal/domain"
	"github.com/fieldhouse/bracket/internal/engine"
	"github.com/fieldhouse/bracket/internal/store"
	"github.com/fieldhouse/bracket/internal/ws"
)

// TournamentService is the host described in spec.md §5: it loads one
// tournament blob, runs Generator/Resolver/Scheduler as needed, and writes
// the blob back atomically, serialized per tournament id.
type TournamentService struct {
	store  store.BlobStore
	cache  *cache.Store
	hub    *ws.Hub
	locks  *keyedMutex
	logger *log.Logger
}

func NewTournamentService(blobStore store.BlobStore, cacheStore *cache.Store, hub *ws.Hub, logger *log.Logger) *TournamentService {
	return &TournamentService{
		store:  blobStore,
		cache:  cacheStore,
		hub:    hub,
		locks:  newKeyedMutex(),
		logger: logger,
	}
}

// Create builds a new tournament: validates settings, generates its
// bracket, resolves and schedules it, and persists it under a fresh id.
func (s *TournamentService) Create(ctx context.Context, settings domain.Settings) (*domain.Tournament, error) {
	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	t := &domain.Tournament{
		ID:            uuid.NewString(),
		Name:          settings.Name,
		Code:          strings.TrimSpace(settings.Code),
		Format:        settings.Format,
		Date:          settings.Date,
		StartTime:     settings.StartTime,
		MatchDuration: settings.Duration,
		Teams:         cleanList(settings.Teams),
		Courts:        cleanList(settings.Courts),
	}

	if err := s.regenerate(t); err != nil {
		return nil, err
	}

	if err := s.persist(ctx, t); err != nil {
		return nil, err
	}
	s.notifyDashboard()
	return t, nil
}

// Get loads a tournament and returns it with its schedule sorted by
// (timestamp, court), ghosts filtered out, per spec.md §6.
func (s *TournamentService) Get(ctx context.Context, id string) (*domain.Tournament, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	sortSchedule(t)
	return t, nil
}

// UpdateSettings re-generates the bracket only if teams or format changed,
// and always re-schedules, per spec.md §6.
func (s *TournamentService) UpdateSettings(ctx context.Context, id string, isAdmin bool, settings domain.Settings) (*domain.Tournament, error) {
	if !isAdmin {
		return nil, ErrUnauthorized
	}
	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	newTeams := cleanList(settings.Teams)
	newCourts := cleanList(settings.Courts)
	structuralChange := !sameTeams(t.Teams, newTeams) || t.Format != settings.Format

	t.Name = settings.Name
	t.Code = strings.TrimSpace(settings.Code)
	t.Date = settings.Date
	t.StartTime = settings.StartTime
	t.MatchDuration = settings.Duration
	t.Teams = newTeams
	t.Courts = newCourts
	t.Format = settings.Format

	if structuralChange {
		if err := s.regenerate(t); err != nil {
			return nil, err
		}
	} else {
		engine.Resolve(t.Matches)
		if err := engine.Schedule(t, time.Now()); err != nil {
			return nil, fmt.Errorf("service: reschedule %s: %w", id, err)
		}
	}

	if err := s.persist(ctx, t); err != nil {
		return nil, err
	}
	s.notifyTournament(id)
	return t, nil
}

// ReportScore applies or clears a match result, then re-runs Resolver and
// Scheduler, per spec.md §6.
func (s *TournamentService) ReportScore(ctx context.Context, id, matchID string, isAdmin bool, code string, sets []domain.SetScore, clear bool) (*domain.Tournament, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && strings.TrimSpace(code) != t.Code {
		return nil, ErrInvalidCode
	}

	var match *domain.Match
	for _, m := range t.Matches {
		if m.ID == matchID {
			match = m
			break
		}
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}

	if clear {
		match.Winner = ""
		match.Sets = nil
		match.P1Sets = 0
		match.P2Sets = 0
		match.Status = domain.StatusPending
	} else {
		if match.P1 == "" || match.P2 == "" {
			return nil, fmt.Errorf("%w: match slots are not resolved yet", ErrInvalidInput)
		}
		winner, p1Sets, p2Sets, err := evaluateScore(match.P1, match.P2, sets)
		if err != nil {
			return nil, err
		}
		match.Sets = sets
		match.P1Sets = p1Sets
		match.P2Sets = p2Sets
		match.Winner = winner
		match.Status = domain.StatusFinished
	}

	engine.Resolve(t.Matches)
	if err := engine.Schedule(t, time.Now()); err != nil {
		return nil, fmt.Errorf("service: schedule %s: %w", id, err)
	}

	if err := s.persist(ctx, t); err != nil {
		return nil, err
	}
	s.notifyTournament(id)
	return t, nil
}

// Delete removes a tournament's blob entirely.
func (s *TournamentService) Delete(ctx context.Context, id string, isAdmin bool) error {
	if !isAdmin {
		return ErrUnauthorized
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		if err == store.ErrNotFound {
			return ErrNotFound
		}
		return err
	}
	s.cache.Delete(ctx, cache.DashboardKey)
	s.notifyDashboard()
	return nil
}

func (s *TournamentService) load(ctx context.Context, id string) (*domain.Tournament, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TournamentService) persist(ctx context.Context, t *domain.Tournament) error {
	if err := s.store.Put(ctx, t); err != nil {
		return err
	}
	s.cache.Delete(ctx, cache.DashboardKey)
	return nil
}

// regenerate runs the full Generator -> Resolver -> Scheduler pipeline,
// replacing t.Matches entirely. Used by create and by update_settings when
// teams or format changed.
func (s *TournamentService) regenerate(t *domain.Tournament) error {
	matches, err := engine.Generate(t.Teams, t.Format)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	t.Matches = matches
	engine.Resolve(t.Matches)
	if err := engine.Schedule(t, time.Now()); err != nil {
		return fmt.Errorf("service: schedule %s: %w", t.ID, err)
	}
	return nil
}

func (s *TournamentService) notifyDashboard() {
	s.hub.Notify(ws.Event{Type: ws.EventDashboardUpdate})
}

func (s *TournamentService) notifyTournament(id string) {
	s.hub.Notify(ws.Event{Type: ws.EventTournamentUpdate, TournamentID: id})
	s.hub.Notify(ws.Event{Type: ws.EventDashboardUpdate})
}

func sameTeams(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
