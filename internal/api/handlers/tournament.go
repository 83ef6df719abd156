package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apimiddleware "github.com/fieldhouse/bracket/internal/api/middleware"
	"github.com/fieldhouse/bracket/internal/domain"
	"github.com/fieldhouse/bracket/internal/service"
)

type TournamentHandler struct {
	svc *service.TournamentService
}

func NewTournamentHandler(svc *service.TournamentService) *TournamentHandler {
	return &TournamentHandler{svc: svc}
}

// settingsRequest is the wire shape shared by create and update_settings,
// mirroring spec.md §9's single TournamentCreate blob used for both.
type settingsRequest struct {
	Name      string   `json:"name"`
	Date      string   `json:"date"`
	Code      string   `json:"code"`
	Format    string   `json:"format"`
	Courts    []string `json:"courts"`
	Duration  int      `json:"duration"`
	StartTime string   `json:"start_time"`
	Teams     []string `json:"teams"`
}

func (req settingsRequest) toSettings() domain.Settings {
	return domain.Settings{
		Name:      req.Name,
		Date:      req.Date,
		Code:      req.Code,
		Format:    domain.Format(req.Format),
		Courts:    req.Courts,
		Duration:  req.Duration,
		StartTime: req.StartTime,
		Teams:     req.Teams,
	}
}

func (h *TournamentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Dashboard(r.Context(), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(view)
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tour, err := h.svc.Create(r.Context(), req.toSettings())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(tour)
}

func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tour, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(tour)
}

func (h *TournamentHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tour, err := h.svc.UpdateSettings(r.Context(), id, apimiddleware.IsAdmin(r.Context()), req.toSettings())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(tour)
}

func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), id, apimiddleware.IsAdmin(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reportScoreRequest struct {
	Sets  []domain.SetScore `json:"sets"`
	Code  string            `json:"code"`
	Clear bool              `json:"clear"`
}

func (h *TournamentHandler) ReportScore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	matchID := chi.URLParam(r, "matchId")

	var req reportScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tour, err := h.svc.ReportScore(r.Context(), id, matchID, apimiddleware.IsAdmin(r.Context()), req.Code, req.Sets, req.Clear)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(tour)
}
