// Package api wires HTTP routes onto the service layer: chi routing, CORS,
// the optional-admin middleware, and the handlers in internal/api/handlers.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fieldhouse/bracket/internal/api/handlers"
	apimiddleware "github.com/fieldhouse/bracket/internal/api/middleware"
	"github.com/fieldhouse/bracket/internal/config"
	"github.com/fieldhouse/bracket/internal/security"
	"github.com/fieldhouse/bracket/internal/service"
	"github.com/fieldhouse/bracket/internal/ws"
)

func NewRouter(svc *service.TournamentService, hub *ws.Hub, tokens *security.TokenService, admin config.AdminConfig, serverCfg config.ServerConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   serverCfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.SetHeader("Content-Type", "application/json"))
	r.Use(apimiddleware.OptionalAdmin(tokens))

	tournamentHandler := handlers.NewTournamentHandler(svc)
	authHandler := handlers.NewAuthHandler(admin, tokens)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Get("/health", handlers.Health)
	r.Post("/auth/login", authHandler.Login)
	r.Get("/ws", wsHandler.Subscribe)

	r.Get("/tournaments", tournamentHandler.Dashboard)
	r.Post("/tournaments", tournamentHandler.Create)
	r.Get("/tournaments/{id}", tournamentHandler.Get)
	r.Put("/tournaments/{id}", tournamentHandler.UpdateSettings)
	r.Delete("/tournaments/{id}", tournamentHandler.Delete)
	r.Post("/tournaments/{id}/matches/{matchId}/report", tournamentHandler.ReportScore)

	return r
}
