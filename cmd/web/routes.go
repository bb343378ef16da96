package main

import (
	"net/http"

	"github.com/AdamBeresnev/arena-bracket/internal/live"
	"github.com/AdamBeresnev/arena-bracket/internal/middleware"
	"github.com/AdamBeresnev/arena-bracket/internal/service"
	"github.com/AdamBeresnev/arena-bracket/internal/store"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

type application struct {
	logger         zerolog.Logger
	sessions       *scs.SessionManager
	allowedOrigins []string
	hub            *live.Hub
	organizerStore *store.OrganizerStore
	tournaments    *service.TournamentService
	matches        *service.MatchService
	organizers     *service.OrganizerService
}

func newRouter(app *application) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(app.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Websocket upgrades need the raw connection, so they skip the session
	// middleware.
	r.Get("/ws/tournaments/{id}", app.subscribe)

	r.Group(func(r chi.Router) {
		r.Use(app.sessions.LoadAndSave)
		r.Use(middleware.LoadOrganizer(app.sessions, app.organizerStore))

		r.Get("/login", app.loginOptions)
		r.Get("/auth/{provider}", app.beginAuth)
		r.Get("/auth/{provider}/callback", app.completeAuth)
		r.Post("/auth/guest", app.guestLogin)
		r.Post("/logout", app.logout)

		r.Get("/s/{code}", app.sharedTournament)

		r.Route("/api", func(r chi.Router) {
			r.Get("/tournaments/{id}", app.getTournament)
			r.Get("/tournaments/{id}/bracket", app.getBracket)
			r.Get("/tournaments/{id}/entries/{entryID}/next", app.nextMatch)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)

				r.Get("/me", app.me)
				r.Get("/tournaments", app.listTournaments)
				r.Post("/tournaments", app.createTournament)
				r.Post("/tournaments/{id}/matches/{matchID}/result", app.recordResult)
			})
		})
	})

	return r
}
